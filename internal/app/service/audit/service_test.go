package audit

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

func newTestAudit(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:memdb_audit_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PaymentAuditLog{}, &models.ReceiptNumberAuditLog{}))
	return New(db, zap.NewNop().Sugar()), db
}

func TestRecordPaymentActionSnapshots(t *testing.T) {
	svc, db := newTestAudit(t)
	ctx := context.Background()

	pay := &models.Payment{
		ID:            1,
		CitationID:    42,
		AmountPaid:    decimal.RequireFromString("500.00"),
		ReceiptNumber: "CGVM123456",
		Status:        types.PaymentStatusPendingPrint,
	}
	require.NoError(t, svc.RecordPaymentAction(ctx, db, PaymentAction{
		PaymentID:  pay.ID,
		CitationID: pay.CitationID,
		Action:     types.AuditActionPaymentRecorded,
		ActorID:    7,
		After:      pay,
		Detail:     "Payment recorded",
	}))

	// Mutating the live row must not alter the stored snapshot.
	pay.Status = types.PaymentStatusCompleted

	rows, err := svc.ListPaymentActions(ctx, pay.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotEmpty(t, rows[0].ID)
	require.Equal(t, types.AuditActionPaymentRecorded, rows[0].Action)
	require.Nil(t, rows[0].Before.Data())
	require.Equal(t, types.PaymentStatusPendingPrint, rows[0].After.Data().Status)
}

func TestListPaymentActionsNewestFirst(t *testing.T) {
	svc, db := newTestAudit(t)
	ctx := context.Background()

	for _, action := range []types.AuditAction{
		types.AuditActionPaymentRecorded,
		types.AuditActionPaymentFinalized,
		types.AuditActionPaymentRefunded,
	} {
		require.NoError(t, svc.RecordPaymentAction(ctx, db, PaymentAction{
			PaymentID: 5, CitationID: 42, Action: action, ActorID: 7,
		}))
	}

	rows, err := svc.ListPaymentActions(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, types.AuditActionPaymentRefunded, rows[0].Action)
	require.Equal(t, types.AuditActionPaymentRecorded, rows[2].Action)
}

func TestDeletePaymentActionsSparesComplianceTrail(t *testing.T) {
	svc, db := newTestAudit(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordPaymentAction(ctx, db, PaymentAction{
		PaymentID: 9, CitationID: 42, Action: types.AuditActionPaymentRecorded, ActorID: 7,
	}))
	require.NoError(t, svc.RecordReceiptNumberEvent(ctx, db, ReceiptNumberEvent{
		PaymentID:    9,
		CitationID:   42,
		TicketNumber: "TCT-000042",
		OldOR:        "CGVM123456",
		Amount:       decimal.RequireFromString("500.00"),
		OldStatus:    types.PaymentStatusPendingPrint,
		NewStatus:    types.PaymentStatusCancelled,
		ActorID:      7,
		Reason:       "cancelled before printing",
	}))

	require.NoError(t, svc.DeletePaymentActions(ctx, db, 9))

	rows, err := svc.ListPaymentActions(ctx, 9)
	require.NoError(t, err)
	require.Empty(t, rows)

	trail, err := svc.ListReceiptNumberTrail(ctx, 42)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	require.Equal(t, "CGVM123456", trail[0].OldReceiptNumber)
}

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/tool"
	"github.com/kalsada/citepay/pkg/types"
	"github.com/shopspring/decimal"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service appends immutable audit entries for payment actions and OR-number
// events. Writes run on the transaction handle the caller passes in, so an
// aborted payment operation never leaves a stray audit row; the caller may
// pass the root DB for entries that must survive a rollback (e.g. the
// finalize-exhausted critical entry).
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// PaymentAction describes one lifecycle action for the general audit log.
type PaymentAction struct {
	PaymentID  int64
	CitationID int64
	Action     types.AuditAction
	ActorID    int64
	Before     *models.Payment
	After      *models.Payment
	Detail     string
}

// RecordPaymentAction appends a general audit entry on tx.
func (s *Service) RecordPaymentAction(ctx context.Context, tx *gorm.DB, a PaymentAction) error {
	entry := &models.PaymentAuditLog{
		ID:         tool.GenerateUUIDV7(),
		PaymentID:  a.PaymentID,
		CitationID: a.CitationID,
		Action:     a.Action,
		ActorID:    a.ActorID,
		Before:     datatypes.NewJSONType(snapshot(a.Before)),
		After:      datatypes.NewJSONType(snapshot(a.After)),
		Detail:     a.Detail,
		CreatedAt:  time.Now(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write payment audit entry: %w", err)
	}
	return nil
}

// ReceiptNumberEvent describes one OR-number compliance event.
type ReceiptNumberEvent struct {
	PaymentID    int64
	CitationID   int64
	TicketNumber string
	OldOR        string
	NewOR        string
	Amount       decimal.Decimal
	OldStatus    types.PaymentStatus
	NewStatus    types.PaymentStatus
	ActorID      int64
	Reason       string
}

// RecordReceiptNumberEvent appends an OR-compliance entry on tx.
func (s *Service) RecordReceiptNumberEvent(ctx context.Context, tx *gorm.DB, e ReceiptNumberEvent) error {
	entry := &models.ReceiptNumberAuditLog{
		ID:               tool.GenerateUUIDV7(),
		PaymentID:        e.PaymentID,
		CitationID:       e.CitationID,
		TicketNumber:     e.TicketNumber,
		OldReceiptNumber: e.OldOR,
		NewReceiptNumber: e.NewOR,
		Amount:           e.Amount,
		OldPaymentStatus: e.OldStatus,
		NewPaymentStatus: e.NewStatus,
		ActorID:          e.ActorID,
		Reason:           e.Reason,
		CreatedAt:        time.Now(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write OR audit entry: %w", err)
	}
	return nil
}

// DeletePaymentActions removes the general audit rows for a payment. Only
// the cancel path calls this, after the compliance entry that documents the
// deletion has been written.
func (s *Service) DeletePaymentActions(ctx context.Context, tx *gorm.DB, paymentID int64) error {
	if err := tx.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Delete(&models.PaymentAuditLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete audit rows for payment #%d: %w", paymentID, err)
	}
	return nil
}

// ListPaymentActions returns the general audit trail for one payment,
// newest first. Feeds the admin audit viewer.
func (s *Service) ListPaymentActions(ctx context.Context, paymentID int64) ([]*models.PaymentAuditLog, error) {
	var rows []*models.PaymentAuditLog
	if err := s.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries for payment #%d: %w", paymentID, err)
	}
	return rows, nil
}

// ListReceiptNumberTrail returns the OR-compliance trail for one citation,
// oldest first, the order compliance reports print it in.
func (s *Service) ListReceiptNumberTrail(ctx context.Context, citationID int64) ([]*models.ReceiptNumberAuditLog, error) {
	var rows []*models.ReceiptNumberAuditLog
	if err := s.db.WithContext(ctx).
		Where("citation_id = ?", citationID).
		Order("created_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list OR trail for citation #%d: %w", citationID, err)
	}
	return rows, nil
}

// snapshot copies a payment so the JSON column captures the state at write
// time, not whatever the caller mutates afterwards.
func snapshot(p *models.Payment) *models.Payment {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

package statistics

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

func newTestStats(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:memdb_stats_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Payment{}))
	return New(db), db
}

func seedPayment(t *testing.T, db *gorm.DB, day string, amount string, method types.PaymentMethod, status types.PaymentStatus, collector int64) {
	t.Helper()
	paidAt, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Payment{
		CitationID:    1,
		AmountPaid:    decimal.RequireFromString(amount),
		PaymentMethod: method,
		PaymentDate:   paidAt,
		ReceiptNumber: fmt.Sprintf("OR%08d", atomic.AddInt64(&testDBSeq, 1)),
		Status:        status,
		CollectedBy:   collector,
	}).Error)
}

func TestGetCollectionStatistic(t *testing.T) {
	svc, db := newTestStats(t)
	ctx := context.Background()

	seedPayment(t, db, "2026-08-01", "500.00", types.PaymentMethodCash, types.PaymentStatusCompleted, 7)
	seedPayment(t, db, "2026-08-01", "250.00", types.PaymentMethodGCash, types.PaymentStatusCompleted, 7)
	seedPayment(t, db, "2026-08-02", "100.00", types.PaymentMethodCash, types.PaymentStatusCompleted, 8)
	// Non-completed rows never count toward collections.
	seedPayment(t, db, "2026-08-02", "999.00", types.PaymentMethodCash, types.PaymentStatusPendingPrint, 7)
	seedPayment(t, db, "2026-08-02", "300.00", types.PaymentMethodCheck, types.PaymentStatusVoided, 7)

	res, err := svc.GetCollectionStatistic(ctx, &CollectionStatisticRequest{
		DataItems: []*CollectionStatisticDataItem{
			{ID: StatisticTypeDailyCollectionCount},
			{ID: StatisticTypeTotalCollectionAmount},
			{ID: StatisticTypeMethodBreakdown},
			{ID: StatisticTypeDailyVoidCount},
		},
	})
	require.NoError(t, err)

	daily := res.DataItems[StatisticTypeDailyCollectionCount]
	require.Len(t, daily, 2)
	require.Equal(t, "2026-08-02", daily[0].Date)
	require.EqualValues(t, 1, daily[0].Value)
	require.Equal(t, "2026-08-01", daily[1].Date)
	require.EqualValues(t, 2, daily[1].Value)

	total := res.DataItems[StatisticTypeTotalCollectionAmount]
	require.Len(t, total, 1)
	require.EqualValues(t, 3, total[0].Value)
	require.True(t, total[0].Amount.Equal(decimal.RequireFromString("850.00")),
		"got %s", total[0].Amount)

	breakdown := res.DataItems[StatisticTypeMethodBreakdown]
	require.Len(t, breakdown, 2)
	require.Equal(t, string(types.PaymentMethodCash), breakdown[0].Label)
	require.EqualValues(t, 2, breakdown[0].Value)

	voids := res.DataItems[StatisticTypeDailyVoidCount]
	require.Len(t, voids, 1)
	require.EqualValues(t, 1, voids[0].Value)
}

func TestCollectionStatisticFilters(t *testing.T) {
	svc, db := newTestStats(t)
	ctx := context.Background()

	seedPayment(t, db, "2026-08-01", "500.00", types.PaymentMethodCash, types.PaymentStatusCompleted, 7)
	seedPayment(t, db, "2026-08-01", "250.00", types.PaymentMethodGCash, types.PaymentStatusCompleted, 8)

	res, err := svc.GetCollectionStatistic(ctx, &CollectionStatisticRequest{
		Filters: []*types.CommonFilter{
			{Field: "collected_by", Operator: types.CommonFilterOperatorEq, Values: []any{7}},
		},
		DataItems: []*CollectionStatisticDataItem{{ID: StatisticTypeDailyCollectionAmount}},
	})
	require.NoError(t, err)

	daily := res.DataItems[StatisticTypeDailyCollectionAmount]
	require.Len(t, daily, 1)
	require.EqualValues(t, 1, daily[0].Value)
	require.True(t, daily[0].Amount.Equal(decimal.RequireFromString("500.00")))
}

func TestMethodFilterSkipsBreakdown(t *testing.T) {
	svc, db := newTestStats(t)
	ctx := context.Background()

	seedPayment(t, db, "2026-08-01", "500.00", types.PaymentMethodCash, types.PaymentStatusCompleted, 7)

	// A payment_method filter cannot apply to the method breakdown; the
	// data item comes back empty rather than silently unfiltered.
	res, err := svc.GetCollectionStatistic(ctx, &CollectionStatisticRequest{
		Filters: []*types.CommonFilter{
			{Field: "payment_method", Operator: types.CommonFilterOperatorEq, Values: []any{"cash"}},
		},
		DataItems: []*CollectionStatisticDataItem{
			{ID: StatisticTypeMethodBreakdown},
			{ID: StatisticTypeDailyCollectionCount},
		},
	})
	require.NoError(t, err)
	require.Nil(t, res.DataItems[StatisticTypeMethodBreakdown])
	require.Len(t, res.DataItems[StatisticTypeDailyCollectionCount], 1)
}

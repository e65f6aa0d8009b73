package payment

import (
	"context"
	"testing"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidateReceiptNumberFormat(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"typical booklet number", "CGVM123456", "CGVM123456", true},
		{"two letter prefix", "OR123456", "OR123456", true},
		{"lowercase normalized", "cgvm123456", "CGVM123456", true},
		{"surrounding whitespace trimmed", "  OR0001234567  ", "OR0001234567", true},
		{"max digits", "AB1234567890", "AB1234567890", true},
		{"empty", "", "", false},
		{"digits only", "123456", "", false},
		{"letters only", "CGVM", "", false},
		{"one letter prefix", "A123456", "", false},
		{"five letter prefix", "ABCDE123456", "", false},
		{"too few digits", "OR12345", "", false},
		{"too many digits", "OR12345678901", "", false},
		{"embedded space", "OR 123456", "", false},
		{"punctuation", "OR-123456", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValidateReceiptNumberFormat(tc.input)
			if !tc.ok {
				require.Error(t, err)
				require.Equal(t, KindInvalidFormat, KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidatePaymentVerdicts(t *testing.T) {
	_, db := newTestService(t)
	v := NewValidator()
	ctx := context.Background()

	pending := seedCitation(t, db, "500.00")
	contested := seedCitation(t, db, "500.00")
	require.NoError(t, db.Model(&models.Citation{}).Where("citation_id = ?", contested.ID).
		Update("status", types.CitationStatusContested).Error)
	paid := seedCitation(t, db, "500.00")
	require.NoError(t, db.Model(&models.Citation{}).Where("citation_id = ?", paid.ID).
		Update("status", types.CitationStatusPaid).Error)
	dismissed := seedCitation(t, db, "500.00")
	require.NoError(t, db.Model(&models.Citation{}).Where("citation_id = ?", dismissed.ID).
		Update("status", types.CitationStatusDismissed).Error)

	amount := decimal.RequireFromString("500.00")

	got, err := v.ValidatePayment(ctx, db, pending.ID, amount)
	require.NoError(t, err)
	require.Equal(t, pending.ID, got.ID)

	// Contested citations still accept payment.
	_, err = v.ValidatePayment(ctx, db, contested.ID, amount)
	require.NoError(t, err)

	_, err = v.ValidatePayment(ctx, db, paid.ID, amount)
	require.Equal(t, KindAlreadyPaid, KindOf(err))

	_, err = v.ValidatePayment(ctx, db, dismissed.ID, amount)
	require.Equal(t, KindNotPayable, KindOf(err))

	_, err = v.ValidatePayment(ctx, db, 99999, amount)
	require.Equal(t, KindNotFound, KindOf(err))

	// Exact match only, no tolerance.
	_, err = v.ValidatePayment(ctx, db, pending.ID, decimal.RequireFromString("500.01"))
	require.Equal(t, KindAmountMismatch, KindOf(err))

	// Equal values with different scales still match.
	_, err = v.ValidatePayment(ctx, db, pending.ID, decimal.RequireFromString("500"))
	require.NoError(t, err)
}

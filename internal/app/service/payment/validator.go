package payment

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/types"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// orNumberPattern accepts 2-4 leading letters followed by 6-10 digits,
// matching the formats on the city's pre-printed receipt booklets
// (e.g. CGVM123456, OR00012345).
var orNumberPattern = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{6,10}$`)

// Validator holds the pure business-rule checks for payment operations.
// It only reads; every mutation stays in the Service.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// ValidatePayment decides whether citationID can accept a payment of amount.
// On success it returns the citation snapshot for financial messaging.
func (v *Validator) ValidatePayment(ctx context.Context, tx *gorm.DB, citationID int64, amount decimal.Decimal) (*models.Citation, error) {
	var citation models.Citation
	if err := tx.WithContext(ctx).Where("citation_id = ?", citationID).First(&citation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "citation #%d not found", citationID)
		}
		return nil, wrapError(KindTransient, err, "failed to load citation #%d", citationID)
	}

	if !citation.Status.Payable() {
		if citation.Status == types.CitationStatusPaid {
			return nil, newError(KindAlreadyPaid, "citation #%d is already paid", citationID)
		}
		return nil, newError(KindNotPayable, "citation #%d is %s and cannot accept payment", citationID, citation.Status)
	}

	if !amount.Equal(citation.TotalFine) {
		return nil, newError(KindAmountMismatch,
			"amount %s does not match the total fine of %s for citation #%d",
			amount.StringFixed(2), citation.TotalFine.StringFixed(2), citationID)
	}

	var existing []models.Payment
	if err := tx.WithContext(ctx).
		Where("citation_id = ?", citationID).
		Find(&existing).Error; err != nil {
		return nil, wrapError(KindTransient, err, "failed to check active payments for citation #%d", citationID)
	}
	for i := range existing {
		if existing[i].IsActive() {
			return nil, newError(KindDuplicateActivePayment,
				"citation #%d already has an active payment (#%d, %s)",
				citationID, existing[i].ID, existing[i].Status)
		}
	}

	return &citation, nil
}

// ValidateReceiptNumberFormat normalizes and format-checks an OR number.
// Returns the normalized (uppercased, trimmed) value.
func (v *Validator) ValidateReceiptNumberFormat(orNumber string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(orNumber))
	if !orNumberPattern.MatchString(normalized) {
		return "", newError(KindInvalidFormat,
			"invalid OR number format %q: expected 2-4 letters followed by 6-10 digits", orNumber)
	}
	return normalized, nil
}

// ReceiptNumberCheck reports an OR number's availability, with the
// conflicting payment's details when occupied.
type ReceiptNumberCheck struct {
	Normalized        string              `json:"or_number"`
	Available         bool                `json:"available"`
	ConflictPaymentID int64               `json:"conflict_payment_id,omitempty"`
	ConflictCitation  int64               `json:"conflict_citation_id,omitempty"`
	ConflictStatus    types.PaymentStatus `json:"conflict_status,omitempty"`
}

// ValidateReceiptNumber applies the format check, then verifies no existing
// payment already carries the number.
func (v *Validator) ValidateReceiptNumber(ctx context.Context, tx *gorm.DB, orNumber string) (*ReceiptNumberCheck, error) {
	return v.validateReceiptNumberExcluding(ctx, tx, orNumber, 0)
}

// validateReceiptNumberExcluding is the variant used by the OR-correction
// path, which must not treat the payment's own current number as a conflict.
func (v *Validator) validateReceiptNumberExcluding(ctx context.Context, tx *gorm.DB, orNumber string, excludePaymentID int64) (*ReceiptNumberCheck, error) {
	normalized, err := v.ValidateReceiptNumberFormat(orNumber)
	if err != nil {
		return nil, err
	}

	// The cancelled exclusion mirrors the legacy query. Cancellation deletes
	// the payment row outright, so no row ever carries the status; the clause
	// is retained for behavioral parity.
	q := tx.WithContext(ctx).
		Where("receipt_number = ? AND status != ?", normalized, types.PaymentStatusCancelled)
	if excludePaymentID > 0 {
		q = q.Where("payment_id != ?", excludePaymentID)
	}

	var conflict models.Payment
	if err := q.First(&conflict).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ReceiptNumberCheck{Normalized: normalized, Available: true}, nil
		}
		return nil, wrapError(KindTransient, err, "failed to check OR number %s", normalized)
	}

	check := &ReceiptNumberCheck{
		Normalized:        normalized,
		Available:         false,
		ConflictPaymentID: conflict.ID,
		ConflictCitation:  conflict.CitationID,
		ConflictStatus:    conflict.Status,
	}
	return check, newError(KindDuplicateOR,
		"OR number %s is already used by payment #%d (citation #%d, %s)",
		normalized, conflict.ID, conflict.CitationID, conflict.Status)
}

package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/config"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptNumberSource supplies the OR number for a new payment. The counter
// workflow uses ManualSource: the cashier transcribes the number printed on
// the physical booklet receipt. SequenceSource generates numbers from a
// database counter and is selectable via config, but no deployment has
// switched to it.
type ReceiptNumberSource interface {
	// Next returns the OR number to use, given whatever the cashier typed.
	Next(ctx context.Context, tx *gorm.DB, transcribed string) (string, error)
}

// NewReceiptNumberSource picks the source configured for this deployment.
func NewReceiptNumberSource(cfg *config.Config) (ReceiptNumberSource, error) {
	switch cfg.Receipt.Source {
	case "", config.ReceiptSourceManual:
		return ManualSource{}, nil
	case config.ReceiptSourceSequence:
		return SequenceSource{Prefix: cfg.Receipt.SequencePrefix}, nil
	default:
		return nil, fmt.Errorf("unknown receipt source: %s", cfg.Receipt.Source)
	}
}

// ManualSource requires a transcribed OR number.
type ManualSource struct{}

func (ManualSource) Next(_ context.Context, _ *gorm.DB, transcribed string) (string, error) {
	if transcribed == "" {
		return "", newError(KindInvalidFormat, "OR number is required: transcribe it from the printed receipt")
	}
	return transcribed, nil
}

// SequenceSource draws the next value from receipt_number_sequences under a
// row lock, so two concurrent draws never produce the same number.
type SequenceSource struct {
	Prefix string
}

func (s SequenceSource) Next(ctx context.Context, tx *gorm.DB, _ string) (string, error) {
	var seq models.ReceiptNumberSequence
	q := tx.WithContext(ctx).Where("prefix = ?", s.Prefix)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&seq).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to load receipt sequence %s: %w", s.Prefix, err)
		}
		seq = models.ReceiptNumberSequence{Prefix: s.Prefix, NextValue: 1}
		if err := tx.WithContext(ctx).Create(&seq).Error; err != nil {
			return "", fmt.Errorf("failed to create receipt sequence %s: %w", s.Prefix, err)
		}
	}

	number := fmt.Sprintf("%s%08d", s.Prefix, seq.NextValue)
	if err := tx.WithContext(ctx).Model(&models.ReceiptNumberSequence{}).
		Where("id = ?", seq.ID).
		Update("next_value", seq.NextValue+1).Error; err != nil {
		return "", fmt.Errorf("failed to advance receipt sequence %s: %w", s.Prefix, err)
	}
	return number, nil
}

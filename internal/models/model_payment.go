package models

import (
	"time"

	"github.com/kalsada/citepay/pkg/types"
	"github.com/shopspring/decimal"
)

// Payment is a fine payment captured at the cashier counter.
// A citation may accumulate several payment rows over time (voided,
// refunded), but at most one active (pending_print or completed) at once.
type Payment struct {
	ID            int64               `gorm:"column:payment_id;primaryKey;autoIncrement" json:"payment_id"`
	CitationID    int64               `gorm:"column:citation_id;not null;index" json:"citation_id"`
	AmountPaid    decimal.Decimal     `gorm:"column:amount_paid;type:numeric(10,2);not null" json:"amount_paid"`
	PaymentMethod types.PaymentMethod `gorm:"column:payment_method;type:varchar(32);not null" json:"payment_method"`
	PaymentDate   time.Time           `gorm:"column:payment_date;not null" json:"payment_date"`
	// ReceiptNumber is the OR number transcribed from the physical receipt.
	// Unique across every row that still exists; cancellation deletes the row
	// and thereby frees the number.
	ReceiptNumber string              `gorm:"column:receipt_number;type:varchar(16);not null;index" json:"receipt_number"`
	Status        types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	CollectedBy   int64               `gorm:"column:collected_by;not null" json:"collected_by"`

	// Method-specific fields.
	CheckNumber     string     `gorm:"column:check_number;type:varchar(32)" json:"check_number,omitempty"`
	CheckBank       string     `gorm:"column:check_bank;type:varchar(64)" json:"check_bank,omitempty"`
	CheckDate       *time.Time `gorm:"column:check_date;default:null" json:"check_date,omitempty"`
	ReferenceNumber string     `gorm:"column:reference_number;type:varchar(64)" json:"reference_number,omitempty"`

	// Notes is an append-only annotation trail rendered as text. Use
	// AppendNote rather than assigning directly.
	Notes     string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsActive reports whether this payment occupies the citation's
// single active-payment slot.
func (p *Payment) IsActive() bool {
	return p != nil && p.Status.Active()
}

// AppendNote appends a timestamped annotation to the notes trail.
func (p *Payment) AppendNote(at time.Time, actorID int64, text string) {
	p.Notes = AppendNote(p.Notes, NoteEntry{At: at, ActorID: actorID, Text: text})
}

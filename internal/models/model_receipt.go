package models

import (
	"time"

	"github.com/kalsada/citepay/pkg/types"
)

// Receipt is the metadata record for the official receipt backing a payment
// (1:1). The rendered document itself is produced elsewhere; the core only
// tracks print and void bookkeeping.
type Receipt struct {
	ID            int64               `gorm:"column:receipt_id;primaryKey;autoIncrement" json:"receipt_id"`
	PaymentID     int64               `gorm:"column:payment_id;not null;uniqueIndex" json:"payment_id"`
	ReceiptNumber string              `gorm:"column:receipt_number;type:varchar(16);not null" json:"receipt_number"`
	Status        types.ReceiptStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`

	// Print tracking, updated on finalize.
	PrintCount    int        `gorm:"column:print_count;not null;default:0" json:"print_count"`
	PrintedAt     *time.Time `gorm:"column:printed_at;default:null" json:"printed_at"`
	LastPrintedBy *int64     `gorm:"column:last_printed_by;default:null" json:"last_printed_by"`
	LastPrintedAt *time.Time `gorm:"column:last_printed_at;default:null" json:"last_printed_at"`

	// Void tracking, updated when the payment is voided.
	CancellationReason string     `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *int64     `gorm:"column:cancelled_by;default:null" json:"cancelled_by"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at;default:null" json:"cancelled_at"`

	GeneratedBy int64     `gorm:"column:generated_by;not null" json:"generated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}

package models

import (
	"time"

	"github.com/kalsada/citepay/pkg/types"
	"github.com/shopspring/decimal"
)

// ReceiptNumberAuditLog is the OR-number compliance trail. One row per event
// that touches an official receipt number (issue, change, void, cancel,
// refund). Keyed by citation so the trail outlives a cancelled payment row.
type ReceiptNumberAuditLog struct {
	ID               string              `gorm:"column:id;primary_key;type:uuid" json:"id"`
	PaymentID        int64               `gorm:"column:payment_id;not null;index" json:"payment_id"`
	CitationID       int64               `gorm:"column:citation_id;not null;index" json:"citation_id"`
	TicketNumber     string              `gorm:"column:ticket_number;type:varchar(32);not null" json:"ticket_number"`
	OldReceiptNumber string              `gorm:"column:old_receipt_number;type:varchar(16)" json:"old_receipt_number"`
	NewReceiptNumber string              `gorm:"column:new_receipt_number;type:varchar(16)" json:"new_receipt_number"`
	Amount           decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	OldPaymentStatus types.PaymentStatus `gorm:"column:old_payment_status;type:varchar(32)" json:"old_payment_status"`
	NewPaymentStatus types.PaymentStatus `gorm:"column:new_payment_status;type:varchar(32)" json:"new_payment_status"`
	ActorID          int64               `gorm:"column:actor_id;not null" json:"actor_id"`
	Reason           string              `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt        time.Time           `json:"created_at"`
}

func (ReceiptNumberAuditLog) TableName() string {
	return "receipt_number_audit_log"
}

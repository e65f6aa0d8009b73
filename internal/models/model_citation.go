package models

import (
	"time"

	"github.com/kalsada/citepay/pkg/types"
	"github.com/shopspring/decimal"
)

// Citation is a traffic citation issued by an enforcement officer.
// Rows are created by the citation intake module; the payment core only
// flips Status and PaymentDate during payment transitions.
type Citation struct {
	ID           int64                `gorm:"column:citation_id;primaryKey;autoIncrement" json:"citation_id"`
	TicketNumber string               `gorm:"column:ticket_number;type:varchar(32);not null;uniqueIndex" json:"ticket_number"`
	ViolatorName string               `gorm:"column:violator_name;type:varchar(128)" json:"violator_name"`
	Status       types.CitationStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	TotalFine    decimal.Decimal      `gorm:"column:total_fine;type:numeric(10,2);not null" json:"total_fine"`
	// PaymentDate is non-nil iff Status is paid.
	PaymentDate *time.Time `gorm:"column:payment_date;default:null" json:"payment_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Citation) TableName() string {
	return "citations"
}

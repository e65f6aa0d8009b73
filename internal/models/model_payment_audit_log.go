package models

import (
	"time"

	"github.com/kalsada/citepay/pkg/types"

	"gorm.io/datatypes"
)

// PaymentAuditLog records one payment lifecycle action with before/after
// snapshots of the payment row. Append-only; rows are only ever deleted
// when their payment is cancelled (the pre-deletion compliance entry lives
// in ReceiptNumberAuditLog, which survives).
type PaymentAuditLog struct {
	ID         string            `gorm:"column:id;primary_key;type:uuid" json:"id"`
	PaymentID  int64             `gorm:"column:payment_id;not null;index" json:"payment_id"`
	CitationID int64             `gorm:"column:citation_id;not null;index" json:"citation_id"`
	Action     types.AuditAction `gorm:"column:action;type:varchar(64);not null" json:"action"`
	ActorID    int64             `gorm:"column:actor_id;not null" json:"actor_id"`
	// Before/After store the payment snapshot around the change.
	Before    datatypes.JSONType[*Payment] `gorm:"column:before;type:jsonb;default:'null'" json:"before"`
	After     datatypes.JSONType[*Payment] `gorm:"column:after;type:jsonb;default:'null'" json:"after"`
	Detail    string                       `gorm:"column:detail;type:text" json:"detail"`
	CreatedAt time.Time                    `json:"created_at"`
}

func (PaymentAuditLog) TableName() string {
	return "payment_audit_log"
}

package payment

import (
	"context"
	"time"

	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/types"
	"github.com/shopspring/decimal"
)

type RecordPaymentRequest struct {
	CitationID  int64               `json:"citation_id"`
	Amount      decimal.Decimal     `json:"amount"`
	Method      types.PaymentMethod `json:"payment_method"`
	CollectorID int64               `json:"collector_id"`
	// ReceiptNumber is the manually transcribed OR number. Required under the
	// manual source; ignored by the sequence source.
	ReceiptNumber string `json:"receipt_number"`

	// Method-specific fields.
	CheckNumber     string     `json:"check_number,omitempty"`
	CheckBank       string     `json:"check_bank,omitempty"`
	CheckDate       *time.Time `json:"check_date,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`

	Notes string `json:"notes,omitempty"`
}

type RecordPaymentResult struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	PaymentID     int64     `json:"payment_id,omitempty"`
	ReceiptNumber string    `json:"receipt_number,omitempty"`
	PaymentDate   time.Time `json:"payment_date,omitzero"`
}

type FinalizePaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PaymentID     int64  `json:"payment_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	CitationID    int64  `json:"citation_id,omitempty"`
	TicketNumber  string `json:"ticket_number,omitempty"`
	// RetryCount is the number of re-attempts consumed before the final
	// outcome (0 when the first attempt settled it).
	RetryCount int `json:"retry_count,omitempty"`
}

type VoidPaymentResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CancelPaymentResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// ORNumber is the freed receipt number, reusable immediately.
	ORNumber       string               `json:"or_number,omitempty"`
	CitationStatus types.CitationStatus `json:"citation_status,omitempty"`
}

type UpdateORNumberResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	NewOR   string `json:"new_or,omitempty"`
}

type RefundPaymentResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Scan payments request/response (admin list pages).
type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

// Processor runs the payment lifecycle state machine. Every mutation takes
// the acting user id explicitly; there is no ambient actor. Business-rule
// failures come back inside the result with Success=false, not as errors.
type Processor interface {
	// Record a pending_print payment plus its receipt record. The citation is
	// deliberately left untouched until FinalizePayment confirms the print.
	RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*RecordPaymentResult, error)
	// Confirm the physical receipt printed and mark the citation paid.
	FinalizePayment(ctx context.Context, paymentID int64, userID int64) (*FinalizePaymentResult, error)
	// Void a not-yet-finalized payment, reverting the citation.
	VoidPayment(ctx context.Context, paymentID int64, userID int64, reason string) (*VoidPaymentResult, error)
	// Cancel (hard-delete) a never-printed payment, freeing its OR number.
	CancelPayment(ctx context.Context, paymentID int64, userID int64) (*CancelPaymentResult, error)
	// Correct the OR number of a pending_print payment (printer jam recovery).
	UpdateORNumber(ctx context.Context, paymentID int64, newOR string, userID int64, reason string) (*UpdateORNumberResult, error)
	// Reverse an already-completed payment.
	RefundPayment(ctx context.Context, paymentID int64, reason string, userID int64) (*RefundPaymentResult, error)
	// Check whether an OR number is free (cashier pre-entry probe).
	CheckReceiptNumber(ctx context.Context, orNumber string) (*ReceiptNumberCheck, error)
	// Scan payments (used by admin list pages).
	ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error)
}

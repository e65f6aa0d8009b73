package types

// CitationStatus is the lifecycle status of a traffic citation.
type CitationStatus string

const (
	CitationStatusPending   CitationStatus = "pending"
	CitationStatusPaid      CitationStatus = "paid"
	CitationStatusContested CitationStatus = "contested"
	CitationStatusDismissed CitationStatus = "dismissed"
	CitationStatusVoid      CitationStatus = "void"
)

// Payable reports whether a citation in this status can accept a payment.
// Contested citations stay payable; dismissed and voided ones do not.
func (s CitationStatus) Payable() bool {
	switch s {
	case CitationStatusPending, CitationStatusContested:
		return true
	case CitationStatusPaid, CitationStatusDismissed, CitationStatusVoid:
		return false
	default:
		return false
	}
}

// PaymentStatus is the lifecycle status of a payment record.
type PaymentStatus string

const (
	PaymentStatusPendingPrint PaymentStatus = "pending_print"
	PaymentStatusCompleted    PaymentStatus = "completed"
	PaymentStatusVoided       PaymentStatus = "voided"
	PaymentStatusRefunded     PaymentStatus = "refunded"
	// PaymentStatusCancelled is never written to a payment row: cancellation
	// hard-deletes the record. The receipt-number uniqueness query still
	// excludes it, mirroring the legacy cashiering behavior.
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Active reports whether the payment occupies the citation's single
// active-payment slot.
func (s PaymentStatus) Active() bool {
	return s == PaymentStatusPendingPrint || s == PaymentStatusCompleted
}

// PaymentMethod is how the fine was tendered at the counter.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodGCash        PaymentMethod = "gcash"
	PaymentMethodPayMaya      PaymentMethod = "paymaya"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMoneyOrder   PaymentMethod = "money_order"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodOnline,
	PaymentMethodGCash,
	PaymentMethodPayMaya,
	PaymentMethodBankTransfer,
	PaymentMethodMoneyOrder,
}

func (m PaymentMethod) Valid() bool {
	for _, known := range paymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// ReceiptStatus tracks the printed-receipt record.
type ReceiptStatus string

const (
	ReceiptStatusActive ReceiptStatus = "active"
	ReceiptStatusVoid   ReceiptStatus = "void"
)

// AuditAction identifies a payment lifecycle action in the audit trail.
type AuditAction string

const (
	AuditActionPaymentRecorded  AuditAction = "payment_recorded"
	AuditActionPaymentFinalized AuditAction = "payment_finalized"
	AuditActionPaymentVoided    AuditAction = "payment_voided"
	AuditActionPaymentCancelled AuditAction = "payment_cancelled"
	AuditActionPaymentRefunded  AuditAction = "payment_refunded"
	AuditActionORNumberUpdated  AuditAction = "or_number_updated"
	AuditActionFinalizeFailed   AuditAction = "finalize_failed"
)

package payment

import (
	"errors"
	"fmt"
)

// ErrorKind classifies payment operation failures. The finalize retry loop
// keys off the kind rather than matching message substrings, so the
// no-retry exclusion list is checked by the compiler.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindAlreadyPaid
	KindNotPayable
	KindAmountMismatch
	KindDuplicateActivePayment
	KindInvalidFormat
	KindDuplicateOR
	KindInvalidState
	KindCitationVoided
	KindConsistency
	KindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyPaid:
		return "already_paid"
	case KindNotPayable:
		return "not_payable"
	case KindAmountMismatch:
		return "amount_mismatch"
	case KindDuplicateActivePayment:
		return "duplicate_active_payment"
	case KindInvalidFormat:
		return "invalid_format"
	case KindDuplicateOR:
		return "duplicate_or"
	case KindInvalidState:
		return "invalid_state"
	case KindCitationVoided:
		return "citation_voided"
	case KindConsistency:
		return "consistency"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Retryable reports whether retrying the operation could change the outcome.
// Business-rule verdicts are final; everything else (transient database
// failures, the consistency self-check, unclassified errors) may clear on a
// re-attempt.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindNotFound, KindAlreadyPaid, KindNotPayable, KindAmountMismatch,
		KindDuplicateActivePayment, KindInvalidFormat, KindDuplicateOR,
		KindInvalidState, KindCitationVoided:
		return false
	default:
		return true
	}
}

// Error is a classified payment failure.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from err, or KindUnknown for unclassified
// errors (which the retry loop treats as retryable).
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

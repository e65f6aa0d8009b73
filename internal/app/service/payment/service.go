package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kalsada/citepay/internal/app/service/audit"
	"github.com/kalsada/citepay/internal/models"
	"github.com/kalsada/citepay/pkg/config"
	"github.com/kalsada/citepay/pkg/logctx"
	"github.com/kalsada/citepay/pkg/metrics"
	"github.com/kalsada/citepay/pkg/types"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// finalizeMaxRetries re-attempts after the initial try; backoff grows
	// linearly (100ms, 200ms, 300ms).
	finalizeMaxRetries  = 3
	finalizeBackoffStep = 100 * time.Millisecond
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.SugaredLogger
	Cfg   *config.Config
	Audit *audit.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	cfg       *config.Config
	audit     *audit.Service
	validator *Validator
	orSource  ReceiptNumberSource

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewService(p Params) (Processor, error) {
	src, err := NewReceiptNumberSource(p.Cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		db:        p.DB,
		log:       p.Log,
		cfg:       p.Cfg,
		audit:     p.Audit,
		validator: NewValidator(),
		orSource:  src,
		sleep:     time.Sleep,
	}, nil
}

// lockedPayment loads a payment under a row lock, serializing concurrent
// finalize/void/cancel/refund attempts on the same row. sqlite (tests) has
// no FOR UPDATE and serializes writers anyway.
func (s *Service) lockedPayment(ctx context.Context, tx *gorm.DB, paymentID int64) (*models.Payment, error) {
	q := tx.WithContext(ctx).Where("payment_id = ?", paymentID)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p models.Payment
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "payment #%d not found", paymentID)
		}
		return nil, wrapError(KindTransient, err, "failed to load payment #%d", paymentID)
	}
	return &p, nil
}

func (s *Service) loadCitation(ctx context.Context, tx *gorm.DB, citationID int64) (*models.Citation, error) {
	var c models.Citation
	if err := tx.WithContext(ctx).Where("citation_id = ?", citationID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "citation #%d not found", citationID)
		}
		return nil, wrapError(KindTransient, err, "failed to load citation #%d", citationID)
	}
	return &c, nil
}

// revertCitation puts a citation back to pending with no payment date, the
// shared tail of void, cancel and refund.
func (s *Service) revertCitation(ctx context.Context, tx *gorm.DB, citationID int64) error {
	if err := tx.WithContext(ctx).Model(&models.Citation{}).
		Where("citation_id = ?", citationID).
		Updates(map[string]any{
			"status":       types.CitationStatusPending,
			"payment_date": nil,
		}).Error; err != nil {
		return wrapError(KindTransient, err, "failed to revert citation #%d", citationID)
	}
	return nil
}

// RecordPayment records a pending_print payment and its receipt record.
// The citation is deliberately not touched here: updating it only on
// finalize keeps the citation record from claiming an OR number whose
// physical receipt never printed.
func (s *Service) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*RecordPaymentResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if !req.Method.Valid() {
		return &RecordPaymentResult{Success: false, Message: fmt.Sprintf("unsupported payment method: %s", req.Method)}, nil
	}

	var result *RecordPaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		citation, err := s.validator.ValidatePayment(ctx, tx, req.CitationID, req.Amount)
		if err != nil {
			return err
		}

		orNumber, err := s.orSource.Next(ctx, tx, strings.TrimSpace(req.ReceiptNumber))
		if err != nil {
			return err
		}
		check, err := s.validator.ValidateReceiptNumber(ctx, tx, orNumber)
		if err != nil {
			return err
		}

		now := time.Now()
		pay := &models.Payment{
			CitationID:      req.CitationID,
			AmountPaid:      req.Amount,
			PaymentMethod:   req.Method,
			PaymentDate:     now,
			ReceiptNumber:   check.Normalized,
			Status:          types.PaymentStatusPendingPrint,
			CollectedBy:     req.CollectorID,
			CheckNumber:     req.CheckNumber,
			CheckBank:       req.CheckBank,
			CheckDate:       req.CheckDate,
			ReferenceNumber: req.ReferenceNumber,
		}
		if req.Notes != "" {
			pay.AppendNote(now, req.CollectorID, req.Notes)
		}
		if err := tx.WithContext(ctx).Create(pay).Error; err != nil {
			return wrapError(KindTransient, err, "failed to create payment for citation #%d", req.CitationID)
		}

		receipt := &models.Receipt{
			PaymentID:     pay.ID,
			ReceiptNumber: check.Normalized,
			Status:        types.ReceiptStatusActive,
			GeneratedBy:   req.CollectorID,
		}
		if err := tx.WithContext(ctx).Create(receipt).Error; err != nil {
			return wrapError(KindTransient, err, "failed to create receipt for payment #%d", pay.ID)
		}

		if err := s.audit.RecordPaymentAction(ctx, tx, audit.PaymentAction{
			PaymentID:  pay.ID,
			CitationID: req.CitationID,
			Action:     types.AuditActionPaymentRecorded,
			ActorID:    req.CollectorID,
			After:      pay,
			Detail: fmt.Sprintf("Payment of %s recorded for ticket %s - OR #%s, awaiting print confirmation",
				req.Amount.StringFixed(2), citation.TicketNumber, check.Normalized),
		}); err != nil {
			return err
		}

		result = &RecordPaymentResult{
			Success:       true,
			Message:       fmt.Sprintf("Payment recorded - OR #%s", check.Normalized),
			PaymentID:     pay.ID,
			ReceiptNumber: check.Normalized,
			PaymentDate:   now,
		}
		return nil
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnf("record payment rejected: citation=%d kind=%s err=%v", req.CitationID, KindOf(err), err)
		metrics.PaymentOps.WithLabelValues("record", "failure").Inc()
		return &RecordPaymentResult{Success: false, Message: err.Error()}, nil
	}
	metrics.PaymentOps.WithLabelValues("record", "success").Inc()
	return result, nil
}

// FinalizePayment confirms the physical receipt printed: the second phase of
// the two-phase commit. This is the only operation with automatic retry; a
// concurrent attempt on the same row is the failure most worth absorbing
// here, and a retry cannot change a business-rule verdict, so those kinds
// are excluded.
func (s *Service) FinalizePayment(ctx context.Context, paymentID int64, userID int64) (*FinalizePaymentResult, error) {
	log := logctx.FromCtx(ctx, s.log)

	retries := 0
	var lastErr error
	for attempt := 0; attempt <= finalizeMaxRetries; attempt++ {
		if attempt > 0 {
			retries++
			metrics.FinalizeRetries.Inc()
			s.sleep(finalizeBackoffStep * time.Duration(attempt))
		}

		res, err := s.finalizeOnce(ctx, paymentID, userID)
		if err == nil {
			res.RetryCount = retries
			metrics.PaymentOps.WithLabelValues("finalize", "success").Inc()
			return res, nil
		}
		lastErr = err

		kind := KindOf(err)
		if !kind.Retryable() {
			log.Warnf("finalize rejected: payment=%d kind=%s err=%v", paymentID, kind, err)
			metrics.PaymentOps.WithLabelValues("finalize", "failure").Inc()
			return &FinalizePaymentResult{Success: false, Message: err.Error(), PaymentID: paymentID, RetryCount: retries}, nil
		}
		log.Warnf("finalize attempt %d failed: payment=%d kind=%s err=%v", attempt+1, paymentID, kind, err)
	}

	// Retries exhausted: document the failure before surfacing it. The
	// entry is written on the root handle - there is no transaction left
	// to attach it to.
	log.Errorf("finalize exhausted retries: payment=%d err=%v", paymentID, lastErr)
	var citationID int64
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&p).Error; err == nil {
		citationID = p.CitationID
	}
	if err := s.audit.RecordPaymentAction(ctx, s.db, audit.PaymentAction{
		PaymentID:  paymentID,
		CitationID: citationID,
		Action:     types.AuditActionFinalizeFailed,
		ActorID:    userID,
		Detail:     fmt.Sprintf("CRITICAL: finalize failed after %d retries: %v", retries, lastErr),
	}); err != nil {
		log.Errorf("failed to record finalize failure audit entry: %v", err)
	}
	metrics.PaymentOps.WithLabelValues("finalize", "failure").Inc()
	return &FinalizePaymentResult{
		Success:    false,
		Message:    fmt.Sprintf("finalize failed after %d retries: %v", retries, lastErr),
		PaymentID:  paymentID,
		RetryCount: retries,
	}, nil
}

func (s *Service) finalizeOnce(ctx context.Context, paymentID int64, userID int64) (*FinalizePaymentResult, error) {
	var result *FinalizePaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockedPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if pay.Status != types.PaymentStatusPendingPrint {
			return newError(KindInvalidState, "payment #%d is not in pending_print (current: %s)", paymentID, pay.Status)
		}
		citation, err := s.loadCitation(ctx, tx, pay.CitationID)
		if err != nil {
			return err
		}
		if citation.Status == types.CitationStatusVoid || citation.Status == types.CitationStatusDismissed {
			return newError(KindCitationVoided, "citation #%d is %s", citation.ID, citation.Status)
		}

		before := *pay
		now := time.Now()

		if err := tx.WithContext(ctx).Model(&models.Payment{}).
			Where("payment_id = ?", paymentID).
			Update("status", types.PaymentStatusCompleted).Error; err != nil {
			return wrapError(KindTransient, err, "failed to complete payment #%d", paymentID)
		}
		pay.Status = types.PaymentStatusCompleted

		if err := tx.WithContext(ctx).Model(&models.Citation{}).
			Where("citation_id = ?", citation.ID).
			Updates(map[string]any{
				"status":       types.CitationStatusPaid,
				"payment_date": now,
			}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to mark citation #%d paid", citation.ID)
		}

		// Consistency self-check: re-read and assert the update actually
		// took. A silently failed update here would leave a completed
		// payment against an unpaid citation.
		var fresh models.Citation
		if err := tx.WithContext(ctx).Where("citation_id = ?", citation.ID).First(&fresh).Error; err != nil {
			return wrapError(KindTransient, err, "failed to re-read citation #%d", citation.ID)
		}
		if fresh.Status != types.CitationStatusPaid {
			return newError(KindConsistency,
				"CRITICAL: citation #%d reads %q after being marked paid (OR #%s)",
				citation.ID, fresh.Status, pay.ReceiptNumber)
		}

		// Receipt print tracking is best-effort: the citation/payment
		// transition is authoritative, receipt metadata is not.
		if err := tx.WithContext(ctx).Model(&models.Receipt{}).
			Where("payment_id = ?", paymentID).
			Updates(map[string]any{
				"printed_at":      now,
				"last_printed_at": now,
				"last_printed_by": userID,
				"print_count":     gorm.Expr("print_count + 1"),
			}).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Warnf("receipt print tracking update failed for payment #%d: %v", paymentID, err)
		}

		if err := s.audit.RecordPaymentAction(ctx, tx, audit.PaymentAction{
			PaymentID:  paymentID,
			CitationID: citation.ID,
			Action:     types.AuditActionPaymentFinalized,
			ActorID:    userID,
			Before:     &before,
			After:      pay,
			Detail: fmt.Sprintf("Citation #%d (%s) marked paid - OR #%s print confirmed",
				citation.ID, citation.TicketNumber, pay.ReceiptNumber),
		}); err != nil {
			return err
		}

		result = &FinalizePaymentResult{
			Success:       true,
			Message:       fmt.Sprintf("Payment completed - OR #%s", pay.ReceiptNumber),
			PaymentID:     paymentID,
			ReceiptNumber: pay.ReceiptNumber,
			CitationID:    citation.ID,
			TicketNumber:  citation.TicketNumber,
		}
		return nil
	})
	return result, err
}

// VoidPayment rolls back a not-yet-finalized payment. The row is kept (and
// its OR number stays burned); only cancel frees the number.
func (s *Service) VoidPayment(ctx context.Context, paymentID int64, userID int64, reason string) (*VoidPaymentResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockedPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if pay.Status != types.PaymentStatusPendingPrint {
			return newError(KindInvalidState, "payment #%d is not in pending_print (current: %s)", paymentID, pay.Status)
		}
		citation, err := s.loadCitation(ctx, tx, pay.CitationID)
		if err != nil {
			return err
		}

		before := *pay
		now := time.Now()
		pay.Status = types.PaymentStatusVoided
		pay.AppendNote(now, userID, "Payment voided: "+reason)
		if err := tx.WithContext(ctx).Model(&models.Payment{}).
			Where("payment_id = ?", paymentID).
			Updates(map[string]any{
				"status": types.PaymentStatusVoided,
				"notes":  pay.Notes,
			}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to void payment #%d", paymentID)
		}

		if err := tx.WithContext(ctx).Model(&models.Receipt{}).
			Where("payment_id = ?", paymentID).
			Updates(map[string]any{
				"status":              types.ReceiptStatusVoid,
				"cancellation_reason": reason,
				"cancelled_by":        userID,
				"cancelled_at":        now,
			}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to void receipt for payment #%d", paymentID)
		}

		if err := s.revertCitation(ctx, tx, citation.ID); err != nil {
			return err
		}

		if err := s.audit.RecordPaymentAction(ctx, tx, audit.PaymentAction{
			PaymentID:  paymentID,
			CitationID: citation.ID,
			Action:     types.AuditActionPaymentVoided,
			ActorID:    userID,
			Before:     &before,
			After:      pay,
			Detail:     fmt.Sprintf("Payment voided, citation #%d reverted to pending: %s", citation.ID, reason),
		}); err != nil {
			return err
		}
		return s.audit.RecordReceiptNumberEvent(ctx, tx, audit.ReceiptNumberEvent{
			PaymentID:    paymentID,
			CitationID:   citation.ID,
			TicketNumber: citation.TicketNumber,
			OldOR:        before.ReceiptNumber,
			NewOR:        before.ReceiptNumber,
			Amount:       pay.AmountPaid,
			OldStatus:    types.PaymentStatusPendingPrint,
			NewStatus:    types.PaymentStatusVoided,
			ActorID:      userID,
			Reason:       reason,
		})
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnf("void rejected: payment=%d kind=%s err=%v", paymentID, KindOf(err), err)
		metrics.PaymentOps.WithLabelValues("void", "failure").Inc()
		return &VoidPaymentResult{Success: false, Message: err.Error()}, nil
	}
	metrics.PaymentOps.WithLabelValues("void", "success").Inc()
	return &VoidPaymentResult{Success: true, Message: fmt.Sprintf("Payment #%d voided", paymentID)}, nil
}

// CancelPayment hard-deletes a never-printed payment, freeing its OR number
// for reuse. The compliance entry is written first: once the rows are gone
// it is the only record the payment ever existed.
func (s *Service) CancelPayment(ctx context.Context, paymentID int64, userID int64) (*CancelPaymentResult, error) {
	var result *CancelPaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockedPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if pay.Status != types.PaymentStatusPendingPrint {
			return newError(KindInvalidState, "payment #%d is not in pending_print (current: %s)", paymentID, pay.Status)
		}
		citation, err := s.loadCitation(ctx, tx, pay.CitationID)
		if err != nil {
			return err
		}

		if err := s.audit.RecordReceiptNumberEvent(ctx, tx, audit.ReceiptNumberEvent{
			PaymentID:    paymentID,
			CitationID:   citation.ID,
			TicketNumber: citation.TicketNumber,
			OldOR:        pay.ReceiptNumber,
			NewOR:        "",
			Amount:       pay.AmountPaid,
			OldStatus:    types.PaymentStatusPendingPrint,
			NewStatus:    types.PaymentStatusCancelled,
			ActorID:      userID,
			Reason:       "payment cancelled before printing; OR number freed for reuse",
		}); err != nil {
			return err
		}

		// Deletion order respects foreign keys: receipt, audit rows, payment.
		if err := tx.WithContext(ctx).Where("payment_id = ?", paymentID).Delete(&models.Receipt{}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to delete receipt for payment #%d", paymentID)
		}
		if err := s.audit.DeletePaymentActions(ctx, tx, paymentID); err != nil {
			return wrapError(KindTransient, err, "failed to delete audit rows for payment #%d", paymentID)
		}
		if err := tx.WithContext(ctx).Where("payment_id = ?", paymentID).Delete(&models.Payment{}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to delete payment #%d", paymentID)
		}

		if err := s.revertCitation(ctx, tx, citation.ID); err != nil {
			return err
		}

		result = &CancelPaymentResult{
			Success:        true,
			Message:        fmt.Sprintf("Payment #%d cancelled, OR #%s freed", paymentID, pay.ReceiptNumber),
			ORNumber:       pay.ReceiptNumber,
			CitationStatus: types.CitationStatusPending,
		}
		return nil
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnf("cancel rejected: payment=%d kind=%s err=%v", paymentID, KindOf(err), err)
		metrics.PaymentOps.WithLabelValues("cancel", "failure").Inc()
		return &CancelPaymentResult{Success: false, Message: err.Error()}, nil
	}
	metrics.PaymentOps.WithLabelValues("cancel", "success").Inc()
	return result, nil
}

// UpdateORNumber corrects the OR number of a pending_print payment, the
// printer-jam recovery path: the cashier re-prints onto a fresh booklet
// receipt and transcribes the new number.
func (s *Service) UpdateORNumber(ctx context.Context, paymentID int64, newOR string, userID int64, reason string) (*UpdateORNumberResult, error) {
	var result *UpdateORNumberResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockedPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if pay.Status != types.PaymentStatusPendingPrint {
			return newError(KindInvalidState, "payment #%d is not in pending_print (current: %s)", paymentID, pay.Status)
		}
		citation, err := s.loadCitation(ctx, tx, pay.CitationID)
		if err != nil {
			return err
		}

		check, err := s.validator.validateReceiptNumberExcluding(ctx, tx, newOR, paymentID)
		if err != nil {
			return err
		}

		before := *pay
		now := time.Now()
		pay.ReceiptNumber = check.Normalized
		pay.AppendNote(now, userID, fmt.Sprintf("OR number changed from %s to %s: %s", before.ReceiptNumber, check.Normalized, reason))
		if err := tx.WithContext(ctx).Model(&models.Payment{}).
			Where("payment_id = ?", paymentID).
			Updates(map[string]any{
				"receipt_number": check.Normalized,
				"notes":          pay.Notes,
			}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to update OR number for payment #%d", paymentID)
		}
		if err := tx.WithContext(ctx).Model(&models.Receipt{}).
			Where("payment_id = ?", paymentID).
			Update("receipt_number", check.Normalized).Error; err != nil {
			return wrapError(KindTransient, err, "failed to update OR number on receipt for payment #%d", paymentID)
		}

		if err := s.audit.RecordPaymentAction(ctx, tx, audit.PaymentAction{
			PaymentID:  paymentID,
			CitationID: citation.ID,
			Action:     types.AuditActionORNumberUpdated,
			ActorID:    userID,
			Before:     &before,
			After:      pay,
			Detail:     fmt.Sprintf("OR number changed from %s to %s: %s", before.ReceiptNumber, check.Normalized, reason),
		}); err != nil {
			return err
		}
		if err := s.audit.RecordReceiptNumberEvent(ctx, tx, audit.ReceiptNumberEvent{
			PaymentID:    paymentID,
			CitationID:   citation.ID,
			TicketNumber: citation.TicketNumber,
			OldOR:        before.ReceiptNumber,
			NewOR:        check.Normalized,
			Amount:       pay.AmountPaid,
			OldStatus:    types.PaymentStatusPendingPrint,
			NewStatus:    types.PaymentStatusPendingPrint,
			ActorID:      userID,
			Reason:       reason,
		}); err != nil {
			return err
		}

		result = &UpdateORNumberResult{
			Success: true,
			Message: fmt.Sprintf("OR number updated to %s", check.Normalized),
			NewOR:   check.Normalized,
		}
		return nil
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnf("update OR rejected: payment=%d kind=%s err=%v", paymentID, KindOf(err), err)
		metrics.PaymentOps.WithLabelValues("update_or", "failure").Inc()
		return &UpdateORNumberResult{Success: false, Message: err.Error()}, nil
	}
	metrics.PaymentOps.WithLabelValues("update_or", "success").Inc()
	return result, nil
}

// RefundPayment reverses an already-completed payment and reopens the
// citation.
func (s *Service) RefundPayment(ctx context.Context, paymentID int64, reason string, userID int64) (*RefundPaymentResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockedPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if pay.Status != types.PaymentStatusCompleted {
			return newError(KindInvalidState, "payment #%d is not completed (current: %s)", paymentID, pay.Status)
		}
		citation, err := s.loadCitation(ctx, tx, pay.CitationID)
		if err != nil {
			return err
		}

		before := *pay
		now := time.Now()
		pay.Status = types.PaymentStatusRefunded
		pay.AppendNote(now, userID, "Payment refunded: "+reason)
		if err := tx.WithContext(ctx).Model(&models.Payment{}).
			Where("payment_id = ?", paymentID).
			Updates(map[string]any{
				"status": types.PaymentStatusRefunded,
				"notes":  pay.Notes,
			}).Error; err != nil {
			return wrapError(KindTransient, err, "failed to refund payment #%d", paymentID)
		}

		if err := s.revertCitation(ctx, tx, citation.ID); err != nil {
			return err
		}

		if err := s.audit.RecordPaymentAction(ctx, tx, audit.PaymentAction{
			PaymentID:  paymentID,
			CitationID: citation.ID,
			Action:     types.AuditActionPaymentRefunded,
			ActorID:    userID,
			Before:     &before,
			After:      pay,
			Detail:     fmt.Sprintf("Payment refunded, citation #%d reverted to pending: %s", citation.ID, reason),
		}); err != nil {
			return err
		}
		return s.audit.RecordReceiptNumberEvent(ctx, tx, audit.ReceiptNumberEvent{
			PaymentID:    paymentID,
			CitationID:   citation.ID,
			TicketNumber: citation.TicketNumber,
			OldOR:        before.ReceiptNumber,
			NewOR:        before.ReceiptNumber,
			Amount:       pay.AmountPaid,
			OldStatus:    types.PaymentStatusCompleted,
			NewStatus:    types.PaymentStatusRefunded,
			ActorID:      userID,
			Reason:       reason,
		})
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnf("refund rejected: payment=%d kind=%s err=%v", paymentID, KindOf(err), err)
		metrics.PaymentOps.WithLabelValues("refund", "failure").Inc()
		return &RefundPaymentResult{Success: false, Message: err.Error()}, nil
	}
	metrics.PaymentOps.WithLabelValues("refund", "success").Inc()
	return &RefundPaymentResult{Success: true, Message: fmt.Sprintf("Payment #%d refunded", paymentID)}, nil
}

// CheckReceiptNumber probes an OR number's availability without reserving
// it. A duplicate is reported in the check result, not as an error.
func (s *Service) CheckReceiptNumber(ctx context.Context, orNumber string) (*ReceiptNumberCheck, error) {
	check, err := s.validator.ValidateReceiptNumber(ctx, s.db, orNumber)
	if err != nil && KindOf(err) == KindDuplicateOR {
		return check, nil
	}
	return check, err
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanPayments implements paginated/admin listing with filters.
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []*models.Payment

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}

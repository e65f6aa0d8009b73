package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	mw "github.com/kalsada/citepay/internal/app/api/middleware"
	"github.com/kalsada/citepay/internal/app/service/payment"
)

type stubProcessor struct {
	recorded  *payment.RecordPaymentRequest
	finalized int64
	actor     int64
}

func (s *stubProcessor) RecordPayment(_ context.Context, req *payment.RecordPaymentRequest) (*payment.RecordPaymentResult, error) {
	s.recorded = req
	return &payment.RecordPaymentResult{Success: true, Message: "Payment recorded - OR #CGVM123456", PaymentID: 11, ReceiptNumber: "CGVM123456"}, nil
}

func (s *stubProcessor) FinalizePayment(_ context.Context, paymentID int64, userID int64) (*payment.FinalizePaymentResult, error) {
	s.finalized = paymentID
	s.actor = userID
	return &payment.FinalizePaymentResult{Success: true, PaymentID: paymentID, ReceiptNumber: "CGVM123456"}, nil
}

func (s *stubProcessor) VoidPayment(_ context.Context, paymentID int64, _ int64, _ string) (*payment.VoidPaymentResult, error) {
	return &payment.VoidPaymentResult{Success: true}, nil
}

func (s *stubProcessor) CancelPayment(_ context.Context, paymentID int64, _ int64) (*payment.CancelPaymentResult, error) {
	return &payment.CancelPaymentResult{Success: true, ORNumber: "CGVM123456"}, nil
}

func (s *stubProcessor) UpdateORNumber(_ context.Context, _ int64, newOR string, _ int64, _ string) (*payment.UpdateORNumberResult, error) {
	return &payment.UpdateORNumberResult{Success: true, NewOR: newOR}, nil
}

func (s *stubProcessor) RefundPayment(_ context.Context, _ int64, _ string, _ int64) (*payment.RefundPaymentResult, error) {
	return &payment.RefundPaymentResult{Success: true}, nil
}

func (s *stubProcessor) CheckReceiptNumber(_ context.Context, orNumber string) (*payment.ReceiptNumberCheck, error) {
	return &payment.ReceiptNumberCheck{Normalized: orNumber, Available: true}, nil
}

func (s *stubProcessor) ScanPayments(_ context.Context, _ *payment.ScanPaymentsRequest) (*payment.ScanPaymentsResponse, error) {
	return &payment.ScanPaymentsResponse{Total: 0}, nil
}

func newPaymentRouter(proc payment.Processor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/api/v1/payment")
	grp.Use(func(c *gin.Context) {
		c.Set("principal", mw.Principal{UserID: 7, Role: "cashier"})
	})
	RegisterPaymentRoutes(grp, proc)
	return r
}

func TestApiRecordPayment_TakesActorFromPrincipal(t *testing.T) {
	stub := &stubProcessor{}
	r := newPaymentRouter(stub)

	body, _ := json.Marshal(map[string]any{
		"citation_id":    42,
		"amount":         "500.00",
		"payment_method": "cash",
		"receipt_number": "CGVM123456",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/record", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "CGVM123456")
	require.NotNil(t, stub.recorded)
	require.EqualValues(t, 42, stub.recorded.CitationID)
	require.EqualValues(t, 7, stub.recorded.CollectorID)
}

func TestApiRecordPayment_RejectsMissingFields(t *testing.T) {
	r := newPaymentRouter(&stubProcessor{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/record", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiFinalizePayment(t *testing.T) {
	stub := &stubProcessor{}
	r := newPaymentRouter(stub)

	body, _ := json.Marshal(map[string]any{"payment_id": 11})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/finalize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 11, stub.finalized)
	require.EqualValues(t, 7, stub.actor)
}

func TestApiPayment_RequiresPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1/payment"), &stubProcessor{})

	body, _ := json.Marshal(map[string]any{"payment_id": 11})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/finalize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApiCheckReceiptNumber(t *testing.T) {
	r := newPaymentRouter(&stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/check_or?or_number=CGVM123456", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"available":true`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/payment/check_or", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

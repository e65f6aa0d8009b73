package handlers

import (
	"net/http"
	"time"

	mw "github.com/kalsada/citepay/internal/app/api/middleware"
	"github.com/kalsada/citepay/internal/app/service/payment"
	"github.com/kalsada/citepay/pkg/response"
	"github.com/kalsada/citepay/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RecordPaymentReq struct {
	CitationID    int64           `json:"citation_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	ReceiptNumber string          `json:"receipt_number"`

	CheckNumber     string     `json:"check_number,omitempty"`
	CheckBank       string     `json:"check_bank,omitempty"`
	CheckDate       *time.Time `json:"check_date,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`

	Notes string `json:"notes,omitempty"`
}

type FinalizePaymentReq struct {
	PaymentID int64 `json:"payment_id" binding:"required"`
}

type VoidPaymentReq struct {
	PaymentID int64  `json:"payment_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type CancelPaymentReq struct {
	PaymentID int64 `json:"payment_id" binding:"required"`
}

type UpdateORNumberReq struct {
	PaymentID int64  `json:"payment_id" binding:"required"`
	NewOR     string `json:"new_or_number" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type RefundPaymentReq struct {
	PaymentID int64  `json:"payment_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

func principal(c *gin.Context) (mw.Principal, bool) {
	p, ok := mw.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing principal"))
	}
	return p, ok
}

// @Summary      Record Payment
// @Description  Records a citation payment in pending_print state and reserves its OR number.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentReq true "Record payment request"
// @Success      200  {object}  handlers.RespRecordPayment
// @Router       /api/v1/payment/record [post]
func ApiRecordPayment(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req RecordPaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := proc.RecordPayment(c.Request.Context(), &payment.RecordPaymentRequest{
			CitationID:      req.CitationID,
			Amount:          req.Amount,
			Method:          types.PaymentMethod(req.PaymentMethod),
			CollectorID:     p.UserID,
			ReceiptNumber:   req.ReceiptNumber,
			CheckNumber:     req.CheckNumber,
			CheckBank:       req.CheckBank,
			CheckDate:       req.CheckDate,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Finalize Payment
// @Description  Confirms the physical receipt printed; completes the payment and marks the citation paid.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body FinalizePaymentReq true "Finalize payment request"
// @Success      200  {object}  handlers.RespFinalizePayment
// @Router       /api/v1/payment/finalize [post]
func ApiFinalizePayment(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req FinalizePaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := proc.FinalizePayment(c.Request.Context(), req.PaymentID, p.UserID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Void Payment
// @Description  Voids a pending_print payment and reverts its citation; the OR number stays burned.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body VoidPaymentReq true "Void payment request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/void [post]
func ApiVoidPayment(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req VoidPaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := proc.VoidPayment(c.Request.Context(), req.PaymentID, p.UserID, req.Reason)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Cancel Payment
// @Description  Hard-deletes a never-printed payment and frees its OR number for reuse.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body CancelPaymentReq true "Cancel payment request"
// @Success      200  {object}  handlers.RespCancelPayment
// @Router       /api/v1/payment/cancel [post]
func ApiCancelPayment(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req CancelPaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := proc.CancelPayment(c.Request.Context(), req.PaymentID, p.UserID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Update OR Number
// @Description  Re-transcribes the OR number of a pending_print payment after a print problem.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body UpdateORNumberReq true "Update OR number request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/update_or [post]
func ApiUpdateORNumber(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req UpdateORNumberReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := proc.UpdateORNumber(c.Request.Context(), req.PaymentID, req.NewOR, p.UserID, req.Reason)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Refund Payment
// @Description  Reverses a completed payment and reopens the citation.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body RefundPaymentReq true "Refund payment request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/refund [post]
func ApiRefundPayment(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		var req RefundPaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := proc.RefundPayment(c.Request.Context(), req.PaymentID, req.Reason, p.UserID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Check OR Number
// @Description  Probes whether an OR number is valid and unclaimed, without reserving it.
// @Tags         Payment
// @Produce      json
// @Param        or_number query string true "OR number to check"
// @Success      200  {object}  handlers.RespCheckOR
// @Router       /api/v1/payment/check_or [get]
func ApiCheckReceiptNumber(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		orNumber := c.Query("or_number")
		if orNumber == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "or_number is required"))
			return
		}
		res, err := proc.CheckReceiptNumber(c.Request.Context(), orNumber)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, proc payment.Processor) {
	r.POST("/record", ApiRecordPayment(proc))
	r.POST("/finalize", ApiFinalizePayment(proc))
	r.POST("/void", ApiVoidPayment(proc))
	r.POST("/cancel", ApiCancelPayment(proc))
	r.POST("/update_or", ApiUpdateORNumber(proc))
	r.POST("/refund", ApiRefundPayment(proc))
	r.GET("/check_or", ApiCheckReceiptNumber(proc))
}

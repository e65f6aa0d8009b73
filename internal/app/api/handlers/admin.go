package handlers

import (
	"net/http"
	"strconv"

	"github.com/kalsada/citepay/internal/app/service/audit"
	"github.com/kalsada/citepay/internal/app/service/payment"
	"github.com/kalsada/citepay/internal/app/service/statistics"
	"github.com/kalsada/citepay/pkg/response"
	"github.com/kalsada/citepay/pkg/types"

	"github.com/gin-gonic/gin"
)

type ListPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// @Summary      List Payments (Admin)
// @Description  Retrieves a paginated and filterable list of payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPaymentsRequest true "List payment request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/list_payments [post]
func ApiListPayments(proc payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &payment.ScanPaymentsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := proc.ScanPayments(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Collection Statistics (Admin)
// @Description  Retrieves daily collection statistics.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.CollectionStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespCollectionStatistic
// @Router       /api/v1/admin/get_collection_statistic [post]
func ApiGetCollectionStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.CollectionStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetCollectionStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List Payment Audit Trail (Admin)
// @Description  Retrieves the audit entries of a payment, newest first.
// @Tags         Admin
// @Produce      json
// @Param        payment_id query int true "Payment ID"
// @Success      200  {object}  handlers.RespListPaymentAudit
// @Router       /api/v1/admin/list_payment_audit [get]
func ApiListPaymentAudit(aud *audit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, err := strconv.ParseInt(c.Query("payment_id"), 10, 64)
		if err != nil || paymentID <= 0 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid payment_id"))
			return
		}
		rows, err := aud.ListPaymentActions(c.Request.Context(), paymentID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      List OR Number Trail (Admin)
// @Description  Retrieves the receipt-number compliance trail of a citation, oldest first.
// @Tags         Admin
// @Produce      json
// @Param        citation_id query int true "Citation ID"
// @Success      200  {object}  handlers.RespListORTrail
// @Router       /api/v1/admin/list_or_trail [get]
func ApiListORTrail(aud *audit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		citationID, err := strconv.ParseInt(c.Query("citation_id"), 10, 64)
		if err != nil || citationID <= 0 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid citation_id"))
			return
		}
		rows, err := aud.ListReceiptNumberTrail(c.Request.Context(), citationID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterAdminRoutes(r gin.IRouter, proc payment.Processor, stats *statistics.Service, aud *audit.Service) {
	r.POST("/list_payments", ApiListPayments(proc))
	r.POST("/get_collection_statistic", ApiGetCollectionStatistic(stats))
	r.GET("/list_payment_audit", ApiListPaymentAudit(aud))
	r.GET("/list_or_trail", ApiListORTrail(aud))
}

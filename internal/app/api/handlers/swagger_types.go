package handlers

import (
	"github.com/kalsada/citepay/internal/app/service/payment"
	"github.com/kalsada/citepay/internal/app/service/statistics"
	"github.com/kalsada/citepay/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespRecordPayment wraps RecordPaymentResult in the standard envelope.
type RespRecordPayment struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    payment.RecordPaymentResult `json:"data"`
}

// RespFinalizePayment wraps FinalizePaymentResult in the standard envelope.
type RespFinalizePayment struct {
	Code    response.APIResponseCode      `json:"code"`
	Message string                        `json:"message"`
	Data    payment.FinalizePaymentResult `json:"data"`
}

// RespCancelPayment wraps CancelPaymentResult in the standard envelope.
type RespCancelPayment struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    payment.CancelPaymentResult `json:"data"`
}

// RespCheckOR wraps ReceiptNumberCheck in the standard envelope.
type RespCheckOR struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    payment.ReceiptNumberCheck `json:"data"`
}

// RespListPayments wraps ScanPaymentsResponse in the standard envelope.
type RespListPayments struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    payment.ScanPaymentsResponse `json:"data"`
}

// RespCollectionStatistic wraps CollectionStatisticResponse in the standard envelope.
type RespCollectionStatistic struct {
	Code    response.APIResponseCode               `json:"code"`
	Message string                                 `json:"message"`
	Data    statistics.CollectionStatisticResponse `json:"data"`
}

// RespListPaymentAudit wraps the payment audit trail in the standard envelope.
type RespListPaymentAudit struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []interface{}            `json:"data"`
}

// RespListORTrail wraps the OR number trail in the standard envelope.
type RespListORTrail struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []interface{}            `json:"data"`
}

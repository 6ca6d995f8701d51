package handler

import (
	"net/http"

	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/internal/invoices/service"
	"tourdesk_backend/internal/invoices/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListInvoices(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	agentID, ok := optionalUUIDQuery(c, "agent_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	list, err := h.svc.ListInvoices(c.Request.Context(), repository.ListInvoicesParams{
		OrganizationID: tenantID,
		Status:         c.Query("status"),
		AgentID:        agentID,
		Search:         c.Query("search"),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toListInvoicesResponse(list))
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	detail, err := h.svc.GetInvoice(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toInvoiceDetailResponse(detail))
}

func (h *Handler) ApplyPayment(c *gin.Context) {
	var req transport.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, actorID, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.ApplyPayment(c.Request.Context(), service.PaymentParams{
		InvoiceID:      id,
		OrganizationID: tenantID,
		AmountMinor:    req.PaymentAmount,
		Currency:       req.PaymentCurrency,
		Method:         req.PaymentMethod,
		Reference:      req.PaymentReference,
		PaidOn:         mustParseDate(req.PaymentDate),
		Notes:          req.Notes,
		RecordedBy:     actorID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ApplyPaymentResponse{
		Invoice: toInvoiceResponse(result.Invoice),
		Payment: toPaymentResponse(result.Payment),
	})
}

func (h *Handler) InitiateRefund(c *gin.Context) {
	var req transport.InitiateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, actorID, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.InitiateRefund(c.Request.Context(), service.RefundParams{
		InvoiceID:      id,
		OrganizationID: tenantID,
		AmountMinor:    req.RefundAmount,
		Currency:       req.RefundCurrency,
		Method:         req.RefundMethod,
		Reference:      req.RefundReference,
		Reason:         req.RefundReason,
		CancellationID: req.CancellationID,
		ProcessedBy:    actorID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.RefundInvoiceResponse{
		Invoice: toInvoiceResponse(result.Invoice),
		Refund:  toRefundResponse(result.Cancellation),
	})
}

func (h *Handler) CompleteRefund(c *gin.Context) {
	var req transport.CompleteRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, actorID, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.CompleteRefund(c.Request.Context(), id, req.CancellationID, tenantID, actorID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.RefundInvoiceResponse{
		Invoice: toInvoiceResponse(result.Invoice),
		Refund:  toRefundResponse(result.Cancellation),
	})
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}
	httpkit.OK(c, items)
}

func (h *Handler) ListRefunds(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	refunds, err := h.svc.ListRefunds(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		items = append(items, toRefundResponse(r))
	}
	httpkit.OK(c, items)
}

// PaymentQR serves an EPC069-12 payment QR for the outstanding balance as a
// PNG image.
func (h *Handler) PaymentQR(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	png, err := h.svc.PaymentQR(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) ListBookings(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	list, err := h.svc.ListBookings(c.Request.Context(), repository.ListBookingsParams{
		OrganizationID: tenantID,
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toListBookingsResponse(list))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	booking, err := h.svc.GetBooking(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toBookingResponse(booking))
}

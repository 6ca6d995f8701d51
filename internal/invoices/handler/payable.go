package handler

import (
	"net/http"

	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/internal/invoices/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreatePayable(c *gin.Context) {
	var req transport.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	payable, err := h.svc.CreatePayable(c.Request.Context(), repository.CreatePayableParams{
		OrganizationID: tenantID,
		SupplierID:     req.SupplierID,
		SupplierRef:    req.SupplierRef,
		Currency:       req.Currency,
		AmountMinor:    req.AmountMinor,
		DueDate:        parseDatePtr(req.DueDate),
		Notes:          req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toPayableResponse(payable))
}

func (h *Handler) GetPayable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	payable, err := h.svc.GetPayable(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toPayableResponse(payable))
}

func (h *Handler) UpdatePayable(c *gin.Context) {
	var req transport.UpdatePayableRequest
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
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	payable, err := h.svc.UpdatePayable(c.Request.Context(), repository.UpdatePayableParams{
		ID:             id,
		OrganizationID: tenantID,
		SupplierID:     req.SupplierID,
		SupplierRef:    req.SupplierRef,
		Currency:       req.Currency,
		AmountMinor:    req.AmountMinor,
		DueDate:        parseDatePtr(req.DueDate),
		Notes:          req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toPayableResponse(payable))
}

func (h *Handler) UpdatePayableStatus(c *gin.Context) {
	var req transport.UpdatePayableStatusRequest
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
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	payable, err := h.svc.UpdatePayableStatus(c.Request.Context(), id, tenantID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toPayableResponse(payable))
}

func (h *Handler) DeletePayable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePayable(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListPayables(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	supplierID, ok := optionalUUIDQuery(c, "supplier_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	list, err := h.svc.ListPayables(c.Request.Context(), repository.ListPayablesParams{
		OrganizationID: tenantID,
		Status:         c.Query("status"),
		SupplierID:     supplierID,
		Search:         c.Query("search"),
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toListPayablesResponse(list))
}

package handler

import (
	"net/http"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateEntranceFee(c *gin.Context) {
	var req transport.CreateEntranceFeeRequest
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

	fee, err := h.svc.CreateEntranceFee(c.Request.Context(), repository.CreateEntranceFeeParams{
		OrganizationID: tenantID,
		SiteName:       req.SiteName,
		City:           req.City,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toEntranceFeeResponse(fee))
}

func (h *Handler) GetEntranceFee(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	fee, err := h.svc.GetEntranceFee(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toEntranceFeeResponse(fee))
}

func (h *Handler) UpdateEntranceFee(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateEntranceFeeRequest
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

	fee, err := h.svc.UpdateEntranceFee(c.Request.Context(), repository.UpdateEntranceFeeParams{
		ID:             id,
		OrganizationID: tenantID,
		SiteName:       req.SiteName,
		City:           req.City,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toEntranceFeeResponse(fee))
}

func (h *Handler) ArchiveEntranceFee(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.ArchiveEntranceFee(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreEntranceFee(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.RestoreEntranceFee(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	fee, err := h.svc.GetEntranceFee(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toEntranceFeeResponse(fee))
}

func (h *Handler) ListEntranceFees(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListEntranceFees(c.Request.Context(), listParamsFromQuery(c, tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.EntranceFeeResponse, 0, len(result.Items))
	for _, fee := range result.Items {
		items = append(items, toEntranceFeeResponse(fee))
	}

	httpkit.OK(c, transport.ListEntranceFeesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toEntranceFeeResponse(fee repository.EntranceFee) transport.EntranceFeeResponse {
	return transport.EntranceFeeResponse{
		ID:         fee.ID.String(),
		SiteName:   fee.SiteName,
		City:       fee.City,
		ArchivedAt: fee.ArchivedAt,
		CreatedAt:  fee.CreatedAt,
		UpdatedAt:  fee.UpdatedAt,
	}
}

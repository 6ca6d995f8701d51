package handler

import (
	"net/http"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateGuide(c *gin.Context) {
	var req transport.CreateGuideRequest
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

	guide, err := h.svc.CreateGuide(c.Request.Context(), repository.CreateGuideParams{
		OrganizationID: tenantID,
		Name:           req.Name,
		City:           req.City,
		Languages:      req.Languages,
		Phone:          req.Phone,
		Email:          req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toGuideResponse(guide))
}

func (h *Handler) GetGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	guide, err := h.svc.GetGuide(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toGuideResponse(guide))
}

func (h *Handler) UpdateGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateGuideRequest
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

	guide, err := h.svc.UpdateGuide(c.Request.Context(), repository.UpdateGuideParams{
		ID:             id,
		OrganizationID: tenantID,
		Name:           req.Name,
		City:           req.City,
		Languages:      req.Languages,
		Phone:          req.Phone,
		Email:          req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toGuideResponse(guide))
}

func (h *Handler) ArchiveGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.ArchiveGuide(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.RestoreGuide(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	guide, err := h.svc.GetGuide(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toGuideResponse(guide))
}

func (h *Handler) ListGuides(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListGuides(c.Request.Context(), listParamsFromQuery(c, tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.GuideResponse, 0, len(result.Items))
	for _, guide := range result.Items {
		items = append(items, toGuideResponse(guide))
	}

	httpkit.OK(c, transport.ListGuidesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toGuideResponse(guide repository.Guide) transport.GuideResponse {
	return transport.GuideResponse{
		ID:         guide.ID.String(),
		Name:       guide.Name,
		City:       guide.City,
		Languages:  guide.Languages,
		Phone:      guide.Phone,
		Email:      guide.Email,
		ArchivedAt: guide.ArchivedAt,
		CreatedAt:  guide.CreatedAt,
		UpdatedAt:  guide.UpdatedAt,
	}
}

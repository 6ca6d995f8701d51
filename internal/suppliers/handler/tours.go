package handler

import (
	"net/http"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateDailyTour(c *gin.Context) {
	var req transport.CreateDailyTourRequest
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

	tour, err := h.svc.CreateDailyTour(c.Request.Context(), repository.CreateDailyTourParams{
		OrganizationID: tenantID,
		RouteName:      req.RouteName,
		City:           req.City,
		Description:    req.Description,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toDailyTourResponse(tour))
}

func (h *Handler) GetDailyTour(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	tour, err := h.svc.GetDailyTour(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toDailyTourResponse(tour))
}

func (h *Handler) UpdateDailyTour(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateDailyTourRequest
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

	tour, err := h.svc.UpdateDailyTour(c.Request.Context(), repository.UpdateDailyTourParams{
		ID:             id,
		OrganizationID: tenantID,
		RouteName:      req.RouteName,
		City:           req.City,
		Description:    req.Description,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toDailyTourResponse(tour))
}

func (h *Handler) ArchiveDailyTour(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.ArchiveDailyTour(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreDailyTour(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.RestoreDailyTour(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	tour, err := h.svc.GetDailyTour(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toDailyTourResponse(tour))
}

func (h *Handler) ListDailyTours(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListDailyTours(c.Request.Context(), listParamsFromQuery(c, tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.DailyTourResponse, 0, len(result.Items))
	for _, tour := range result.Items {
		items = append(items, toDailyTourResponse(tour))
	}

	httpkit.OK(c, transport.ListDailyToursResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toDailyTourResponse(tour repository.DailyTour) transport.DailyTourResponse {
	return transport.DailyTourResponse{
		ID:          tour.ID.String(),
		RouteName:   tour.RouteName,
		City:        tour.City,
		Description: tour.Description,
		ArchivedAt:  tour.ArchivedAt,
		CreatedAt:   tour.CreatedAt,
		UpdatedAt:   tour.UpdatedAt,
	}
}

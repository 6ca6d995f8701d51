package handler

import (
	"net/http"

	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/internal/pricing/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateTourRate(c *gin.Context) {
	var req transport.CreateTourRateRequest
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

	rate, err := h.svc.CreateTourRate(c.Request.Context(), repository.CreateTourRateParams{
		OrganizationID: tenantID,
		DailyTourID:    req.DailyTourID,
		ValidFrom:      mustParseDate(req.ValidFrom),
		ValidTo:        mustParseDate(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toTourRateResponse(rate))
}

func (h *Handler) GetTourRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	rate, err := h.svc.GetTourRate(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toTourRateResponse(rate))
}

func (h *Handler) UpdateTourRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateTourRateRequest
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

	rate, err := h.svc.UpdateTourRate(c.Request.Context(), repository.UpdateTourRateParams{
		ID:             id,
		OrganizationID: tenantID,
		ValidFrom:      parseDatePtr(req.ValidFrom),
		ValidTo:        parseDatePtr(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toTourRateResponse(rate))
}

func (h *Handler) DeleteTourRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteTourRate(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTourRates(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	tourID, ok := optionalUUIDQuery(c, "daily_tour_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	result, err := h.svc.ListTourRates(c.Request.Context(), repository.RateListParams{
		OrganizationID: tenantID,
		SupplierID:     tourID,
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.TourRateResponse, 0, len(result.Items))
	for _, rate := range result.Items {
		items = append(items, toTourRateResponse(rate))
	}

	httpkit.OK(c, transport.ListTourRatesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toTourRateResponse(rate repository.TourRate) transport.TourRateResponse {
	return transport.TourRateResponse{
		ID:          rate.ID.String(),
		DailyTourID: rate.DailyTourID.String(),
		ValidFrom:   formatDate(rate.ValidFrom),
		ValidTo:     formatDate(rate.ValidTo),
		CostMinor:   rate.CostMinor,
		Currency:    rate.Currency,
		CreatedAt:   rate.CreatedAt,
		UpdatedAt:   rate.UpdatedAt,
	}
}

package handler

import (
	"net/http"

	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/internal/pricing/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateGuideRate(c *gin.Context) {
	var req transport.CreateGuideRateRequest
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

	rate, err := h.svc.CreateGuideRate(c.Request.Context(), repository.CreateGuideRateParams{
		OrganizationID: tenantID,
		GuideID:        req.GuideID,
		ValidFrom:      mustParseDate(req.ValidFrom),
		ValidTo:        mustParseDate(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toGuideRateResponse(rate))
}

func (h *Handler) GetGuideRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	rate, err := h.svc.GetGuideRate(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toGuideRateResponse(rate))
}

func (h *Handler) UpdateGuideRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateGuideRateRequest
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

	rate, err := h.svc.UpdateGuideRate(c.Request.Context(), repository.UpdateGuideRateParams{
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

	httpkit.OK(c, toGuideRateResponse(rate))
}

func (h *Handler) DeleteGuideRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteGuideRate(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListGuideRates(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	guideID, ok := optionalUUIDQuery(c, "guide_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	result, err := h.svc.ListGuideRates(c.Request.Context(), repository.RateListParams{
		OrganizationID: tenantID,
		SupplierID:     guideID,
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.GuideRateResponse, 0, len(result.Items))
	for _, rate := range result.Items {
		items = append(items, toGuideRateResponse(rate))
	}

	httpkit.OK(c, transport.ListGuideRatesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toGuideRateResponse(rate repository.GuideRate) transport.GuideRateResponse {
	return transport.GuideRateResponse{
		ID:        rate.ID.String(),
		GuideID:   rate.GuideID.String(),
		ValidFrom: formatDate(rate.ValidFrom),
		ValidTo:   formatDate(rate.ValidTo),
		CostMinor: rate.CostMinor,
		Currency:  rate.Currency,
		CreatedAt: rate.CreatedAt,
		UpdatedAt: rate.UpdatedAt,
	}
}

package handler

import (
	"net/http"

	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/internal/pricing/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateEntranceRate(c *gin.Context) {
	var req transport.CreateEntranceRateRequest
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

	rate, err := h.svc.CreateEntranceRate(c.Request.Context(), repository.CreateEntranceRateParams{
		OrganizationID: tenantID,
		EntranceFeeID:  req.EntranceFeeID,
		ValidFrom:      mustParseDate(req.ValidFrom),
		ValidTo:        mustParseDate(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toEntranceRateResponse(rate))
}

func (h *Handler) GetEntranceRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	rate, err := h.svc.GetEntranceRate(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toEntranceRateResponse(rate))
}

func (h *Handler) UpdateEntranceRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateEntranceRateRequest
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

	rate, err := h.svc.UpdateEntranceRate(c.Request.Context(), repository.UpdateEntranceRateParams{
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

	httpkit.OK(c, toEntranceRateResponse(rate))
}

func (h *Handler) DeleteEntranceRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteEntranceRate(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListEntranceRates(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	feeID, ok := optionalUUIDQuery(c, "entrance_fee_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	result, err := h.svc.ListEntranceRates(c.Request.Context(), repository.RateListParams{
		OrganizationID: tenantID,
		SupplierID:     feeID,
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.EntranceRateResponse, 0, len(result.Items))
	for _, rate := range result.Items {
		items = append(items, toEntranceRateResponse(rate))
	}

	httpkit.OK(c, transport.ListEntranceRatesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toEntranceRateResponse(rate repository.EntranceRate) transport.EntranceRateResponse {
	return transport.EntranceRateResponse{
		ID:            rate.ID.String(),
		EntranceFeeID: rate.EntranceFeeID.String(),
		ValidFrom:     formatDate(rate.ValidFrom),
		ValidTo:       formatDate(rate.ValidTo),
		CostMinor:     rate.CostMinor,
		Currency:      rate.Currency,
		CreatedAt:     rate.CreatedAt,
		UpdatedAt:     rate.UpdatedAt,
	}
}

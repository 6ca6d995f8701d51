package handler

import (
	"net/http"

	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/internal/pricing/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateVehicleRate(c *gin.Context) {
	var req transport.CreateVehicleRateRequest
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

	rate, err := h.svc.CreateVehicleRate(c.Request.Context(), repository.CreateVehicleRateParams{
		OrganizationID: tenantID,
		VehicleID:      req.VehicleID,
		ValidFrom:      mustParseDate(req.ValidFrom),
		ValidTo:        mustParseDate(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toVehicleRateResponse(rate))
}

func (h *Handler) GetVehicleRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	rate, err := h.svc.GetVehicleRate(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toVehicleRateResponse(rate))
}

func (h *Handler) UpdateVehicleRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateVehicleRateRequest
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

	rate, err := h.svc.UpdateVehicleRate(c.Request.Context(), repository.UpdateVehicleRateParams{
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

	httpkit.OK(c, toVehicleRateResponse(rate))
}

func (h *Handler) DeleteVehicleRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteVehicleRate(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListVehicleRates(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	vehicleID, ok := optionalUUIDQuery(c, "vehicle_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	result, err := h.svc.ListVehicleRates(c.Request.Context(), repository.RateListParams{
		OrganizationID: tenantID,
		SupplierID:     vehicleID,
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.VehicleRateResponse, 0, len(result.Items))
	for _, rate := range result.Items {
		items = append(items, toVehicleRateResponse(rate))
	}

	httpkit.OK(c, transport.ListVehicleRatesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toVehicleRateResponse(rate repository.VehicleRate) transport.VehicleRateResponse {
	return transport.VehicleRateResponse{
		ID:        rate.ID.String(),
		VehicleID: rate.VehicleID.String(),
		ValidFrom: formatDate(rate.ValidFrom),
		ValidTo:   formatDate(rate.ValidTo),
		CostMinor: rate.CostMinor,
		Currency:  rate.Currency,
		CreatedAt: rate.CreatedAt,
		UpdatedAt: rate.UpdatedAt,
	}
}

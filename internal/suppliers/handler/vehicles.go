package handler

import (
	"net/http"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateVehicle(c *gin.Context) {
	var req transport.CreateVehicleRequest
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

	vehicle, err := h.svc.CreateVehicle(c.Request.Context(), repository.CreateVehicleParams{
		OrganizationID: tenantID,
		Type:           req.Type,
		Capacity:       req.Capacity,
		Plate:          req.Plate,
		Phone:          req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	vehicle, err := h.svc.GetVehicle(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toVehicleResponse(vehicle))
}

func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateVehicleRequest
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

	vehicle, err := h.svc.UpdateVehicle(c.Request.Context(), repository.UpdateVehicleParams{
		ID:             id,
		OrganizationID: tenantID,
		Type:           req.Type,
		Capacity:       req.Capacity,
		Plate:          req.Plate,
		Phone:          req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toVehicleResponse(vehicle))
}

func (h *Handler) ArchiveVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.ArchiveVehicle(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.RestoreVehicle(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	vehicle, err := h.svc.GetVehicle(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toVehicleResponse(vehicle))
}

func (h *Handler) ListVehicles(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListVehicles(c.Request.Context(), listParamsFromQuery(c, tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.VehicleResponse, 0, len(result.Items))
	for _, vehicle := range result.Items {
		items = append(items, toVehicleResponse(vehicle))
	}

	httpkit.OK(c, transport.ListVehiclesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toVehicleResponse(vehicle repository.Vehicle) transport.VehicleResponse {
	return transport.VehicleResponse{
		ID:         vehicle.ID.String(),
		Type:       vehicle.Type,
		Capacity:   vehicle.Capacity,
		Plate:      vehicle.Plate,
		Phone:      vehicle.Phone,
		ArchivedAt: vehicle.ArchivedAt,
		CreatedAt:  vehicle.CreatedAt,
		UpdatedAt:  vehicle.UpdatedAt,
	}
}

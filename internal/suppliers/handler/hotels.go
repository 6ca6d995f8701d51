package handler

import (
	"net/http"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateHotel(c *gin.Context) {
	var req transport.CreateHotelRequest
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

	hotel, err := h.svc.CreateHotel(c.Request.Context(), repository.CreateHotelParams{
		OrganizationID: tenantID,
		Name:           req.Name,
		City:           req.City,
		Stars:          req.Stars,
		BoardType:      req.BoardType,
		Phone:          req.Phone,
		Email:          req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toHotelResponse(hotel))
}

func (h *Handler) GetHotel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	hotel, err := h.svc.GetHotel(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toHotelResponse(hotel))
}

func (h *Handler) UpdateHotel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateHotelRequest
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

	hotel, err := h.svc.UpdateHotel(c.Request.Context(), repository.UpdateHotelParams{
		ID:             id,
		OrganizationID: tenantID,
		Name:           req.Name,
		City:           req.City,
		Stars:          req.Stars,
		BoardType:      req.BoardType,
		Phone:          req.Phone,
		Email:          req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toHotelResponse(hotel))
}

func (h *Handler) ArchiveHotel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.ArchiveHotel(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreHotel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.RestoreHotel(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	hotel, err := h.svc.GetHotel(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toHotelResponse(hotel))
}

func (h *Handler) ListHotels(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListHotels(c.Request.Context(), listParamsFromQuery(c, tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.HotelResponse, 0, len(result.Items))
	for _, hotel := range result.Items {
		items = append(items, toHotelResponse(hotel))
	}

	httpkit.OK(c, transport.ListHotelsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toHotelResponse(hotel repository.Hotel) transport.HotelResponse {
	return transport.HotelResponse{
		ID:         hotel.ID.String(),
		Name:       hotel.Name,
		City:       hotel.City,
		Stars:      hotel.Stars,
		BoardType:  hotel.BoardType,
		Phone:      hotel.Phone,
		Email:      hotel.Email,
		ArchivedAt: hotel.ArchivedAt,
		CreatedAt:  hotel.CreatedAt,
		UpdatedAt:  hotel.UpdatedAt,
	}
}

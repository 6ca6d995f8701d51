package handler

import (
	"net/http"

	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/internal/pricing/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateHotelRate(c *gin.Context) {
	var req transport.CreateHotelRateRequest
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

	rate, err := h.svc.CreateHotelRate(c.Request.Context(), repository.CreateHotelRateParams{
		OrganizationID: tenantID,
		HotelID:        req.HotelID,
		RoomType:       req.RoomType,
		ValidFrom:      mustParseDate(req.ValidFrom),
		ValidTo:        mustParseDate(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toHotelRateResponse(rate))
}

func (h *Handler) GetHotelRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	rate, err := h.svc.GetHotelRate(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toHotelRateResponse(rate))
}

func (h *Handler) UpdateHotelRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateHotelRateRequest
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

	rate, err := h.svc.UpdateHotelRate(c.Request.Context(), repository.UpdateHotelRateParams{
		ID:             id,
		OrganizationID: tenantID,
		RoomType:       req.RoomType,
		ValidFrom:      parseDatePtr(req.ValidFrom),
		ValidTo:        parseDatePtr(req.ValidTo),
		CostMinor:      req.CostMinor,
		Currency:       req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toHotelRateResponse(rate))
}

func (h *Handler) DeleteHotelRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteHotelRate(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListHotelRates(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}
	hotelID, ok := optionalUUIDQuery(c, "hotel_id")
	if !ok {
		return
	}

	page, pageSize := pageFromQuery(c)
	result, err := h.svc.ListHotelRates(c.Request.Context(), repository.RateListParams{
		OrganizationID: tenantID,
		SupplierID:     hotelID,
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.HotelRateResponse, 0, len(result.Items))
	for _, rate := range result.Items {
		items = append(items, toHotelRateResponse(rate))
	}

	httpkit.OK(c, transport.ListHotelRatesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toHotelRateResponse(rate repository.HotelRate) transport.HotelRateResponse {
	return transport.HotelRateResponse{
		ID:        rate.ID.String(),
		HotelID:   rate.HotelID.String(),
		RoomType:  rate.RoomType,
		ValidFrom: formatDate(rate.ValidFrom),
		ValidTo:   formatDate(rate.ValidTo),
		CostMinor: rate.CostMinor,
		Currency:  rate.Currency,
		CreatedAt: rate.CreatedAt,
		UpdatedAt: rate.UpdatedAt,
	}
}

package handler

import (
	"net/http"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req transport.CreateRestaurantRequest
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

	restaurant, err := h.svc.CreateRestaurant(c.Request.Context(), repository.CreateRestaurantParams{
		OrganizationID: tenantID,
		Name:           req.Name,
		City:           req.City,
		Cuisine:        req.Cuisine,
		Phone:          req.Phone,
		Email:          req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toRestaurantResponse(restaurant))
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	restaurant, err := h.svc.GetRestaurant(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRestaurantResponse(restaurant))
}

func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateRestaurantRequest
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

	restaurant, err := h.svc.UpdateRestaurant(c.Request.Context(), repository.UpdateRestaurantParams{
		ID:             id,
		OrganizationID: tenantID,
		Name:           req.Name,
		City:           req.City,
		Cuisine:        req.Cuisine,
		Phone:          req.Phone,
		Email:          req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRestaurantResponse(restaurant))
}

func (h *Handler) ArchiveRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.ArchiveRestaurant(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.RestoreRestaurant(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	restaurant, err := h.svc.GetRestaurant(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRestaurantResponse(restaurant))
}

func (h *Handler) ListRestaurants(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListRestaurants(c.Request.Context(), listParamsFromQuery(c, tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.RestaurantResponse, 0, len(result.Items))
	for _, restaurant := range result.Items {
		items = append(items, toRestaurantResponse(restaurant))
	}

	httpkit.OK(c, transport.ListRestaurantsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toRestaurantResponse(restaurant repository.Restaurant) transport.RestaurantResponse {
	return transport.RestaurantResponse{
		ID:         restaurant.ID.String(),
		Name:       restaurant.Name,
		City:       restaurant.City,
		Cuisine:    restaurant.Cuisine,
		Phone:      restaurant.Phone,
		Email:      restaurant.Email,
		ArchivedAt: restaurant.ArchivedAt,
		CreatedAt:  restaurant.CreatedAt,
		UpdatedAt:  restaurant.UpdatedAt,
	}
}

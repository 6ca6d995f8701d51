// Package handler exposes the supplier registries over HTTP. Each registry
// gets the same surface: list, create, get, patch, archive, restore.
package handler

import (
	"net/http"
	"strconv"

	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/service"
	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts one sub-resource per registry under the suppliers group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hotels := rg.Group("/hotels")
	hotels.GET("", h.ListHotels)
	hotels.POST("", h.CreateHotel)
	hotels.GET("/:id", h.GetHotel)
	hotels.PATCH("/:id", h.UpdateHotel)
	hotels.DELETE("/:id", h.ArchiveHotel)
	hotels.POST("/:id/restore", h.RestoreHotel)

	guides := rg.Group("/guides")
	guides.GET("", h.ListGuides)
	guides.POST("", h.CreateGuide)
	guides.GET("/:id", h.GetGuide)
	guides.PATCH("/:id", h.UpdateGuide)
	guides.DELETE("/:id", h.ArchiveGuide)
	guides.POST("/:id/restore", h.RestoreGuide)

	vehicles := rg.Group("/vehicles")
	vehicles.GET("", h.ListVehicles)
	vehicles.POST("", h.CreateVehicle)
	vehicles.GET("/:id", h.GetVehicle)
	vehicles.PATCH("/:id", h.UpdateVehicle)
	vehicles.DELETE("/:id", h.ArchiveVehicle)
	vehicles.POST("/:id/restore", h.RestoreVehicle)

	restaurants := rg.Group("/restaurants")
	restaurants.GET("", h.ListRestaurants)
	restaurants.POST("", h.CreateRestaurant)
	restaurants.GET("/:id", h.GetRestaurant)
	restaurants.PATCH("/:id", h.UpdateRestaurant)
	restaurants.DELETE("/:id", h.ArchiveRestaurant)
	restaurants.POST("/:id/restore", h.RestoreRestaurant)

	entrances := rg.Group("/entrance-fees")
	entrances.GET("", h.ListEntranceFees)
	entrances.POST("", h.CreateEntranceFee)
	entrances.GET("/:id", h.GetEntranceFee)
	entrances.PATCH("/:id", h.UpdateEntranceFee)
	entrances.DELETE("/:id", h.ArchiveEntranceFee)
	entrances.POST("/:id/restore", h.RestoreEntranceFee)

	tours := rg.Group("/daily-tours")
	tours.GET("", h.ListDailyTours)
	tours.POST("", h.CreateDailyTour)
	tours.GET("/:id", h.GetDailyTour)
	tours.PATCH("/:id", h.UpdateDailyTour)
	tours.DELETE("/:id", h.ArchiveDailyTour)
	tours.POST("/:id/restore", h.RestoreDailyTour)
}

func mustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, false
	}
	return *tenantID, true
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func listParamsFromQuery(c *gin.Context, tenantID uuid.UUID) repository.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return repository.ListParams{
		OrganizationID:  tenantID,
		Search:          c.Query("search"),
		City:            c.Query("city"),
		IncludeArchived: c.Query("include_archived") == "true",
		Page:            page,
		PageSize:        pageSize,
	}
}

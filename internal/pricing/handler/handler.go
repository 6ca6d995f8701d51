// Package handler exposes the five rate tables over HTTP, one sub-resource
// per category.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"tourdesk_backend/internal/pricing/service"
	"tourdesk_backend/internal/pricing/transport"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hotelRates := rg.Group("/hotel-rates")
	hotelRates.GET("", h.ListHotelRates)
	hotelRates.POST("", h.CreateHotelRate)
	hotelRates.GET("/:id", h.GetHotelRate)
	hotelRates.PATCH("/:id", h.UpdateHotelRate)
	hotelRates.DELETE("/:id", h.DeleteHotelRate)

	guideRates := rg.Group("/guide-rates")
	guideRates.GET("", h.ListGuideRates)
	guideRates.POST("", h.CreateGuideRate)
	guideRates.GET("/:id", h.GetGuideRate)
	guideRates.PATCH("/:id", h.UpdateGuideRate)
	guideRates.DELETE("/:id", h.DeleteGuideRate)

	vehicleRates := rg.Group("/vehicle-rates")
	vehicleRates.GET("", h.ListVehicleRates)
	vehicleRates.POST("", h.CreateVehicleRate)
	vehicleRates.GET("/:id", h.GetVehicleRate)
	vehicleRates.PATCH("/:id", h.UpdateVehicleRate)
	vehicleRates.DELETE("/:id", h.DeleteVehicleRate)

	entranceRates := rg.Group("/entrance-rates")
	entranceRates.GET("", h.ListEntranceRates)
	entranceRates.POST("", h.CreateEntranceRate)
	entranceRates.GET("/:id", h.GetEntranceRate)
	entranceRates.PATCH("/:id", h.UpdateEntranceRate)
	entranceRates.DELETE("/:id", h.DeleteEntranceRate)

	tourRates := rg.Group("/tour-rates")
	tourRates.GET("", h.ListTourRates)
	tourRates.POST("", h.CreateTourRate)
	tourRates.GET("/:id", h.GetTourRate)
	tourRates.PATCH("/:id", h.UpdateTourRate)
	tourRates.DELETE("/:id", h.DeleteTourRate)
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

// optionalUUIDQuery reads an optional uuid filter; a malformed value is a
// client error, not an ignored filter.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return nil, false
	}
	return &id, true
}

func pageFromQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// mustParseDate trusts the datetime tag: validation runs before parsing, so
// a failure here is a programming error.
func mustParseDate(value string) time.Time {
	t, err := time.Parse(transport.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func parseDatePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	t := mustParseDate(*value)
	return &t
}

func formatDate(t time.Time) string {
	return t.Format(transport.DateLayout)
}

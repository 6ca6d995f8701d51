// Package handler exposes quotations, their itineraries and the pricing
// operations over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"tourdesk_backend/internal/quotations/service"
	"tourdesk_backend/internal/quotations/transport"
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
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Archive)
	rg.POST("/:id/restore", h.Restore)
	rg.POST("/:id/duplicate", h.Duplicate)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.POST("/:id/accept", h.Accept)

	rg.POST("/:id/reprice", h.Reprice)
	rg.POST("/:id/generate-itinerary", h.GenerateItinerary)

	rg.POST("/:id/days", h.CreateDay)
	rg.PATCH("/:id/days/:dayID", h.UpdateDay)
	rg.DELETE("/:id/days/:dayID", h.DeleteDay)

	rg.POST("/:id/days/:dayID/expenses", h.CreateExpense)
	rg.PATCH("/:id/expenses/:expenseID", h.UpdateExpense)
	rg.DELETE("/:id/expenses/:expenseID", h.DeleteExpense)
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

func mustGetActor(c *gin.Context) (tenantID, actorID uuid.UUID, ok bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	tenant := identity.TenantID()
	if tenant == nil {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return *tenant, identity.UserID(), true
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	return parseUUIDParam(c, "id")
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
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

func boolQuery(c *gin.Context, name string) bool {
	return c.Query(name) == "true"
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

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// Package handler exposes bookings, receivable and payable invoices, the
// payment ledger and refunds over HTTP. The payment and refund mutations sit
// behind the idempotent-replay guard.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"tourdesk_backend/internal/invoices/service"
	"tourdesk_backend/internal/invoices/transport"
	"tourdesk_backend/internal/shared/idempotency"
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
	svc  *service.Service
	val  *validator.Validator
	idem *idempotency.Guard
}

func New(svc *service.Service, val *validator.Validator, idem *idempotency.Guard) *Handler {
	return &Handler{svc: svc, val: val, idem: idem}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rec := rg.Group("/receivable")
	rec.GET("", h.ListInvoices)
	rec.GET("/:id", h.GetInvoice)
	rec.GET("/:id/payment-qr", h.PaymentQR)

	rec.POST("/:id/payment", h.idem.Middleware("invoices.receivable.payment"), h.ApplyPayment)
	rec.GET("/:id/payments", h.ListPayments)

	rec.POST("/:id/refund", h.idem.Middleware("invoices.receivable.refund"), h.InitiateRefund)
	rec.PATCH("/:id/refund", h.idem.Middleware("invoices.receivable.refund.complete"), h.CompleteRefund)
	rec.GET("/:id/refunds", h.ListRefunds)

	rec.POST("/:id/attachments", h.CreateAttachment)
	rec.GET("/:id/attachments", h.ListAttachments)
	rec.GET("/:id/attachments/:attachmentID/download", h.DownloadAttachment)
	rec.DELETE("/:id/attachments/:attachmentID", h.DeleteAttachment)

	pay := rg.Group("/payable")
	pay.GET("", h.ListPayables)
	pay.POST("", h.CreatePayable)
	pay.GET("/:id", h.GetPayable)
	pay.PATCH("/:id", h.UpdatePayable)
	pay.DELETE("/:id", h.DeletePayable)
	pay.PATCH("/:id/status", h.UpdatePayableStatus)
}

func (h *Handler) RegisterBookingRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListBookings)
	rg.GET("/:id", h.GetBooking)
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

// Package quotations provides quotation management: the header and
// itinerary CRUD, deterministic itinerary generation, repricing against the
// season-rate tables, and acceptance into a booking.
package quotations

import (
	"tourdesk_backend/internal/events"
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/identity"
	"tourdesk_backend/internal/quotations/handler"
	"tourdesk_backend/internal/quotations/repository"
	"tourdesk_backend/internal/quotations/service"
	"tourdesk_backend/internal/shared/pricing"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, resolver pricing.Resolver, directory service.SupplierDirectory, settings identity.SettingsProvider) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, resolver, directory, settings)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "quotations"
}

// Service exposes the quotations service so the composition root can wire
// the booking port after the billing module exists.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetBookingCreator wires the port that turns accepted quotations into
// bookings with receivable invoices.
func (m *Module) SetBookingCreator(bookings service.BookingCreator) {
	m.service.SetBookingCreator(bookings)
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotations := ctx.Protected.Group("/quotations")
	m.handler.RegisterRoutes(quotations)
}

var _ apphttp.Module = (*Module)(nil)

// Package invoices provides the billing side of the back office: bookings
// opened from accepted quotations, receivable invoices with their payment
// ledger and two-phase refunds, payable supplier bills, invoice attachments
// and the EPC payment QR.
package invoices

import (
	"context"
	"time"

	"tourdesk_backend/internal/adapters/storage"
	"tourdesk_backend/internal/events"
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/identity"
	"tourdesk_backend/internal/invoices/handler"
	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/internal/invoices/service"
	"tourdesk_backend/internal/shared/idempotency"
	"tourdesk_backend/platform/logger"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, settings identity.SettingsProvider, agents service.AgentDirectory, store storage.StorageService, bucket string, idem *idempotency.Guard, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, settings, agents, store, bucket, log)
	h := handler.New(svc, val, idem)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "invoices"
}

// Service exposes the billing service for the composition root: the
// quotations module books through it and the worker runs the overdue sweep
// against it.
func (m *Module) Service() *service.Service {
	return m.service
}

// MarkOverdue flips receivable invoices past their due date to overdue.
// Called from the worker on a timer.
func (m *Module) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	return m.service.MarkOverdueAsOf(ctx, today)
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	invoices := ctx.Protected.Group("/invoices")
	m.handler.RegisterRoutes(invoices)

	bookings := ctx.Protected.Group("/bookings")
	m.handler.RegisterBookingRoutes(bookings)
}

var _ apphttp.Module = (*Module)(nil)

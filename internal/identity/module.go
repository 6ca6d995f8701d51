// Package identity provides the identity bounded context module.
package identity

import (
	"tourdesk_backend/internal/events"
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/identity/handler"
	"tourdesk_backend/internal/identity/repository"
	"tourdesk_backend/internal/identity/service"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "identity"
}

// Service returns the identity service, which implements SettingsProvider
// for the pricing and invoicing domains.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)

// Package suppliers provides the registries for everything the operator
// buys in: hotels, guides, vehicles, restaurants, entrance fees and
// daily tours. The itinerary planner reads its candidates from here.
package suppliers

import (
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/suppliers/handler"
	"tourdesk_backend/internal/suppliers/repository"
	"tourdesk_backend/internal/suppliers/service"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "suppliers"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	suppliers := ctx.Protected.Group("/suppliers")
	m.handler.RegisterRoutes(suppliers)
}

var _ apphttp.Module = (*Module)(nil)

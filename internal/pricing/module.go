// Package pricing provides the season-rate tables and the rate resolver
// backing the quotation engine.
package pricing

import (
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/pricing/handler"
	"tourdesk_backend/internal/pricing/repository"
	"tourdesk_backend/internal/pricing/service"
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
	return "pricing"
}

// Service exposes the rate resolver for the quotation engine.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rates := ctx.Protected.Group("/pricing")
	m.handler.RegisterRoutes(rates)
}

var _ apphttp.Module = (*Module)(nil)

// Package agents provides the travel agency registry module.
package agents

import (
	"tourdesk_backend/internal/agents/handler"
	"tourdesk_backend/internal/agents/repository"
	"tourdesk_backend/internal/agents/service"
	apphttp "tourdesk_backend/internal/http"
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
	return "agents"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	agents := ctx.Protected.Group("/agents")
	m.handler.RegisterRoutes(agents)
}

var _ apphttp.Module = (*Module)(nil)

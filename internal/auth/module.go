// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"tourdesk_backend/internal/auth/handler"
	"tourdesk_backend/internal/auth/repository"
	"tourdesk_backend/internal/auth/service"
	authvalidator "tourdesk_backend/internal/auth/validator"
	"tourdesk_backend/internal/events"
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/logger"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	_ = val.RegisterValidation("strongpassword", authvalidator.StrongPassword)

	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for use by adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the user store for the cross-domain UserProvider adapter.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	// Protected routes for the signed-in user
	ctx.Protected.GET("/auth/me", m.handler.GetMe)
	ctx.Protected.POST("/auth/me/password", m.handler.ChangePassword)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

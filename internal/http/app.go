// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"tourdesk_backend/internal/events"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Audit, when set, records authenticated mutations. Applied to the
	// protected and admin groups before any module routes are mounted.
	Audit gin.HandlerFunc
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

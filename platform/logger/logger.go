// Package logger provides the structured logging facility for the application.
// Platform layer only; carries no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for values the logger can lift out of a context.
type contextKey string

const (
	// RequestIDKey is the context key for the request id.
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for the acting user id.
	UserIDKey contextKey = "user_id"
	// OrganizationIDKey is the context key for the tenant id.
	OrganizationIDKey contextKey = "organization_id"
)

// Logger wraps slog.Logger so platform helpers hang off one type.
type Logger struct {
	*slog.Logger
}

// New builds a logger for the given environment: human-readable text at
// debug level in development, JSON at info level everywhere else.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithContext returns a logger enriched with request_id, user_id and
// organization_id when present on the context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		out = out.WithRequestID(requestID)
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		out = out.WithUserID(userID)
	}
	if orgID, ok := ctx.Value(OrganizationIDKey).(string); ok && orgID != "" {
		out = out.WithOrganizationID(orgID)
	}

	return out
}

// WithRequestID returns a logger bound to a request id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.With(slog.String("request_id", requestID))}
}

// WithUserID returns a logger bound to the acting user.
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.With(slog.String("user_id", userID))}
}

// WithOrganizationID returns a logger bound to the tenant.
func (l *Logger) WithOrganizationID(orgID string) *Logger {
	return &Logger{Logger: l.With(slog.String("organization_id", orgID))}
}

// HTTPRequest logs a completed HTTP request.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// AuthEvent logs an authentication attempt.
func (l *Logger) AuthEvent(event, email string, success bool, reason string) {
	if success {
		l.Info("auth_event",
			slog.String("event", event),
			slog.String("email", email),
			slog.Bool("success", success),
		)
		return
	}
	l.Warn("auth_event",
		slog.String("event", event),
		slog.String("email", email),
		slog.Bool("success", success),
		slog.String("reason", reason),
	)
}

// DatabaseError logs a failed database operation.
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// EmailError logs a failed outbound email so notification failures stay visible
// without ever failing the business operation that triggered them.
func (l *Logger) EmailError(template, recipient string, err error) {
	l.Error("email_error",
		slog.String("template", template),
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs a rate-limited request.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

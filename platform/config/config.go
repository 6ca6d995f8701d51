// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service. Refresh
// tokens are opaque random values, so only the access token is signed.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides SMTP settings for the transactional mail sender.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
}

// RedisConfig provides the Redis connection for task queueing and caching.
type RedisConfig interface {
	GetRedisURL() string
}

// IdempotencyConfig provides settings for the idempotent-replay cache.
type IdempotencyConfig interface {
	RedisConfig
	GetIdempotencyTTL() time.Duration
}

// SchedulerConfig provides settings for the background worker.
type SchedulerConfig interface {
	RedisConfig
	GetOutboxDispatchInterval() time.Duration
	GetOutboxBatchSize() int
	GetOverdueSweepInterval() time.Duration
	GetAsynqConcurrency() int
}

// ExportConfig provides the key that encrypts export credentials at rest.
type ExportConfig interface {
	GetExportEncryptionKey() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketInvoiceAttachments() string
	IsMinIOEnabled() bool
}

// PhoneConfig provides the default region for phone normalization.
type PhoneConfig interface {
	GetDefaultPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                           string
	HTTPAddr                      string
	DatabaseURL                   string
	JWTAccessSecret               string
	AccessTokenTTL                time.Duration
	RefreshTokenTTL               time.Duration
	CORSAllowAll                  bool
	CORSOrigins                   []string
	CORSAllowCreds                bool
	AppBaseURL                    string
	EmailEnabled                  bool
	SMTPHost                      string
	SMTPPort                      int
	SMTPUsername                  string
	SMTPPassword                  string
	EmailFromName                 string
	EmailFromAddress              string
	RedisURL                      string
	IdempotencyTTL                time.Duration
	OutboxDispatchInterval        time.Duration
	OutboxBatchSize               int
	OverdueSweepInterval          time.Duration
	AsynqConcurrency              int
	ExportEncryptionKey           string
	MinIOEndpoint                 string
	MinIOAccessKey                string
	MinIOSecretKey                string
	MinIOUseSSL                   bool
	MinIOMaxFileSize              int64
	MinioBucketInvoiceAttachments string
	DefaultPhoneRegion            string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// IdempotencyConfig implementation
func (c *Config) GetIdempotencyTTL() time.Duration { return c.IdempotencyTTL }

// SchedulerConfig implementation
func (c *Config) GetOutboxDispatchInterval() time.Duration { return c.OutboxDispatchInterval }
func (c *Config) GetOutboxBatchSize() int                  { return c.OutboxBatchSize }
func (c *Config) GetOverdueSweepInterval() time.Duration   { return c.OverdueSweepInterval }
func (c *Config) GetAsynqConcurrency() int                 { return c.AsynqConcurrency }

// ExportConfig implementation
func (c *Config) GetExportEncryptionKey() string { return c.ExportEncryptionKey }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketInvoiceAttachments() string {
	return c.MinioBucketInvoiceAttachments
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// PhoneConfig implementation
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                           getEnv("APP_ENV", "development"),
		HTTPAddr:                      getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                   getEnv("DATABASE_URL", ""),
		JWTAccessSecret:               getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:                mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		RefreshTokenTTL:               mustDuration(getEnv("JWT_REFRESH_TTL", "720h")),
		CORSAllowAll:                  corsAllowAll,
		CORSOrigins:                   corsOrigins,
		CORSAllowCreds:                strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:                    getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailEnabled:                  emailEnabled && smtpHost != "",
		SMTPHost:                      smtpHost,
		SMTPPort:                      int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:                  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                  getEnv("SMTP_PASSWORD", ""),
		EmailFromName:                 getEnv("EMAIL_FROM_NAME", "TourDesk"),
		EmailFromAddress:              getEnv("EMAIL_FROM_ADDRESS", ""),
		RedisURL:                      getEnv("REDIS_URL", ""),
		IdempotencyTTL:                mustDuration(getEnv("IDEMPOTENCY_TTL", "24h")),
		OutboxDispatchInterval:        mustDuration(getEnv("OUTBOX_DISPATCH_INTERVAL", "2s")),
		OutboxBatchSize:               int(mustInt64(getEnv("OUTBOX_BATCH_SIZE", "25"))),
		OverdueSweepInterval:          mustDuration(getEnv("OVERDUE_SWEEP_INTERVAL", "1h")),
		AsynqConcurrency:              int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "10"))),
		ExportEncryptionKey:           getEnv("EXPORT_ENCRYPTION_KEY", ""),
		MinIOEndpoint:                 getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:                getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:                getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                   strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:              mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "52428800")),
		MinioBucketInvoiceAttachments: getEnv("MINIO_BUCKET_INVOICE_ATTACHMENTS", "invoice-attachments"),
		DefaultPhoneRegion:            getEnv("DEFAULT_PHONE_REGION", "TR"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

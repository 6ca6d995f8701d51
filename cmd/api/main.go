package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourdesk_backend/internal/adapters"
	"tourdesk_backend/internal/adapters/storage"
	"tourdesk_backend/internal/agents"
	"tourdesk_backend/internal/audit"
	"tourdesk_backend/internal/auth"
	"tourdesk_backend/internal/email"
	"tourdesk_backend/internal/events"
	apphttp "tourdesk_backend/internal/http"
	"tourdesk_backend/internal/http/router"
	"tourdesk_backend/internal/identity"
	identityadapter "tourdesk_backend/internal/identity/adapter"
	"tourdesk_backend/internal/invoices"
	"tourdesk_backend/internal/notification"
	"tourdesk_backend/internal/pricing"
	"tourdesk_backend/internal/quotations"
	"tourdesk_backend/internal/reports"
	"tourdesk_backend/internal/shared/idempotency"
	"tourdesk_backend/internal/suppliers"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/db"
	"tourdesk_backend/platform/logger"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for invoice attachments (MinIO)
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, storageSvc, "invoice-attachments", cfg.GetMinioBucketInvoiceAttachments())
	log.Info("storage service initialized", "invoiceAttachmentsBucket", cfg.GetMinioBucketInvoiceAttachments())

	// Replay cache for idempotent money mutations
	idemGuard, closeIdem := initIdempotencyGuard(cfg, log)
	if closeIdem != nil {
		defer closeIdem()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events and queues outbox
	// rows; the worker process delivers them.
	notificationModule := notification.New(pool, log)
	notificationModule.RegisterHandlers(eventBus)

	// Audit trail for authenticated mutations
	auditModule := audit.NewModule(pool, log)

	// Initialize domain modules
	identityModule := identity.NewModule(pool, eventBus, val)
	authModule := auth.NewModule(pool, cfg, eventBus, log, val)
	agentsModule := agents.NewModule(pool, val)
	suppliersModule := suppliers.NewModule(pool, val)
	pricingModule := pricing.NewModule(pool, val)

	// Organization settings feed pricing defaults and invoice terms
	settings := identityadapter.NewSettingsProviderAdapter(identityModule.Service())

	// Wire supplier catalog into itinerary generation
	supplierDirectory := adapters.NewSupplierDirectoryAdapter(suppliersModule.Service())
	quotationsModule := quotations.NewModule(pool, eventBus, val, pricingModule.Service(), supplierDirectory, settings)

	// Wire agent contacts into billing so events carry recipient addresses
	agentContacts := adapters.NewAgentContactsAdapter(agentsModule.Service())
	invoicesModule := invoices.NewModule(pool, eventBus, val, settings, agentContacts,
		storageSvc, cfg.GetMinioBucketInvoiceAttachments(), idemGuard, log)

	// Set booking creator on quotations module (breaks circular dependency)
	bookingCreator := adapters.NewBookingCreatorAdapter(invoicesModule.Service())
	quotationsModule.SetBookingCreator(bookingCreator)

	reportsModule := reports.NewModule(pool, val, settings)
	if key := exportEncryptionKey(cfg, log); key != nil {
		reportsModule.SetEncryptionKey(key)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Audit:    auditModule.Middleware(),
		Modules: []apphttp.Module{
			authModule,
			identityModule,
			agentsModule,
			suppliersModule,
			pricingModule,
			quotationsModule,
			invoicesModule,
			reportsModule,
			auditModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// Drain in-flight event handlers and audit writes before the
		// deferred pool.Close releases their connections.
		eventBus.Wait()
		auditModule.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initIdempotencyGuard connects the replay cache. Without Redis the guard is
// nil and the payment and refund endpoints run unguarded.
func initIdempotencyGuard(cfg config.IdempotencyConfig, log *logger.Logger) (*idempotency.Guard, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; idempotent replay disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse redis URL", "error", err)
		return nil, nil
	}

	rdb := redis.NewClient(opt)
	return idempotency.New(rdb, cfg.GetIdempotencyTTL(), log), func() {
		_ = rdb.Close()
	}
}

// exportEncryptionKey decodes the hex-encoded AES-256 key for export
// credentials. Returns nil when unset, which leaves export sharing disabled.
func exportEncryptionKey(cfg config.ExportConfig, log *logger.Logger) []byte {
	raw := cfg.GetExportEncryptionKey()
	if raw == "" {
		log.Warn("EXPORT_ENCRYPTION_KEY not configured; export credentials disabled")
		return nil
	}

	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		log.Error("EXPORT_ENCRYPTION_KEY must be 64 hex characters")
		return nil
	}
	return key
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

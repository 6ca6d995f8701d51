// The worker process runs everything that happens off the request path: it
// dispatches queued notification outbox rows to asynq, delivers them over
// SMTP, and sweeps receivable invoices past their due date to overdue.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourdesk_backend/internal/adapters"
	"tourdesk_backend/internal/agents"
	"tourdesk_backend/internal/email"
	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/identity"
	identityadapter "tourdesk_backend/internal/identity/adapter"
	"tourdesk_backend/internal/invoices"
	"tourdesk_backend/internal/notification"
	"tourdesk_backend/internal/notification/outbox"
	"tourdesk_backend/internal/scheduler"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/db"
	"tourdesk_backend/platform/logger"
	"tourdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	// The sweep publishes overdue events, so the worker carries its own bus
	// with the notification handlers attached; queued rows land in the same
	// outbox this process drains.
	eventBus := events.NewInMemoryBus(log)
	notificationModule := notification.New(pool, log)
	notificationModule.RegisterHandlers(eventBus)

	sender := email.NewSender(cfg)
	deliverer := notification.NewDeliverer(outbox.New(pool), sender, log)

	worker, err := scheduler.NewWorker(cfg, deliverer, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	dispatcher, err := scheduler.NewOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer dispatcher.Close()

	// Billing module without its HTTP surface; only the overdue sweep runs
	// here, so storage and the replay guard stay unset.
	val := validator.New()
	identityModule := identity.NewModule(pool, eventBus, val)
	agentsModule := agents.NewModule(pool, val)
	settings := identityadapter.NewSettingsProviderAdapter(identityModule.Service())
	agentContacts := adapters.NewAgentContactsAdapter(agentsModule.Service())
	invoicesModule := invoices.NewModule(pool, eventBus, val, settings, agentContacts, nil, "", nil, log)

	sweeper := scheduler.NewOverdueSweeper(cfg, invoicesModule, log)

	go dispatcher.Run(ctx)
	go sweeper.Run(ctx)

	// Blocks until the shutdown signal lands and asynq drains in-flight tasks.
	worker.Run(ctx)

	eventBus.Wait()
	log.Info("worker stopped")
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

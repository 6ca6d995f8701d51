package scheduler

import (
	"context"
	"fmt"
	"time"

	"tourdesk_backend/internal/notification/outbox"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxDispatcher claims pending outbox rows and turns each into an
// asynq delivery task. Claiming flips the row to enqueued, so a row that
// fails to enqueue is put back to pending with the error recorded.
type OutboxDispatcher struct {
	client    *asynq.Client
	repo      *outbox.Repository
	interval  time.Duration
	batchSize int
	log       *logger.Logger
}

func NewOutboxDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*OutboxDispatcher, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	interval := cfg.GetOutboxDispatchInterval()
	if interval <= 0 {
		interval = 2 * time.Second
	}
	batchSize := cfg.GetOutboxBatchSize()
	if batchSize < 1 {
		batchSize = 25
	}

	return &OutboxDispatcher{
		client:    asynq.NewClient(opt),
		repo:      outbox.New(pool),
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}, nil
}

func (d *OutboxDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		records, err := d.repo.ClaimPending(ctx, d.batchSize)
		if err != nil {
			d.log.Warn("outbox claim failed", "error", err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		for _, rec := range records {
			task, err := NewNotificationDeliverTask(NotificationDeliverPayload{
				OutboxID:       rec.ID.String(),
				OrganizationID: rec.OrganizationID.String(),
			})
			if err != nil {
				msg := err.Error()
				_ = d.repo.MarkPending(ctx, rec.ID, &msg)
				continue
			}

			_, err = d.client.EnqueueContext(ctx, task, asynq.ProcessAt(rec.RunAt), asynq.Queue(defaultQueue))
			if err != nil {
				msg := err.Error()
				_ = d.repo.MarkPending(ctx, rec.ID, &msg)
				continue
			}
		}

		d.log.Debug("outbox batch dispatched", "count", len(records))
	}
}

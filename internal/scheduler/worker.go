package scheduler

import (
	"context"
	"fmt"

	"tourdesk_backend/internal/notification"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	deliverer *notification.Deliverer
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, deliverer *notification.Deliverer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			defaultQueue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		deliverer: deliverer,
		log:       log,
	}

	mux.HandleFunc(TaskNotificationDeliver, w.handleNotificationDeliver)

	return w, nil
}

func (w *Worker) handleNotificationDeliver(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationDeliverPayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	return w.deliverer.Deliver(ctx, outboxID)
}

func (w *Worker) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

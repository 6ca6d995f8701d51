package scheduler

import (
	"context"
	"time"

	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/logger"
)

// OverdueMarker flips past-due open invoices to overdue and reports how
// many rows changed.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
}

// OverdueSweeper periodically marks past-due invoices. One sweep runs
// immediately on start so a restarted worker does not wait a full
// interval to catch up.
type OverdueSweeper struct {
	invoices OverdueMarker
	interval time.Duration
	log      *logger.Logger
}

func NewOverdueSweeper(cfg config.SchedulerConfig, invoices OverdueMarker, log *logger.Logger) *OverdueSweeper {
	interval := cfg.GetOverdueSweepInterval()
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueSweeper{
		invoices: invoices,
		interval: interval,
		log:      log,
	}
}

func (s *OverdueSweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OverdueSweeper) sweep(ctx context.Context) {
	flipped, err := s.invoices.MarkOverdue(ctx, time.Now().UTC())
	if err != nil {
		s.log.Warn("overdue sweep failed", "error", err)
		return
	}
	if flipped > 0 {
		s.log.Info("overdue sweep completed", "invoices", flipped)
	}
}

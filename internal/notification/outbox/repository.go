// Package outbox persists queued notifications so that sending can never
// fail the mutation that triggered them. Rows move through
// pending -> enqueued -> processing -> succeeded or failed.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusEnqueued   Status = "enqueued"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

type Record struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Recipient      string
	Template       string
	Payload        json.RawMessage
	RunAt          time.Time
	Status         Status
	Attempts       int
}

type InsertParams struct {
	OrganizationID uuid.UUID
	Recipient      string
	Template       string
	Payload        any
	RunAt          time.Time // zero means now
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, p InsertParams) (uuid.UUID, error) {
	if p.OrganizationID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("organizationId is required")
	}
	if p.Recipient == "" {
		return uuid.Nil, fmt.Errorf("recipient is required")
	}
	if p.Template == "" {
		return uuid.Nil, fmt.Errorf("template is required")
	}
	if p.RunAt.IsZero() {
		p.RunAt = time.Now().UTC()
	}

	payloadBytes, err := json.Marshal(p.Payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal payload: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx,
		`INSERT INTO td_notification_outbox (organization_id, recipient, template, payload, run_at, status)
		 VALUES ($1, $2, $3, $4, $5, 'pending')
		 RETURNING id`,
		p.OrganizationID, p.Recipient, p.Template, payloadBytes, p.RunAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	var rec Record
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, recipient, template, payload, run_at, status, attempts
		 FROM td_notification_outbox
		 WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.OrganizationID, &rec.Recipient, &rec.Template, &rec.Payload, &rec.RunAt, &status, &rec.Attempts)
	if err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	return rec, nil
}

// ClaimPending flips up to limit due pending rows to enqueued and returns
// them. SKIP LOCKED lets multiple dispatchers run without contention.
func (r *Repository) ClaimPending(ctx context.Context, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 25
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `WITH cte AS (
		SELECT id
		FROM td_notification_outbox
		WHERE status = 'pending' AND run_at <= now()
		ORDER BY run_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	)
	UPDATE td_notification_outbox o
	SET status = 'enqueued', updated_at = now()
	FROM cte
	WHERE o.id = cte.id
	RETURNING o.id, o.organization_id, o.recipient, o.template, o.payload, o.run_at, o.status, o.attempts`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var rec Record
		var status string
		if err := rows.Scan(&rec.ID, &rec.OrganizationID, &rec.Recipient, &rec.Template, &rec.Payload, &rec.RunAt, &status, &rec.Attempts); err != nil {
			return nil, err
		}
		rec.Status = Status(status)
		results = append(results, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// MarkPending returns a claimed row to the pending pool, typically after
// the enqueue itself failed.
func (r *Repository) MarkPending(ctx context.Context, id uuid.UUID, lastError *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE td_notification_outbox
		 SET status = 'pending', last_error = $2, updated_at = now()
		 WHERE id = $1`,
		id, lastError,
	)
	return err
}

func (r *Repository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE td_notification_outbox
		 SET status = 'processing', attempts = attempts + 1, updated_at = now()
		 WHERE id = $1`,
		id,
	)
	return err
}

func (r *Repository) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE td_notification_outbox
		 SET status = 'succeeded', last_error = NULL, updated_at = now()
		 WHERE id = $1`,
		id,
	)
	return err
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE td_notification_outbox
		 SET status = 'failed', last_error = $2, updated_at = now()
		 WHERE id = $1`,
		id, lastError,
	)
	return err
}

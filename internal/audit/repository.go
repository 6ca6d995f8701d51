// Package audit records authenticated mutations into an append-only log
// and serves it to administrators.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one recorded mutation.
type Entry struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	Action         string
	Method         string
	Path           string
	EntityType     *string
	EntityID       *uuid.UUID
	Status         int
	LatencyMs      int64
	RequestID      string
	CreatedAt      time.Time
}

// Repository provides data access for the audit log.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO td_audit_log (
			id, organization_id, actor_id, action, method, path,
			entity_type, entity_id, status, latency_ms, request_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.OrganizationID, e.ActorID, e.Action, e.Method, e.Path,
		e.EntityType, e.EntityID, e.Status, e.LatencyMs, e.RequestID)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListParams filters the audit log. Action matches as a substring.
type ListParams struct {
	OrganizationID uuid.UUID
	Action         string
	Page           int
	PageSize       int
}

// ListResult is one page of audit entries, newest first.
type ListResult struct {
	Items      []Entry
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)
	action := optionalSearch(params.Action)

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM td_audit_log
		WHERE organization_id = $1
			AND ($2::text IS NULL OR action ILIKE $2)
	`, params.OrganizationID, action).Scan(&total)
	if err != nil {
		return ListResult{}, fmt.Errorf("count audit entries: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, organization_id, actor_id, action, method, path,
			entity_type, entity_id, status, latency_ms, request_id, created_at
		FROM td_audit_log
		WHERE organization_id = $1
			AND ($2::text IS NULL OR action ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, params.OrganizationID, action, pageSize, (page-1)*pageSize)
	if err != nil {
		return ListResult{}, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	items := make([]Entry, 0, pageSize)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.ActorID, &e.Action, &e.Method, &e.Path,
			&e.EntityType, &e.EntityID, &e.Status, &e.LatencyMs, &e.RequestID, &e.CreatedAt,
		); err != nil {
			return ListResult{}, fmt.Errorf("scan audit entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func optionalSearch(value string) *string {
	if value == "" {
		return nil
	}
	pattern := "%" + value + "%"
	return &pattern
}

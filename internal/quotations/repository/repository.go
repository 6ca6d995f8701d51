package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quotationNotFoundMsg = "quotation not found"

// Quotation is the header row. Destination and the travel window are
// optional until the itinerary is planned; totals are integer minor units.
type Quotation struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	AgentID         *uuid.UUID
	QuotationNumber string
	Status          string
	Destination     string
	StartDate       *time.Time
	EndDate         *time.Time
	Adults          int16
	Children        int16
	MarkupBps       int32
	TaxBps          int32
	Currency        string
	TotalMinor      int64
	Notes           *string
	ArchivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItineraryDay orders the trip; expenses hang off it and inherit its date as
// their service date.
type ItineraryDay struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	DayNumber      int32
	Date           time.Time
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Expense is one priced line. Category is one of the closed tags for rows
// created here; legacy imports may carry free text. A locked expense keeps
// the base cost and rate id captured at creation so repricing can reproduce
// it after the rate table changes.
type Expense struct {
	ID              uuid.UUID
	DayID           uuid.UUID
	QuotationID     uuid.UUID
	OrganizationID  uuid.UUID
	Category        string
	SupplierID      *uuid.UUID
	Description     string
	Quantity        int32
	UnitMinor       int64
	TotalMinor      int64
	Currency        string
	RateLocked      bool
	LockedRateID    *uuid.UUID
	LockedUnitMinor *int64
	Notes           *string
	SortOrder       int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExpenseWithDate joins the owning day so repricing knows the service date.
type ExpenseWithDate struct {
	Expense
	ServiceDate time.Time
	DayNumber   int32
}

type UpdateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	AgentID        *uuid.UUID
	Destination    *string
	StartDate      *time.Time
	EndDate        *time.Time
	Adults         *int16
	Children       *int16
	MarkupBps      *int32
	TaxBps         *int32
	Currency       *string
	Notes          *string
}

type ListParams struct {
	OrganizationID  uuid.UUID
	AgentID         *uuid.UUID
	Status          *string
	Search          string
	IncludeArchived bool
	SortBy          string
	SortOrder       string
	Page            int
	PageSize        int
}

type ListResult struct {
	Items      []Quotation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextQuotationNumber atomically advances the per-organization counter.
func (r *Repository) NextQuotationNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	var nextNum int
	query := `
		INSERT INTO td_quotation_counters (organization_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET last_number = td_quotation_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, organizationID).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("next quotation number: %w", err)
	}

	return fmt.Sprintf("QT-%d-%04d", time.Now().Year(), nextNum), nil
}

const quotationColumns = `id, organization_id, agent_id, quotation_number, status, destination,
	start_date, end_date, adults, children, markup_bps, tax_bps, currency, total_minor,
	notes, archived_at, created_at, updated_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID,
		&q.OrganizationID,
		&q.AgentID,
		&q.QuotationNumber,
		&q.Status,
		&q.Destination,
		&q.StartDate,
		&q.EndDate,
		&q.Adults,
		&q.Children,
		&q.MarkupBps,
		&q.TaxBps,
		&q.Currency,
		&q.TotalMinor,
		&q.Notes,
		&q.ArchivedAt,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	return q, err
}

// CreateWithItinerary inserts the header plus any days and expenses in one
// transaction. Create passes an empty itinerary; duplicate passes the deep
// copy.
func (r *Repository) CreateWithItinerary(ctx context.Context, q Quotation, days []ItineraryDay, expenses []Expense) (Quotation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Quotation{}, fmt.Errorf("begin create quotation: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanQuotation(tx.QueryRow(ctx, `
		INSERT INTO td_quotations (
			id, organization_id, agent_id, quotation_number, status, destination,
			start_date, end_date, adults, children, markup_bps, tax_bps, currency,
			total_minor, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+quotationColumns+`
	`, q.ID, q.OrganizationID, q.AgentID, q.QuotationNumber, q.Status, q.Destination,
		q.StartDate, q.EndDate, q.Adults, q.Children, q.MarkupBps, q.TaxBps, q.Currency,
		q.TotalMinor, q.Notes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Quotation{}, apperr.BadRequest("unknown agent")
		}
		return Quotation{}, fmt.Errorf("insert quotation: %w", err)
	}

	if err := insertDays(ctx, tx, days); err != nil {
		return Quotation{}, err
	}
	if err := insertExpenses(ctx, tx, expenses); err != nil {
		return Quotation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Quotation{}, fmt.Errorf("commit create quotation: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id, organizationID uuid.UUID) (Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `
		SELECT `+quotationColumns+`
		FROM td_quotations
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quotation{}, apperr.NotFound(quotationNotFoundMsg)
		}
		return Quotation{}, fmt.Errorf("get quotation: %w", err)
	}
	return q, nil
}

func (r *Repository) Update(ctx context.Context, p UpdateParams) (Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `
		UPDATE td_quotations
		SET agent_id = COALESCE($3, agent_id),
			destination = COALESCE($4, destination),
			start_date = COALESCE($5, start_date),
			end_date = COALESCE($6, end_date),
			adults = COALESCE($7, adults),
			children = COALESCE($8, children),
			markup_bps = COALESCE($9, markup_bps),
			tax_bps = COALESCE($10, tax_bps),
			currency = COALESCE($11, currency),
			notes = COALESCE($12, notes),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+quotationColumns+`
	`, p.ID, p.OrganizationID, p.AgentID, p.Destination, p.StartDate, p.EndDate,
		p.Adults, p.Children, p.MarkupBps, p.TaxBps, p.Currency, p.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quotation{}, apperr.NotFound(quotationNotFoundMsg)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Quotation{}, apperr.BadRequest("unknown agent")
		}
		return Quotation{}, fmt.Errorf("update quotation: %w", err)
	}
	return q, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id, organizationID uuid.UUID, status string) (Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `
		UPDATE td_quotations SET status = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+quotationColumns+`
	`, id, organizationID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quotation{}, apperr.NotFound(quotationNotFoundMsg)
		}
		return Quotation{}, fmt.Errorf("update quotation status: %w", err)
	}
	return q, nil
}

func (r *Repository) Archive(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setArchived(ctx, id, organizationID, true)
}

func (r *Repository) Restore(ctx context.Context, id, organizationID uuid.UUID) error {
	return r.setArchived(ctx, id, organizationID, false)
}

func (r *Repository) setArchived(ctx context.Context, id, organizationID uuid.UUID, archived bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE td_quotations
		SET archived_at = CASE WHEN $3 THEN now() ELSE NULL END, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, archived)
	if err != nil {
		return fmt.Errorf("set quotation archived: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quotationNotFoundMsg)
	}
	return nil
}

const listQuotationsBaseQuery = `
	FROM td_quotations
	WHERE organization_id = $1
		AND ($2::uuid IS NULL OR agent_id = $2)
		AND ($3::text IS NULL OR status = $3)
		AND ($4::text IS NULL OR quotation_number ILIKE $4 OR destination ILIKE $4)
		AND ($5::boolean OR archived_at IS NULL)
`

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	sortBy, err := resolveSortBy(params.SortBy)
	if err != nil {
		return ListResult{}, err
	}
	sortOrder, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return ListResult{}, err
	}

	var agentParam interface{}
	if params.AgentID != nil {
		agentParam = *params.AgentID
	}
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	args := []interface{}{params.OrganizationID, agentParam, statusParam, searchParam, params.IncludeArchived}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listQuotationsBaseQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count quotations: %w", err)
	}

	pg := resolvePage(params.Page, params.PageSize)
	args = append(args, sortBy, sortOrder, pg.size, pg.offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+quotationColumns+listQuotationsBaseQuery+`
		ORDER BY
			CASE WHEN $6 = 'number' AND $7 = 'asc' THEN quotation_number END ASC,
			CASE WHEN $6 = 'number' AND $7 = 'desc' THEN quotation_number END DESC,
			CASE WHEN $6 = 'destination' AND $7 = 'asc' THEN destination END ASC,
			CASE WHEN $6 = 'destination' AND $7 = 'desc' THEN destination END DESC,
			CASE WHEN $6 = 'start_date' AND $7 = 'asc' THEN start_date END ASC,
			CASE WHEN $6 = 'start_date' AND $7 = 'desc' THEN start_date END DESC,
			CASE WHEN $6 = 'total' AND $7 = 'asc' THEN total_minor END ASC,
			CASE WHEN $6 = 'total' AND $7 = 'desc' THEN total_minor END DESC,
			CASE WHEN $6 = 'created_at' AND $7 = 'asc' THEN created_at END ASC,
			CASE WHEN $6 = 'created_at' AND $7 = 'desc' THEN created_at END DESC,
			CASE WHEN $6 = 'updated_at' AND $7 = 'asc' THEN updated_at END ASC,
			CASE WHEN $6 = 'updated_at' AND $7 = 'desc' THEN updated_at END DESC,
			created_at DESC
		LIMIT $8 OFFSET $9
	`, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	items := make([]Quotation, 0)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("scan quotation: %w", err)
		}
		items = append(items, q)
	}
	if rows.Err() != nil {
		return ListResult{}, rows.Err()
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       pg.number,
		PageSize:   pg.size,
		TotalPages: totalPages(total, pg.size),
	}, nil
}

func resolveSortBy(sortBy string) (string, error) {
	if sortBy == "" {
		return "created_at", nil
	}
	switch sortBy {
	case "number", "destination", "start_date", "total", "created_at", "updated_at":
		return sortBy, nil
	default:
		return "", apperr.BadRequest("invalid sort field")
	}
}

func resolveSortOrder(sortOrder string) (string, error) {
	if sortOrder == "" {
		return "desc", nil
	}
	switch sortOrder {
	case "asc", "desc":
		return sortOrder, nil
	default:
		return "", apperr.BadRequest("invalid sort order")
	}
}

type page struct {
	number int
	size   int
	offset int
}

func resolvePage(number, size int) page {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page{number: number, size: size, offset: (number - 1) * size}
}

func totalPages(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}

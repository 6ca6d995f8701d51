// Package repository provides database operations for bookings, receivable
// and payable invoices, the payment ledger and cancellation records.
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

const (
	invoiceNotFoundMsg      = "invoice not found"
	bookingNotFoundMsg      = "booking not found"
	cancellationNotFoundMsg = "cancellation not found"
)

// Repository provides database operations for the billing domain.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new invoices repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Booking is a confirmed trip opened from an accepted quotation. Exactly one
// booking exists per quotation.
type Booking struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	QuotationID    uuid.UUID
	BookingNumber  string
	Status         string
	Destination    string
	StartDate      *time.Time
	EndDate        *time.Time
	Adults         int16
	Children       int16
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Invoice is a receivable invoice. PaidMinor is the rolled-up ledger balance;
// Status is stored but always refreshed from the balance projection inside
// every mutation. RefundsPendingMinor sums processing cancellations and is
// derived on read, never stored.
type Invoice struct {
	ID                  uuid.UUID
	OrganizationID      uuid.UUID
	BookingID           uuid.UUID
	AgentID             *uuid.UUID
	InvoiceNumber       string
	Status              string
	Currency            string
	TotalMinor          int64
	PaidMinor           int64
	IssueDate           time.Time
	DueDate             time.Time
	LastPaymentOn       *time.Time
	Notes               *string
	RefundsPendingMinor int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Payment is one immutable row of the payment ledger.
type Payment struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	InvoiceID      uuid.UUID
	AmountMinor    int64
	Currency       string
	Method         string
	Reference      *string
	PaidOn         time.Time
	Notes          *string
	RecordedBy     uuid.UUID
	CreatedAt      time.Time
}

// Cancellation is a refund record against a booking. It moves processing to
// completed once the transfer is confirmed out-of-band; there is no failed
// terminal state.
type Cancellation struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	BookingID      uuid.UUID
	InvoiceID      uuid.UUID
	RefundMinor    int64
	Currency       string
	Method         string
	Reference      *string
	Reason         string
	Status         string
	ProcessedBy    uuid.UUID
	CompletedBy    *uuid.UUID
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const invoiceColumns = `id, organization_id, booking_id, agent_id, invoice_number, status, currency,
	total_minor, paid_minor, issue_date, due_date, last_payment_on, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID,
		&inv.OrganizationID,
		&inv.BookingID,
		&inv.AgentID,
		&inv.InvoiceNumber,
		&inv.Status,
		&inv.Currency,
		&inv.TotalMinor,
		&inv.PaidMinor,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.LastPaymentOn,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	return inv, err
}

const bookingColumns = `id, organization_id, quotation_id, booking_number, status, destination,
	start_date, end_date, adults, children, created_at, updated_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.OrganizationID,
		&b.QuotationID,
		&b.BookingNumber,
		&b.Status,
		&b.Destination,
		&b.StartDate,
		&b.EndDate,
		&b.Adults,
		&b.Children,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// NextInvoiceNumber atomically advances the per-organization invoice counter.
func (r *Repository) NextInvoiceNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	var nextNum int
	query := `
		INSERT INTO td_invoice_counters (organization_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET last_number = td_invoice_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, organizationID).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}

	return fmt.Sprintf("INV-%d-%04d", time.Now().Year(), nextNum), nil
}

// NextBookingNumber atomically advances the per-organization booking counter.
func (r *Repository) NextBookingNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	var nextNum int
	query := `
		INSERT INTO td_booking_counters (organization_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET last_number = td_booking_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, organizationID).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("next booking number: %w", err)
	}

	return fmt.Sprintf("BK-%d-%04d", time.Now().Year(), nextNum), nil
}

// CreateBookingParams carries a new booking with its receivable invoice.
type CreateBookingParams struct {
	Booking Booking
	Invoice Invoice
}

// CreateBookingWithInvoice inserts a booking and its receivable invoice in
// one transaction. The unique index on quotation_id makes acceptance
// idempotent: a second booking for the same quotation maps to a conflict.
func (r *Repository) CreateBookingWithInvoice(ctx context.Context, p CreateBookingParams) (Booking, Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, Invoice{}, fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback(ctx)

	b := p.Booking
	booking, err := scanBooking(tx.QueryRow(ctx, `
		INSERT INTO td_bookings (
			id, organization_id, quotation_id, booking_number, status, destination,
			start_date, end_date, adults, children
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+bookingColumns+`
	`, b.ID, b.OrganizationID, b.QuotationID, b.BookingNumber, b.Status, b.Destination,
		b.StartDate, b.EndDate, b.Adults, b.Children))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Booking{}, Invoice{}, apperr.Conflict("quotation already has a booking")
			case "23503":
				return Booking{}, Invoice{}, apperr.BadRequest("unknown quotation")
			}
		}
		return Booking{}, Invoice{}, fmt.Errorf("insert booking: %w", err)
	}

	i := p.Invoice
	invoice, err := scanInvoice(tx.QueryRow(ctx, `
		INSERT INTO td_receivable_invoices (
			id, organization_id, booking_id, agent_id, invoice_number, status, currency,
			total_minor, paid_minor, issue_date, due_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+invoiceColumns+`
	`, i.ID, i.OrganizationID, booking.ID, i.AgentID, i.InvoiceNumber, i.Status, i.Currency,
		i.TotalMinor, i.PaidMinor, i.IssueDate, i.DueDate, i.Notes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Booking{}, Invoice{}, apperr.BadRequest("unknown agent")
		}
		return Booking{}, Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, Invoice{}, fmt.Errorf("commit create booking: %w", err)
	}
	return booking, invoice, nil
}

const refundsPendingQuery = `
	SELECT COALESCE(SUM(refund_minor), 0)
	FROM td_cancellations
	WHERE invoice_id = $1 AND status = 'processing'`

// GetInvoice returns one receivable invoice with its pending-refund sum.
func (r *Repository) GetInvoice(ctx context.Context, id, organizationID uuid.UUID) (Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM td_receivable_invoices
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, apperr.NotFound(invoiceNotFoundMsg)
		}
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	if err := r.pool.QueryRow(ctx, refundsPendingQuery, inv.ID).Scan(&inv.RefundsPendingMinor); err != nil {
		return Invoice{}, fmt.Errorf("sum pending refunds: %w", err)
	}
	return inv, nil
}

// GetBooking returns one booking.
func (r *Repository) GetBooking(ctx context.Context, id, organizationID uuid.UUID) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM td_bookings
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMsg)
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListInvoicesParams filters the receivable invoice list.
type ListInvoicesParams struct {
	OrganizationID uuid.UUID
	Status         string
	AgentID        *uuid.UUID
	Search         string
	SortBy         string
	SortOrder      string
	Page           int
	PageSize       int
}

// ListInvoicesResult is one page of receivable invoices.
type ListInvoicesResult struct {
	Items      []Invoice
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listInvoicesBaseQuery = `
	FROM td_receivable_invoices
	WHERE organization_id = $1
		AND ($2::text IS NULL OR status = $2)
		AND ($3::uuid IS NULL OR agent_id = $3)
		AND ($4::text IS NULL OR invoice_number ILIKE $4)
`

func (r *Repository) ListInvoices(ctx context.Context, params ListInvoicesParams) (ListInvoicesResult, error) {
	statusParam := optionalText(params.Status)
	searchParam := optionalSearch(params.Search)

	sortBy, err := resolveInvoiceSortBy(params.SortBy)
	if err != nil {
		return ListInvoicesResult{}, err
	}
	orderBy, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return ListInvoicesResult{}, err
	}

	args := []interface{}{params.OrganizationID, statusParam, params.AgentID, searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listInvoicesBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListInvoicesResult{}, fmt.Errorf("count invoices: %w", err)
	}

	page, pageSize := normalizePage(params.Page, params.PageSize)
	offset := (page - 1) * pageSize

	selectQuery := `
		SELECT ` + invoiceColumns + `
		` + listInvoicesBaseQuery + `
		ORDER BY
			CASE WHEN $5 = 'invoiceNumber' AND $6 = 'asc' THEN invoice_number END ASC,
			CASE WHEN $5 = 'invoiceNumber' AND $6 = 'desc' THEN invoice_number END DESC,
			CASE WHEN $5 = 'dueDate' AND $6 = 'asc' THEN due_date END ASC,
			CASE WHEN $5 = 'dueDate' AND $6 = 'desc' THEN due_date END DESC,
			CASE WHEN $5 = 'totalMinor' AND $6 = 'asc' THEN total_minor END ASC,
			CASE WHEN $5 = 'totalMinor' AND $6 = 'desc' THEN total_minor END DESC,
			CASE WHEN $5 = 'status' AND $6 = 'asc' THEN status END ASC,
			CASE WHEN $5 = 'status' AND $6 = 'desc' THEN status END DESC,
			CASE WHEN $5 = 'createdAt' AND $6 = 'asc' THEN created_at END ASC,
			CASE WHEN $5 = 'createdAt' AND $6 = 'desc' THEN created_at END DESC,
			created_at DESC
		LIMIT $7 OFFSET $8
	`

	args = append(args, sortBy, orderBy, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListInvoicesResult{}, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	items := make([]Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return ListInvoicesResult{}, fmt.Errorf("scan invoice: %w", err)
		}
		items = append(items, inv)
	}
	if rows.Err() != nil {
		return ListInvoicesResult{}, rows.Err()
	}

	pageTotal := 0
	if pageSize > 0 {
		pageTotal = (total + pageSize - 1) / pageSize
	}
	return ListInvoicesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

// ListBookingsParams filters the booking list.
type ListBookingsParams struct {
	OrganizationID uuid.UUID
	Status         string
	Search         string
	Page           int
	PageSize       int
}

// ListBookingsResult is one page of bookings.
type ListBookingsResult struct {
	Items      []Booking
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listBookingsBaseQuery = `
	FROM td_bookings
	WHERE organization_id = $1
		AND ($2::text IS NULL OR status = $2)
		AND ($3::text IS NULL OR booking_number ILIKE $3 OR destination ILIKE $3)
`

func (r *Repository) ListBookings(ctx context.Context, params ListBookingsParams) (ListBookingsResult, error) {
	statusParam := optionalText(params.Status)
	searchParam := optionalSearch(params.Search)

	args := []interface{}{params.OrganizationID, statusParam, searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listBookingsBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListBookingsResult{}, fmt.Errorf("count bookings: %w", err)
	}

	page, pageSize := normalizePage(params.Page, params.PageSize)
	offset := (page - 1) * pageSize

	selectQuery := `
		SELECT ` + bookingColumns + `
		` + listBookingsBaseQuery + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListBookingsResult{}, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return ListBookingsResult{}, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, b)
	}
	if rows.Err() != nil {
		return ListBookingsResult{}, rows.Err()
	}

	pageTotal := 0
	if pageSize > 0 {
		pageTotal = (total + pageSize - 1) / pageSize
	}
	return ListBookingsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

// OverdueInvoice is one invoice flipped by the due-date sweep.
type OverdueInvoice struct {
	ID               uuid.UUID
	OrganizationID   uuid.UUID
	InvoiceNumber    string
	AgentID          *uuid.UUID
	OutstandingMinor int64
	Currency         string
	DueDate          time.Time
}

// MarkOverdueAsOf flips every sent or partial invoice whose due date has
// passed to overdue, across all organizations. A later payment recomputes
// the status from the balance and wins over the sweep.
func (r *Repository) MarkOverdueAsOf(ctx context.Context, today time.Time) ([]OverdueInvoice, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE td_receivable_invoices
		SET status = $2, updated_at = now()
		WHERE status IN ($3, $4) AND due_date < $1
		RETURNING id, organization_id, invoice_number, agent_id, total_minor - paid_minor, currency, due_date
	`, today, StatusOverdue, StatusSent, StatusPartial)
	if err != nil {
		return nil, fmt.Errorf("mark overdue invoices: %w", err)
	}
	defer rows.Close()

	flipped := make([]OverdueInvoice, 0)
	for rows.Next() {
		var o OverdueInvoice
		if err := rows.Scan(&o.ID, &o.OrganizationID, &o.InvoiceNumber, &o.AgentID,
			&o.OutstandingMinor, &o.Currency, &o.DueDate); err != nil {
			return nil, fmt.Errorf("scan overdue invoice: %w", err)
		}
		flipped = append(flipped, o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return flipped, nil
}

func resolveInvoiceSortBy(value string) (string, error) {
	if value == "" {
		return "createdAt", nil
	}
	switch value {
	case "invoiceNumber", "dueDate", "totalMinor", "status", "createdAt":
		return value, nil
	default:
		return "", apperr.BadRequest("invalid sort field")
	}
}

func resolveSortOrder(value string) (string, error) {
	if value == "" {
		return "desc", nil
	}
	switch value {
	case "asc", "desc":
		return value, nil
	default:
		return "", apperr.BadRequest("invalid sort order")
	}
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

func optionalText(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func optionalSearch(value string) interface{} {
	if value == "" {
		return nil
	}
	return "%" + value + "%"
}

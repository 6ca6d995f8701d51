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
)

const payableNotFoundMsg = "payable invoice not found"

// Payable invoice statuses. Bills move draft -> approved -> paid.
const (
	PayableDraft    = "draft"
	PayableApproved = "approved"
	PayablePaid     = "paid"
)

// PayableInvoice is a supplier bill.
type PayableInvoice struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	SupplierID     *uuid.UUID
	SupplierRef    string
	Status         string
	Currency       string
	AmountMinor    int64
	DueDate        *time.Time
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const payableColumns = `id, organization_id, supplier_id, supplier_ref, status, currency,
	amount_minor, due_date, notes, created_at, updated_at`

func scanPayable(row pgx.Row) (PayableInvoice, error) {
	var p PayableInvoice
	err := row.Scan(
		&p.ID,
		&p.OrganizationID,
		&p.SupplierID,
		&p.SupplierRef,
		&p.Status,
		&p.Currency,
		&p.AmountMinor,
		&p.DueDate,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// CreatePayableParams carries a new supplier bill.
type CreatePayableParams struct {
	OrganizationID uuid.UUID
	SupplierID     *uuid.UUID
	SupplierRef    string
	Currency       string
	AmountMinor    int64
	DueDate        *time.Time
	Notes          *string
}

func (r *Repository) CreatePayable(ctx context.Context, p CreatePayableParams) (PayableInvoice, error) {
	bill, err := scanPayable(r.pool.QueryRow(ctx, `
		INSERT INTO td_payable_invoices (
			organization_id, supplier_id, supplier_ref, status, currency, amount_minor, due_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+payableColumns+`
	`, p.OrganizationID, p.SupplierID, p.SupplierRef, PayableDraft, p.Currency,
		p.AmountMinor, p.DueDate, p.Notes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return PayableInvoice{}, apperr.BadRequest("unknown supplier")
		}
		return PayableInvoice{}, fmt.Errorf("create payable invoice: %w", err)
	}
	return bill, nil
}

func (r *Repository) GetPayable(ctx context.Context, id, organizationID uuid.UUID) (PayableInvoice, error) {
	bill, err := scanPayable(r.pool.QueryRow(ctx, `
		SELECT `+payableColumns+`
		FROM td_payable_invoices
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PayableInvoice{}, apperr.NotFound(payableNotFoundMsg)
		}
		return PayableInvoice{}, fmt.Errorf("get payable invoice: %w", err)
	}
	return bill, nil
}

// UpdatePayableParams carries a partial supplier bill update.
type UpdatePayableParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	SupplierID     *uuid.UUID
	SupplierRef    *string
	Currency       *string
	AmountMinor    *int64
	DueDate        *time.Time
	Notes          *string
}

func (r *Repository) UpdatePayable(ctx context.Context, p UpdatePayableParams) (PayableInvoice, error) {
	bill, err := scanPayable(r.pool.QueryRow(ctx, `
		UPDATE td_payable_invoices
		SET supplier_id = COALESCE($3, supplier_id),
			supplier_ref = COALESCE($4, supplier_ref),
			currency = COALESCE($5, currency),
			amount_minor = COALESCE($6, amount_minor),
			due_date = COALESCE($7, due_date),
			notes = COALESCE($8, notes),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+payableColumns+`
	`, p.ID, p.OrganizationID, p.SupplierID, p.SupplierRef, p.Currency, p.AmountMinor,
		p.DueDate, p.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PayableInvoice{}, apperr.NotFound(payableNotFoundMsg)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return PayableInvoice{}, apperr.BadRequest("unknown supplier")
		}
		return PayableInvoice{}, fmt.Errorf("update payable invoice: %w", err)
	}
	return bill, nil
}

func (r *Repository) UpdatePayableStatus(ctx context.Context, id, organizationID uuid.UUID, status string) (PayableInvoice, error) {
	bill, err := scanPayable(r.pool.QueryRow(ctx, `
		UPDATE td_payable_invoices
		SET status = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+payableColumns+`
	`, id, organizationID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PayableInvoice{}, apperr.NotFound(payableNotFoundMsg)
		}
		return PayableInvoice{}, fmt.Errorf("update payable status: %w", err)
	}
	return bill, nil
}

// DeletePayable removes a draft supplier bill. Approved and paid bills are
// part of the books and cannot be deleted.
func (r *Repository) DeletePayable(ctx context.Context, id, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_payable_invoices
		WHERE id = $1 AND organization_id = $2 AND status = $3
	`, id, organizationID, PayableDraft)
	if err != nil {
		return fmt.Errorf("delete payable invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		bill, getErr := r.GetPayable(ctx, id, organizationID)
		if getErr != nil {
			return getErr
		}
		return apperr.Conflict(fmt.Sprintf("%s bills cannot be deleted", bill.Status))
	}
	return nil
}

// ListPayablesParams filters the supplier bill list.
type ListPayablesParams struct {
	OrganizationID uuid.UUID
	Status         string
	SupplierID     *uuid.UUID
	Search         string
	Page           int
	PageSize       int
}

// ListPayablesResult is one page of supplier bills.
type ListPayablesResult struct {
	Items      []PayableInvoice
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listPayablesBaseQuery = `
	FROM td_payable_invoices
	WHERE organization_id = $1
		AND ($2::text IS NULL OR status = $2)
		AND ($3::uuid IS NULL OR supplier_id = $3)
		AND ($4::text IS NULL OR supplier_ref ILIKE $4)
`

func (r *Repository) ListPayables(ctx context.Context, params ListPayablesParams) (ListPayablesResult, error) {
	statusParam := optionalText(params.Status)
	searchParam := optionalSearch(params.Search)

	args := []interface{}{params.OrganizationID, statusParam, params.SupplierID, searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listPayablesBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListPayablesResult{}, fmt.Errorf("count payable invoices: %w", err)
	}

	page, pageSize := normalizePage(params.Page, params.PageSize)
	offset := (page - 1) * pageSize

	selectQuery := `
		SELECT ` + payableColumns + `
		` + listPayablesBaseQuery + `
		ORDER BY due_date ASC NULLS LAST, created_at DESC
		LIMIT $5 OFFSET $6
	`

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListPayablesResult{}, fmt.Errorf("list payable invoices: %w", err)
	}
	defer rows.Close()

	items := make([]PayableInvoice, 0)
	for rows.Next() {
		bill, err := scanPayable(rows)
		if err != nil {
			return ListPayablesResult{}, fmt.Errorf("scan payable invoice: %w", err)
		}
		items = append(items, bill)
	}
	if rows.Err() != nil {
		return ListPayablesResult{}, rows.Err()
	}

	pageTotal := 0
	if pageSize > 0 {
		pageTotal = (total + pageSize - 1) / pageSize
	}
	return ListPayablesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

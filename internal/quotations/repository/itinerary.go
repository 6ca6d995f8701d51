package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	dayNotFoundMsg     = "itinerary day not found"
	expenseNotFoundMsg = "expense not found"
)

const dayColumns = `id, quotation_id, organization_id, day_number, day_date, notes, created_at, updated_at`

const expenseColumns = `id, day_id, quotation_id, organization_id, category, supplier_id, description,
	quantity, unit_minor, total_minor, currency, rate_locked, locked_rate_id, locked_unit_minor,
	notes, sort_order, created_at, updated_at`

func scanDay(row pgx.Row) (ItineraryDay, error) {
	var d ItineraryDay
	err := row.Scan(
		&d.ID,
		&d.QuotationID,
		&d.OrganizationID,
		&d.DayNumber,
		&d.Date,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(
		&e.ID,
		&e.DayID,
		&e.QuotationID,
		&e.OrganizationID,
		&e.Category,
		&e.SupplierID,
		&e.Description,
		&e.Quantity,
		&e.UnitMinor,
		&e.TotalMinor,
		&e.Currency,
		&e.RateLocked,
		&e.LockedRateID,
		&e.LockedUnitMinor,
		&e.Notes,
		&e.SortOrder,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// ListDays returns the itinerary days in trip order.
func (r *Repository) ListDays(ctx context.Context, quotationID, organizationID uuid.UUID) ([]ItineraryDay, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dayColumns+`
		FROM td_quotation_days
		WHERE quotation_id = $1 AND organization_id = $2
		ORDER BY day_number ASC
	`, quotationID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list itinerary days: %w", err)
	}
	defer rows.Close()

	days := make([]ItineraryDay, 0)
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan itinerary day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// ListExpensesWithDates returns every expense of the quotation joined with
// its day, in trip order. Repricing reads the service date from here.
func (r *Repository) ListExpensesWithDates(ctx context.Context, quotationID, organizationID uuid.UUID) ([]ExpenseWithDate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.day_id, e.quotation_id, e.organization_id, e.category, e.supplier_id,
			e.description, e.quantity, e.unit_minor, e.total_minor, e.currency, e.rate_locked,
			e.locked_rate_id, e.locked_unit_minor, e.notes, e.sort_order, e.created_at, e.updated_at,
			d.day_date, d.day_number
		FROM td_quotation_expenses e
		JOIN td_quotation_days d ON d.id = e.day_id
		WHERE e.quotation_id = $1 AND e.organization_id = $2
		ORDER BY d.day_number ASC, e.sort_order ASC, e.created_at ASC
	`, quotationID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]ExpenseWithDate, 0)
	for rows.Next() {
		var e ExpenseWithDate
		if err := rows.Scan(
			&e.ID,
			&e.DayID,
			&e.QuotationID,
			&e.OrganizationID,
			&e.Category,
			&e.SupplierID,
			&e.Description,
			&e.Quantity,
			&e.UnitMinor,
			&e.TotalMinor,
			&e.Currency,
			&e.RateLocked,
			&e.LockedRateID,
			&e.LockedUnitMinor,
			&e.Notes,
			&e.SortOrder,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.ServiceDate,
			&e.DayNumber,
		); err != nil {
			return nil, fmt.Errorf("scan quotation expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *Repository) CreateDay(ctx context.Context, d ItineraryDay) (ItineraryDay, error) {
	day, err := scanDay(r.pool.QueryRow(ctx, `
		INSERT INTO td_quotation_days (id, quotation_id, organization_id, day_number, day_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+dayColumns+`
	`, d.ID, d.QuotationID, d.OrganizationID, d.DayNumber, d.Date, d.Notes))
	if err != nil {
		return ItineraryDay{}, fmt.Errorf("insert itinerary day: %w", err)
	}
	return day, nil
}

type UpdateDayParams struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	DayNumber      *int32
	Date           *time.Time
	Notes          *string
}

func (r *Repository) UpdateDay(ctx context.Context, p UpdateDayParams) (ItineraryDay, error) {
	day, err := scanDay(r.pool.QueryRow(ctx, `
		UPDATE td_quotation_days
		SET day_number = COALESCE($4, day_number),
			day_date = COALESCE($5, day_date),
			notes = COALESCE($6, notes),
			updated_at = now()
		WHERE id = $1 AND quotation_id = $2 AND organization_id = $3
		RETURNING `+dayColumns+`
	`, p.ID, p.QuotationID, p.OrganizationID, p.DayNumber, p.Date, p.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItineraryDay{}, apperr.NotFound(dayNotFoundMsg)
		}
		return ItineraryDay{}, fmt.Errorf("update itinerary day: %w", err)
	}
	return day, nil
}

// DeleteDay removes a day with its expenses and refreshes the quotation
// total in the same transaction.
func (r *Repository) DeleteDay(ctx context.Context, id, quotationID, organizationID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete day: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM td_quotation_expenses WHERE day_id = $1 AND organization_id = $2
	`, id, organizationID); err != nil {
		return fmt.Errorf("delete day expenses: %w", err)
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM td_quotation_days WHERE id = $1 AND quotation_id = $2 AND organization_id = $3
	`, id, quotationID, organizationID)
	if err != nil {
		return fmt.Errorf("delete itinerary day: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(dayNotFoundMsg)
	}

	if _, err := refreshTotal(ctx, tx, quotationID, organizationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateExpense inserts a line under an existing day and refreshes the
// quotation total in the same transaction.
func (r *Repository) CreateExpense(ctx context.Context, e Expense) (Expense, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("begin create expense: %w", err)
	}
	defer tx.Rollback(ctx)

	var dayQuotation uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT quotation_id FROM td_quotation_days WHERE id = $1 AND organization_id = $2
	`, e.DayID, e.OrganizationID).Scan(&dayQuotation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Expense{}, apperr.NotFound(dayNotFoundMsg)
		}
		return Expense{}, fmt.Errorf("resolve expense day: %w", err)
	}
	if dayQuotation != e.QuotationID {
		return Expense{}, apperr.BadRequest("day belongs to another quotation")
	}

	created, err := scanExpense(tx.QueryRow(ctx, `
		INSERT INTO td_quotation_expenses (
			id, day_id, quotation_id, organization_id, category, supplier_id, description,
			quantity, unit_minor, total_minor, currency, rate_locked, locked_rate_id,
			locked_unit_minor, notes, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+expenseColumns+`
	`, e.ID, e.DayID, e.QuotationID, e.OrganizationID, e.Category, e.SupplierID, e.Description,
		e.Quantity, e.UnitMinor, e.TotalMinor, e.Currency, e.RateLocked, e.LockedRateID,
		e.LockedUnitMinor, e.Notes, e.SortOrder))
	if err != nil {
		return Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	if _, err := refreshTotal(ctx, tx, e.QuotationID, e.OrganizationID); err != nil {
		return Expense{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Expense{}, fmt.Errorf("commit create expense: %w", err)
	}
	return created, nil
}

type UpdateExpenseParams struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	OrganizationID uuid.UUID
	Category       *string
	SupplierID     *uuid.UUID
	Description    *string
	Quantity       *int32
	UnitMinor      *int64
	Notes          *string
	SortOrder      *int32
	// ClearLock drops the captured rate so the line reprices live again.
	// Set whenever the caller overrides the unit price by hand.
	ClearLock bool
}

// UpdateExpense patches a line. The stored total always follows
// unit x quantity on this path; the quotation total is refreshed in the
// same transaction.
func (r *Repository) UpdateExpense(ctx context.Context, p UpdateExpenseParams) (Expense, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("begin update expense: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, err := scanExpense(tx.QueryRow(ctx, `
		UPDATE td_quotation_expenses
		SET category = COALESCE($4, category),
			supplier_id = COALESCE($5, supplier_id),
			description = COALESCE($6, description),
			quantity = COALESCE($7, quantity),
			unit_minor = COALESCE($8, unit_minor),
			total_minor = COALESCE($8, unit_minor) * COALESCE($7, quantity),
			notes = COALESCE($9, notes),
			sort_order = COALESCE($10, sort_order),
			rate_locked = CASE WHEN $11 THEN FALSE ELSE rate_locked END,
			locked_rate_id = CASE WHEN $11 THEN NULL ELSE locked_rate_id END,
			locked_unit_minor = CASE WHEN $11 THEN NULL ELSE locked_unit_minor END,
			updated_at = now()
		WHERE id = $1 AND quotation_id = $2 AND organization_id = $3
		RETURNING `+expenseColumns+`
	`, p.ID, p.QuotationID, p.OrganizationID, p.Category, p.SupplierID, p.Description,
		p.Quantity, p.UnitMinor, p.Notes, p.SortOrder, p.ClearLock))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Expense{}, apperr.NotFound(expenseNotFoundMsg)
		}
		return Expense{}, fmt.Errorf("update expense: %w", err)
	}

	if _, err := refreshTotal(ctx, tx, p.QuotationID, p.OrganizationID); err != nil {
		return Expense{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Expense{}, fmt.Errorf("commit update expense: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteExpense(ctx context.Context, id, quotationID, organizationID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete expense: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		DELETE FROM td_quotation_expenses WHERE id = $1 AND quotation_id = $2 AND organization_id = $3
	`, id, quotationID, organizationID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(expenseNotFoundMsg)
	}

	if _, err := refreshTotal(ctx, tx, quotationID, organizationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ExpensePriceUpdate carries one repriced line back to storage.
type ExpensePriceUpdate struct {
	ID         uuid.UUID
	UnitMinor  int64
	TotalMinor int64
}

// ApplyReprice writes the repriced lines and the refreshed total in one
// transaction with the quotation row locked, so concurrent itinerary edits
// serialize against it. Returns the stored total.
func (r *Repository) ApplyReprice(ctx context.Context, quotationID, organizationID uuid.UUID, updates []ExpensePriceUpdate) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin reprice: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockQuotation(ctx, tx, quotationID, organizationID); err != nil {
		return 0, err
	}

	for _, u := range updates {
		if _, err := tx.Exec(ctx, `
			UPDATE td_quotation_expenses
			SET unit_minor = $4, total_minor = $5, updated_at = now()
			WHERE id = $1 AND quotation_id = $2 AND organization_id = $3
		`, u.ID, quotationID, organizationID, u.UnitMinor, u.TotalMinor); err != nil {
			return 0, fmt.Errorf("reprice expense %s: %w", u.ID, err)
		}
	}

	total, err := refreshTotal(ctx, tx, quotationID, organizationID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit reprice: %w", err)
	}
	return total, nil
}

// ReplaceItinerary swaps the whole day/expense set under a row lock and
// refreshes the total, all in one transaction.
func (r *Repository) ReplaceItinerary(ctx context.Context, quotationID, organizationID uuid.UUID, days []ItineraryDay, expenses []Expense) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin replace itinerary: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockQuotation(ctx, tx, quotationID, organizationID); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM td_quotation_expenses WHERE quotation_id = $1 AND organization_id = $2
	`, quotationID, organizationID); err != nil {
		return 0, fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM td_quotation_days WHERE quotation_id = $1 AND organization_id = $2
	`, quotationID, organizationID); err != nil {
		return 0, fmt.Errorf("clear itinerary days: %w", err)
	}

	if err := insertDays(ctx, tx, days); err != nil {
		return 0, err
	}
	if err := insertExpenses(ctx, tx, expenses); err != nil {
		return 0, err
	}

	total, err := refreshTotal(ctx, tx, quotationID, organizationID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit replace itinerary: %w", err)
	}
	return total, nil
}

func insertDays(ctx context.Context, tx pgx.Tx, days []ItineraryDay) error {
	for _, d := range days {
		if _, err := tx.Exec(ctx, `
			INSERT INTO td_quotation_days (id, quotation_id, organization_id, day_number, day_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, d.ID, d.QuotationID, d.OrganizationID, d.DayNumber, d.Date, d.Notes); err != nil {
			return fmt.Errorf("insert itinerary day: %w", err)
		}
	}
	return nil
}

func insertExpenses(ctx context.Context, tx pgx.Tx, expenses []Expense) error {
	for _, e := range expenses {
		if _, err := tx.Exec(ctx, `
			INSERT INTO td_quotation_expenses (
				id, day_id, quotation_id, organization_id, category, supplier_id, description,
				quantity, unit_minor, total_minor, currency, rate_locked, locked_rate_id,
				locked_unit_minor, notes, sort_order
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, e.ID, e.DayID, e.QuotationID, e.OrganizationID, e.Category, e.SupplierID, e.Description,
			e.Quantity, e.UnitMinor, e.TotalMinor, e.Currency, e.RateLocked, e.LockedRateID,
			e.LockedUnitMinor, e.Notes, e.SortOrder); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}
	return nil
}

const lockQuotationQuery = `SELECT id FROM td_quotations WHERE id = $1 AND organization_id = $2 FOR UPDATE`

func lockQuotation(ctx context.Context, tx pgx.Tx, quotationID, organizationID uuid.UUID) error {
	var id uuid.UUID
	if err := tx.QueryRow(ctx, lockQuotationQuery, quotationID, organizationID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(quotationNotFoundMsg)
		}
		return fmt.Errorf("lock quotation: %w", err)
	}
	return nil
}

const refreshTotalQuery = `
	UPDATE td_quotations
	SET total_minor = COALESCE((SELECT SUM(total_minor) FROM td_quotation_expenses WHERE quotation_id = $1), 0),
		updated_at = now()
	WHERE id = $1 AND organization_id = $2
	RETURNING total_minor`

// refreshTotal re-derives the quotation total from its expense rows so the
// header can never drift from the lines.
func refreshTotal(ctx context.Context, tx pgx.Tx, quotationID, organizationID uuid.UUID) (int64, error) {
	var total int64
	if err := tx.QueryRow(ctx, refreshTotalQuery, quotationID, organizationID).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound(quotationNotFoundMsg)
		}
		return 0, fmt.Errorf("refresh quotation total: %w", err)
	}
	return total, nil
}

// Package reports serves the finance reporting surface: per-currency
// summaries with base-currency conversion, receivables aging, exchange
// rates and the accounting CSV export.
package reports

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
	"github.com/shopspring/decimal"
)

// Repository provides data access for reporting queries, exchange rates and
// export credentials.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ExchangeRate prices one unit of the base currency in quote-currency units.
type ExchangeRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	BaseCurrency   string
	QuoteCurrency  string
	Rate           decimal.Decimal
	AsOf           time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const exchangeRateColumns = `id, organization_id, base_currency, quote_currency, rate, as_of, created_at, updated_at`

func scanExchangeRate(row pgx.Row) (ExchangeRate, error) {
	var r ExchangeRate
	err := row.Scan(&r.ID, &r.OrganizationID, &r.BaseCurrency, &r.QuoteCurrency, &r.Rate, &r.AsOf, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// UpsertExchangeRate inserts or refreshes the rate for one base/quote pair.
func (r *Repository) UpsertExchangeRate(ctx context.Context, organizationID uuid.UUID, base, quote string, rate decimal.Decimal, asOf time.Time) (ExchangeRate, error) {
	rec, err := scanExchangeRate(r.pool.QueryRow(ctx, `
		INSERT INTO td_exchange_rates (organization_id, base_currency, quote_currency, rate, as_of)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, base_currency, quote_currency)
		DO UPDATE SET rate = EXCLUDED.rate, as_of = EXCLUDED.as_of, updated_at = now()
		RETURNING `+exchangeRateColumns+`
	`, organizationID, base, quote, rate, asOf))
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("upsert exchange rate: %w", err)
	}
	return rec, nil
}

func (r *Repository) ListExchangeRates(ctx context.Context, organizationID uuid.UUID) ([]ExchangeRate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+exchangeRateColumns+`
		FROM td_exchange_rates
		WHERE organization_id = $1
		ORDER BY base_currency ASC, quote_currency ASC
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()

	rates := make([]ExchangeRate, 0)
	for rows.Next() {
		rec, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		rates = append(rates, rec)
	}
	return rates, rows.Err()
}

// RatesForBase returns quote currency to rate for the given base currency.
func (r *Repository) RatesForBase(ctx context.Context, organizationID uuid.UUID, base string) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT quote_currency, rate
		FROM td_exchange_rates
		WHERE organization_id = $1 AND base_currency = $2
	`, organizationID, base)
	if err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]decimal.Decimal)
	for rows.Next() {
		var quote string
		var rate decimal.Decimal
		if err := rows.Scan(&quote, &rate); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		rates[quote] = rate
	}
	return rates, rows.Err()
}

// currencySums runs an aggregate query returning (currency, sum) pairs.
func (r *Repository) currencySums(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var currency string
		var sum int64
		if err := rows.Scan(&currency, &sum); err != nil {
			return nil, err
		}
		sums[currency] = sum
	}
	return sums, rows.Err()
}

// InvoicedByCurrency sums invoice totals issued inside the range.
func (r *Repository) InvoicedByCurrency(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (map[string]int64, error) {
	sums, err := r.currencySums(ctx, `
		SELECT currency, COALESCE(SUM(total_minor), 0)
		FROM td_receivable_invoices
		WHERE organization_id = $1 AND issue_date >= $2 AND issue_date <= $3
		GROUP BY currency
	`, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum invoiced: %w", err)
	}
	return sums, nil
}

// CollectedByCurrency sums ledger payments dated inside the range.
func (r *Repository) CollectedByCurrency(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (map[string]int64, error) {
	sums, err := r.currencySums(ctx, `
		SELECT currency, COALESCE(SUM(amount_minor), 0)
		FROM td_invoice_payments
		WHERE organization_id = $1 AND paid_on >= $2 AND paid_on <= $3
		GROUP BY currency
	`, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum collected: %w", err)
	}
	return sums, nil
}

// RefundedByCurrency sums processing and completed refunds created inside
// the range.
func (r *Repository) RefundedByCurrency(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (map[string]int64, error) {
	sums, err := r.currencySums(ctx, `
		SELECT currency, COALESCE(SUM(refund_minor), 0)
		FROM td_cancellations
		WHERE organization_id = $1 AND created_at >= $2 AND created_at <= $3
			AND status IN ('processing', 'completed')
		GROUP BY currency
	`, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum refunded: %w", err)
	}
	return sums, nil
}

// OutstandingByCurrency sums the open balance of uncollected receivables.
// Snapshot, not range-bound.
func (r *Repository) OutstandingByCurrency(ctx context.Context, organizationID uuid.UUID) (map[string]int64, error) {
	sums, err := r.currencySums(ctx, `
		SELECT currency, COALESCE(SUM(total_minor - paid_minor), 0)
		FROM td_receivable_invoices
		WHERE organization_id = $1 AND status IN ('sent', 'partial', 'overdue')
		GROUP BY currency
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("sum outstanding: %w", err)
	}
	return sums, nil
}

// OpenReceivable is one invoice balance still owed, used for aging.
type OpenReceivable struct {
	Currency         string
	DueDate          time.Time
	OutstandingMinor int64
}

func (r *Repository) OpenReceivables(ctx context.Context, organizationID uuid.UUID) ([]OpenReceivable, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT currency, due_date, total_minor - paid_minor
		FROM td_receivable_invoices
		WHERE organization_id = $1
			AND status IN ('sent', 'partial', 'overdue')
			AND total_minor > paid_minor
		ORDER BY due_date ASC
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list open receivables: %w", err)
	}
	defer rows.Close()

	items := make([]OpenReceivable, 0)
	for rows.Next() {
		var item OpenReceivable
		if err := rows.Scan(&item.Currency, &item.DueDate, &item.OutstandingMinor); err != nil {
			return nil, fmt.Errorf("scan open receivable: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ExportInvoiceRow is one receivable invoice flattened for the accounting
// CSV.
type ExportInvoiceRow struct {
	InvoiceNumber    string
	BookingNumber    string
	AgentName        *string
	Status           string
	Currency         string
	TotalMinor       int64
	PaidMinor        int64
	OutstandingMinor int64
	IssueDate        time.Time
	DueDate          time.Time
	LastPaymentOn    *time.Time
}

func (r *Repository) ExportInvoices(ctx context.Context, organizationID uuid.UUID, from, to time.Time) ([]ExportInvoiceRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.invoice_number, b.booking_number, a.name, i.status, i.currency,
			i.total_minor, i.paid_minor, i.total_minor - i.paid_minor,
			i.issue_date, i.due_date, i.last_payment_on
		FROM td_receivable_invoices i
		JOIN td_bookings b ON b.id = i.booking_id AND b.organization_id = i.organization_id
		LEFT JOIN td_agents a ON a.id = i.agent_id AND a.organization_id = i.organization_id
		WHERE i.organization_id = $1 AND i.issue_date >= $2 AND i.issue_date <= $3
		ORDER BY i.issue_date ASC, i.invoice_number ASC
	`, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list export invoices: %w", err)
	}
	defer rows.Close()

	items := make([]ExportInvoiceRow, 0)
	for rows.Next() {
		var item ExportInvoiceRow
		if err := rows.Scan(
			&item.InvoiceNumber, &item.BookingNumber, &item.AgentName, &item.Status, &item.Currency,
			&item.TotalMinor, &item.PaidMinor, &item.OutstandingMinor,
			&item.IssueDate, &item.DueDate, &item.LastPaymentOn,
		); err != nil {
			return nil, fmt.Errorf("scan export invoice: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Credential is the per-organization Basic-Auth login for the accounting
// export. The secret is stored encrypted.
type Credential struct {
	OrganizationID  uuid.UUID
	Username        string
	SecretEncrypted string
	CreatedBy       *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const credentialColumns = `organization_id, username, secret_encrypted, created_by, created_at, updated_at`

const credentialNotFoundMsg = "export credential not found"

func scanCredential(row pgx.Row) (Credential, error) {
	var c Credential
	err := row.Scan(&c.OrganizationID, &c.Username, &c.SecretEncrypted, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// UpsertCredential creates or replaces the export login of an organization.
func (r *Repository) UpsertCredential(ctx context.Context, organizationID uuid.UUID, username, secretEncrypted string, createdBy *uuid.UUID) (Credential, error) {
	cred, err := scanCredential(r.pool.QueryRow(ctx, `
		INSERT INTO td_export_credentials (organization_id, username, secret_encrypted, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id)
		DO UPDATE SET username = EXCLUDED.username, secret_encrypted = EXCLUDED.secret_encrypted, updated_at = now()
		RETURNING `+credentialColumns+`
	`, organizationID, username, secretEncrypted, createdBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Credential{}, apperr.Conflict("export username is already taken")
		}
		return Credential{}, fmt.Errorf("upsert export credential: %w", err)
	}
	return cred, nil
}

func (r *Repository) GetCredential(ctx context.Context, organizationID uuid.UUID) (Credential, error) {
	cred, err := scanCredential(r.pool.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM td_export_credentials
		WHERE organization_id = $1
	`, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, apperr.NotFound(credentialNotFoundMsg)
		}
		return Credential{}, fmt.Errorf("get export credential: %w", err)
	}
	return cred, nil
}

func (r *Repository) GetCredentialByUsername(ctx context.Context, username string) (Credential, error) {
	cred, err := scanCredential(r.pool.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM td_export_credentials
		WHERE username = $1
	`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, apperr.NotFound(credentialNotFoundMsg)
		}
		return Credential{}, fmt.Errorf("get export credential: %w", err)
	}
	return cred, nil
}

func (r *Repository) DeleteCredential(ctx context.Context, organizationID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM td_export_credentials WHERE organization_id = $1
	`, organizationID)
	if err != nil {
		return fmt.Errorf("delete export credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(credentialNotFoundMsg)
	}
	return nil
}

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

const lockInvoiceQuery = `
	SELECT ` + invoiceColumns + `
	FROM td_receivable_invoices
	WHERE id = $1 AND organization_id = $2
	FOR UPDATE`

// lockInvoice reads the invoice row under a write lock so the whole
// read-validate-write of a payment or refund is serialized per invoice.
func lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID, organizationID uuid.UUID) (Invoice, error) {
	inv, err := scanInvoice(tx.QueryRow(ctx, lockInvoiceQuery, invoiceID, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, apperr.NotFound(invoiceNotFoundMsg)
		}
		return Invoice{}, fmt.Errorf("lock invoice: %w", err)
	}
	return inv, nil
}

const refreshBalanceQuery = `
	UPDATE td_receivable_invoices
	SET paid_minor = $3, status = $4, last_payment_on = COALESCE($5, last_payment_on), updated_at = now()
	WHERE id = $1 AND organization_id = $2
	RETURNING ` + invoiceColumns

func refreshBalance(ctx context.Context, tx pgx.Tx, invoiceID, organizationID uuid.UUID, paidMinor int64, status string, lastPaymentOn *time.Time) (Invoice, error) {
	inv, err := scanInvoice(tx.QueryRow(ctx, refreshBalanceQuery, invoiceID, organizationID, paidMinor, status, lastPaymentOn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, apperr.NotFound(invoiceNotFoundMsg)
		}
		return Invoice{}, fmt.Errorf("refresh invoice balance: %w", err)
	}
	return inv, nil
}

const sumRefundsQuery = `
	SELECT COALESCE(SUM(refund_minor), 0)
	FROM td_cancellations
	WHERE booking_id = $1 AND status IN ($2, $3) AND ($4::uuid IS NULL OR id <> $4)`

// sumRefundsForBooking totals prior processing and completed refunds for a
// booking. exclude drops the cancellation being re-submitted so its old
// amount is not counted against its replacement.
func sumRefundsForBooking(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, exclude *uuid.UUID) (int64, error) {
	var sum int64
	if err := tx.QueryRow(ctx, sumRefundsQuery, bookingID, RefundProcessing, RefundCompleted, exclude).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum refunds for booking: %w", err)
	}
	return sum, nil
}

func sumRefundsPending(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID) (int64, error) {
	var sum int64
	if err := tx.QueryRow(ctx, refundsPendingQuery, invoiceID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum pending refunds: %w", err)
	}
	return sum, nil
}

const paymentColumns = `id, organization_id, invoice_id, amount_minor, currency, method, reference,
	paid_on, notes, recorded_by, created_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID,
		&p.OrganizationID,
		&p.InvoiceID,
		&p.AmountMinor,
		&p.Currency,
		&p.Method,
		&p.Reference,
		&p.PaidOn,
		&p.Notes,
		&p.RecordedBy,
		&p.CreatedAt,
	)
	return p, err
}

// PaymentParams carries one payment application.
type PaymentParams struct {
	PaymentID      uuid.UUID
	InvoiceID      uuid.UUID
	OrganizationID uuid.UUID
	AmountMinor    int64
	Currency       string
	Method         string
	Reference      *string
	PaidOn         time.Time
	Notes          *string
	RecordedBy     uuid.UUID
}

// ApplyPayment appends one ledger row and rolls the amount into the invoice
// balance in a single transaction. The invoice row is locked first and the
// guards re-run against the authoritative values, so concurrent payments
// cannot overshoot the total between read and write.
func (r *Repository) ApplyPayment(ctx context.Context, p PaymentParams) (Invoice, Payment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, Payment{}, fmt.Errorf("begin apply payment: %w", err)
	}
	defer tx.Rollback(ctx)

	inv, err := lockInvoice(ctx, tx, p.InvoiceID, p.OrganizationID)
	if err != nil {
		return Invoice{}, Payment{}, err
	}
	if err := CheckPayment(inv, p.AmountMinor, p.Currency); err != nil {
		return Invoice{}, Payment{}, err
	}

	payment, err := scanPayment(tx.QueryRow(ctx, `
		INSERT INTO td_invoice_payments (
			id, organization_id, invoice_id, amount_minor, currency, method, reference,
			paid_on, notes, recorded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+paymentColumns+`
	`, p.PaymentID, p.OrganizationID, p.InvoiceID, p.AmountMinor, p.Currency, p.Method,
		p.Reference, p.PaidOn, p.Notes, p.RecordedBy))
	if err != nil {
		return Invoice{}, Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	newPaid := inv.PaidMinor + p.AmountMinor
	updated, err := refreshBalance(ctx, tx, p.InvoiceID, p.OrganizationID, newPaid, StatusFor(newPaid, inv.TotalMinor), &p.PaidOn)
	if err != nil {
		return Invoice{}, Payment{}, err
	}
	updated.RefundsPendingMinor, err = sumRefundsPending(ctx, tx, p.InvoiceID)
	if err != nil {
		return Invoice{}, Payment{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, Payment{}, fmt.Errorf("commit apply payment: %w", err)
	}
	return updated, payment, nil
}

const cancellationColumns = `id, organization_id, booking_id, invoice_id, refund_minor, currency,
	method, reference, reason, status, processed_by, completed_by, completed_at, created_at, updated_at`

func scanCancellation(row pgx.Row) (Cancellation, error) {
	var c Cancellation
	err := row.Scan(
		&c.ID,
		&c.OrganizationID,
		&c.BookingID,
		&c.InvoiceID,
		&c.RefundMinor,
		&c.Currency,
		&c.Method,
		&c.Reference,
		&c.Reason,
		&c.Status,
		&c.ProcessedBy,
		&c.CompletedBy,
		&c.CompletedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// RefundParams carries one refund initiation. A non-nil CancellationID
// re-submits an existing record instead of creating a new one.
type RefundParams struct {
	CancellationID *uuid.UUID
	NewID          uuid.UUID
	InvoiceID      uuid.UUID
	OrganizationID uuid.UUID
	AmountMinor    int64
	Currency       string
	Method         string
	Reference      *string
	Reason         string
	ProcessedBy    uuid.UUID
}

// ApplyRefund records a processing refund and optimistically claws the
// amount back from the invoice balance, all in one transaction under the
// invoice row lock. The ceiling guard re-runs against the locked row and
// the in-transaction refund sum.
func (r *Repository) ApplyRefund(ctx context.Context, p RefundParams) (Invoice, Cancellation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, Cancellation{}, fmt.Errorf("begin apply refund: %w", err)
	}
	defer tx.Rollback(ctx)

	inv, err := lockInvoice(ctx, tx, p.InvoiceID, p.OrganizationID)
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}

	alreadyRefunded, err := sumRefundsForBooking(ctx, tx, inv.BookingID, p.CancellationID)
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}
	if err := CheckRefund(inv, p.AmountMinor, alreadyRefunded, p.Currency); err != nil {
		return Invoice{}, Cancellation{}, err
	}

	var cancellation Cancellation
	if p.CancellationID != nil {
		cancellation, err = resubmitCancellation(ctx, tx, *p.CancellationID, p)
	} else {
		cancellation, err = insertCancellation(ctx, tx, inv.BookingID, p)
	}
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}

	newPaid := inv.PaidMinor - p.AmountMinor
	updated, err := refreshBalance(ctx, tx, p.InvoiceID, p.OrganizationID, newPaid,
		StatusAfterRefund(inv.Status, newPaid, inv.TotalMinor), nil)
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}
	if updated.Status == StatusCancelled {
		if _, err := tx.Exec(ctx, `
			UPDATE td_bookings SET status = $3, updated_at = now()
			WHERE id = $1 AND organization_id = $2
		`, inv.BookingID, p.OrganizationID, BookingCancelled); err != nil {
			return Invoice{}, Cancellation{}, fmt.Errorf("cancel booking: %w", err)
		}
	}
	updated.RefundsPendingMinor, err = sumRefundsPending(ctx, tx, p.InvoiceID)
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, Cancellation{}, fmt.Errorf("commit apply refund: %w", err)
	}
	return updated, cancellation, nil
}

func insertCancellation(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, p RefundParams) (Cancellation, error) {
	c, err := scanCancellation(tx.QueryRow(ctx, `
		INSERT INTO td_cancellations (
			id, organization_id, booking_id, invoice_id, refund_minor, currency,
			method, reference, reason, status, processed_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+cancellationColumns+`
	`, p.NewID, p.OrganizationID, bookingID, p.InvoiceID, p.AmountMinor, p.Currency,
		p.Method, p.Reference, p.Reason, RefundProcessing, p.ProcessedBy))
	if err != nil {
		return Cancellation{}, fmt.Errorf("insert cancellation: %w", err)
	}
	return c, nil
}

// resubmitCancellation replaces the refund details of an existing record and
// puts it back to processing. Completed records are immutable.
func resubmitCancellation(ctx context.Context, tx pgx.Tx, id uuid.UUID, p RefundParams) (Cancellation, error) {
	current, err := scanCancellation(tx.QueryRow(ctx, `
		SELECT `+cancellationColumns+`
		FROM td_cancellations
		WHERE id = $1 AND organization_id = $2 AND invoice_id = $3
		FOR UPDATE
	`, id, p.OrganizationID, p.InvoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cancellation{}, apperr.NotFound(cancellationNotFoundMsg)
		}
		return Cancellation{}, fmt.Errorf("get cancellation: %w", err)
	}
	if current.Status == RefundCompleted {
		return Cancellation{}, apperr.Conflict("refund has already been completed")
	}

	c, err := scanCancellation(tx.QueryRow(ctx, `
		UPDATE td_cancellations
		SET refund_minor = $3, currency = $4, method = $5, reference = $6, reason = $7,
			status = $8, processed_by = $9, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+cancellationColumns+`
	`, id, p.OrganizationID, p.AmountMinor, p.Currency, p.Method, p.Reference, p.Reason,
		RefundProcessing, p.ProcessedBy))
	if err != nil {
		return Cancellation{}, fmt.Errorf("update cancellation: %w", err)
	}
	return c, nil
}

// CompleteRefund confirms a processing refund once the bank transfer has
// been verified out-of-band. The invoice balance was already adjusted at
// initiation, so only the cancellation record changes.
func (r *Repository) CompleteRefund(ctx context.Context, invoiceID, cancellationID, organizationID, completedBy uuid.UUID) (Invoice, Cancellation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, Cancellation{}, fmt.Errorf("begin complete refund: %w", err)
	}
	defer tx.Rollback(ctx)

	inv, err := lockInvoice(ctx, tx, invoiceID, organizationID)
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}

	current, err := scanCancellation(tx.QueryRow(ctx, `
		SELECT `+cancellationColumns+`
		FROM td_cancellations
		WHERE id = $1 AND organization_id = $2 AND invoice_id = $3
		FOR UPDATE
	`, cancellationID, organizationID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, Cancellation{}, apperr.NotFound(cancellationNotFoundMsg)
		}
		return Invoice{}, Cancellation{}, fmt.Errorf("get cancellation: %w", err)
	}
	if current.Status == RefundCompleted {
		return Invoice{}, Cancellation{}, apperr.Conflict("refund has already been completed")
	}

	completed, err := scanCancellation(tx.QueryRow(ctx, `
		UPDATE td_cancellations
		SET status = $3, completed_by = $4, completed_at = now(), updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING `+cancellationColumns+`
	`, cancellationID, organizationID, RefundCompleted, completedBy))
	if err != nil {
		return Invoice{}, Cancellation{}, fmt.Errorf("complete cancellation: %w", err)
	}

	inv.RefundsPendingMinor, err = sumRefundsPending(ctx, tx, invoiceID)
	if err != nil {
		return Invoice{}, Cancellation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, Cancellation{}, fmt.Errorf("commit complete refund: %w", err)
	}
	return inv, completed, nil
}

// ListPayments returns the ledger of one invoice, newest first.
func (r *Repository) ListPayments(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM td_invoice_payments
		WHERE invoice_id = $1 AND organization_id = $2
		ORDER BY paid_on DESC, created_at DESC
	`, invoiceID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return payments, nil
}

// ListCancellations returns the refund records of one invoice, newest first.
func (r *Repository) ListCancellations(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]Cancellation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cancellationColumns+`
		FROM td_cancellations
		WHERE invoice_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
	`, invoiceID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list cancellations: %w", err)
	}
	defer rows.Close()

	cancellations := make([]Cancellation, 0)
	for rows.Next() {
		c, err := scanCancellation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cancellation: %w", err)
		}
		cancellations = append(cancellations, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return cancellations, nil
}

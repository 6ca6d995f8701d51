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

const attachmentNotFoundMsg = "attachment not found"

// Attachment is the metadata row for one file stored against an invoice.
type Attachment struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	InvoiceID      uuid.UUID
	FileName       string
	ObjectKey      string
	ContentType    string
	SizeBytes      int64
	UploadedBy     uuid.UUID
	CreatedAt      time.Time
}

const attachmentColumns = `id, organization_id, invoice_id, file_name, object_key, content_type,
	size_bytes, uploaded_by, created_at`

func scanAttachment(row pgx.Row) (Attachment, error) {
	var a Attachment
	err := row.Scan(
		&a.ID,
		&a.OrganizationID,
		&a.InvoiceID,
		&a.FileName,
		&a.ObjectKey,
		&a.ContentType,
		&a.SizeBytes,
		&a.UploadedBy,
		&a.CreatedAt,
	)
	return a, err
}

// CreateAttachmentParams carries one attachment metadata row.
type CreateAttachmentParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	InvoiceID      uuid.UUID
	FileName       string
	ObjectKey      string
	ContentType    string
	SizeBytes      int64
	UploadedBy     uuid.UUID
}

func (r *Repository) CreateAttachment(ctx context.Context, p CreateAttachmentParams) (Attachment, error) {
	a, err := scanAttachment(r.pool.QueryRow(ctx, `
		INSERT INTO td_invoice_attachments (
			id, organization_id, invoice_id, file_name, object_key, content_type, size_bytes, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+attachmentColumns+`
	`, p.ID, p.OrganizationID, p.InvoiceID, p.FileName, p.ObjectKey, p.ContentType,
		p.SizeBytes, p.UploadedBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Attachment{}, apperr.NotFound(invoiceNotFoundMsg)
		}
		return Attachment{}, fmt.Errorf("create attachment: %w", err)
	}
	return a, nil
}

func (r *Repository) GetAttachment(ctx context.Context, id, invoiceID, organizationID uuid.UUID) (Attachment, error) {
	a, err := scanAttachment(r.pool.QueryRow(ctx, `
		SELECT `+attachmentColumns+`
		FROM td_invoice_attachments
		WHERE id = $1 AND invoice_id = $2 AND organization_id = $3
	`, id, invoiceID, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Attachment{}, apperr.NotFound(attachmentNotFoundMsg)
		}
		return Attachment{}, fmt.Errorf("get attachment: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAttachments(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attachmentColumns+`
		FROM td_invoice_attachments
		WHERE invoice_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
	`, invoiceID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return attachments, nil
}

func (r *Repository) DeleteAttachment(ctx context.Context, id, invoiceID, organizationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM td_invoice_attachments
		WHERE id = $1 AND invoice_id = $2 AND organization_id = $3
	`, id, invoiceID, organizationID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(attachmentNotFoundMsg)
	}
	return nil
}

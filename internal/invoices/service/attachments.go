package service

import (
	"context"
	"fmt"

	"tourdesk_backend/internal/adapters/storage"
	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

const storageUnconfiguredMsg = "file storage is not configured"

// AttachmentUploadParams describes one file about to be uploaded.
type AttachmentUploadParams struct {
	InvoiceID      uuid.UUID
	OrganizationID uuid.UUID
	FileName       string
	ContentType    string
	SizeBytes      int64
	UploadedBy     uuid.UUID
}

// AttachmentUpload is the metadata row plus the presigned PUT the client
// uploads to.
type AttachmentUpload struct {
	Attachment repository.Attachment
	Upload     *storage.PresignedURL
}

// CreateAttachmentUpload presigns an upload slot for one invoice document
// and records its metadata. The object key is uuid-suffixed by the storage
// layer so re-uploads of the same file name never overwrite.
func (s *Service) CreateAttachmentUpload(ctx context.Context, p AttachmentUploadParams) (AttachmentUpload, error) {
	if s.store == nil {
		return AttachmentUpload{}, apperr.Internal(storageUnconfiguredMsg)
	}
	if err := s.store.ValidateContentType(p.ContentType); err != nil {
		return AttachmentUpload{}, apperr.Validation(err.Error())
	}
	if err := s.store.ValidateFileSize(p.SizeBytes); err != nil {
		return AttachmentUpload{}, apperr.Validation(err.Error())
	}
	if _, err := s.repo.GetInvoice(ctx, p.InvoiceID, p.OrganizationID); err != nil {
		return AttachmentUpload{}, err
	}

	folder := fmt.Sprintf("%s/%s", p.OrganizationID, p.InvoiceID)
	presigned, err := s.store.GenerateUploadURL(ctx, s.bucket, folder, p.FileName, p.ContentType, p.SizeBytes)
	if err != nil {
		return AttachmentUpload{}, fmt.Errorf("presign attachment upload: %w", err)
	}

	attachment, err := s.repo.CreateAttachment(ctx, repository.CreateAttachmentParams{
		ID:             uuid.New(),
		OrganizationID: p.OrganizationID,
		InvoiceID:      p.InvoiceID,
		FileName:       p.FileName,
		ObjectKey:      presigned.FileKey,
		ContentType:    p.ContentType,
		SizeBytes:      p.SizeBytes,
		UploadedBy:     p.UploadedBy,
	})
	if err != nil {
		return AttachmentUpload{}, err
	}
	return AttachmentUpload{Attachment: attachment, Upload: presigned}, nil
}

func (s *Service) ListAttachments(ctx context.Context, invoiceID, organizationID uuid.UUID) ([]repository.Attachment, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID, organizationID); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments(ctx, invoiceID, organizationID)
}

// AttachmentDownload presigns a 15-minute GET for one attachment.
func (s *Service) AttachmentDownload(ctx context.Context, id, invoiceID, organizationID uuid.UUID) (*storage.PresignedURL, error) {
	if s.store == nil {
		return nil, apperr.Internal(storageUnconfiguredMsg)
	}
	attachment, err := s.repo.GetAttachment(ctx, id, invoiceID, organizationID)
	if err != nil {
		return nil, err
	}
	presigned, err := s.store.GenerateDownloadURL(ctx, s.bucket, attachment.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("presign attachment download: %w", err)
	}
	return presigned, nil
}

// DeleteAttachment removes the metadata row, then the stored object.
// Object deletion failures are logged, not surfaced.
func (s *Service) DeleteAttachment(ctx context.Context, id, invoiceID, organizationID uuid.UUID) error {
	if s.store == nil {
		return apperr.Internal(storageUnconfiguredMsg)
	}
	attachment, err := s.repo.GetAttachment(ctx, id, invoiceID, organizationID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAttachment(ctx, id, invoiceID, organizationID); err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, s.bucket, attachment.ObjectKey); err != nil && s.log != nil {
		s.log.Warn("attachment object delete failed", "objectKey", attachment.ObjectKey, "error", err)
	}
	return nil
}

package service

import (
	"context"

	"tourdesk_backend/internal/invoices/repository"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

func (s *Service) CreatePayable(ctx context.Context, p repository.CreatePayableParams) (repository.PayableInvoice, error) {
	return s.repo.CreatePayable(ctx, p)
}

func (s *Service) GetPayable(ctx context.Context, id, organizationID uuid.UUID) (repository.PayableInvoice, error) {
	return s.repo.GetPayable(ctx, id, organizationID)
}

// UpdatePayable edits a supplier bill. Paid bills are part of the books and
// frozen.
func (s *Service) UpdatePayable(ctx context.Context, p repository.UpdatePayableParams) (repository.PayableInvoice, error) {
	current, err := s.repo.GetPayable(ctx, p.ID, p.OrganizationID)
	if err != nil {
		return repository.PayableInvoice{}, err
	}
	if current.Status == repository.PayablePaid {
		return repository.PayableInvoice{}, apperr.Conflict("paid bills cannot be edited")
	}
	return s.repo.UpdatePayable(ctx, p)
}

// UpdatePayableStatus moves a bill along draft -> approved -> paid. Reverse
// moves and skips are rejected.
func (s *Service) UpdatePayableStatus(ctx context.Context, id, organizationID uuid.UUID, status string) (repository.PayableInvoice, error) {
	current, err := s.repo.GetPayable(ctx, id, organizationID)
	if err != nil {
		return repository.PayableInvoice{}, err
	}
	if !validPayableTransition(current.Status, status) {
		return repository.PayableInvoice{}, apperr.Validationf("cannot move a %s bill to %s", current.Status, status)
	}
	return s.repo.UpdatePayableStatus(ctx, id, organizationID, status)
}

func (s *Service) DeletePayable(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.DeletePayable(ctx, id, organizationID)
}

func (s *Service) ListPayables(ctx context.Context, params repository.ListPayablesParams) (repository.ListPayablesResult, error) {
	return s.repo.ListPayables(ctx, params)
}

func validPayableTransition(from, to string) bool {
	switch from {
	case repository.PayableDraft:
		return to == repository.PayableApproved
	case repository.PayableApproved:
		return to == repository.PayablePaid
	default:
		return false
	}
}

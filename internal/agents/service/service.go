package service

import (
	"context"
	"strings"

	"tourdesk_backend/internal/agents/repository"
	"tourdesk_backend/platform/phone"
	"tourdesk_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence surface the agents service depends on.
type Store interface {
	Create(ctx context.Context, p repository.CreateParams) (repository.Agent, error)
	GetByID(ctx context.Context, id, organizationID uuid.UUID) (repository.Agent, error)
	Update(ctx context.Context, p repository.UpdateParams) (repository.Agent, error)
	Delete(ctx context.Context, id, organizationID uuid.UUID) error
	List(ctx context.Context, params repository.ListParams) (repository.ListResult, error)
}

type Service struct {
	repo Store
}

func New(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p repository.CreateParams) (repository.Agent, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	p.Phone = normalizePhone(p.Phone)
	p.Notes = sanitize.TextPtr(p.Notes)
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id, organizationID uuid.UUID) (repository.Agent, error) {
	return s.repo.GetByID(ctx, id, organizationID)
}

func (s *Service) Update(ctx context.Context, p repository.UpdateParams) (repository.Agent, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		p.Name = &trimmed
	}
	p.Email = normalizeEmail(p.Email)
	p.Phone = normalizePhone(p.Phone)
	p.Notes = sanitize.TextPtr(p.Notes)
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	return s.repo.Delete(ctx, id, organizationID)
}

func (s *Service) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	return s.repo.List(ctx, params)
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	lowered := strings.ToLower(strings.TrimSpace(*email))
	return &lowered
}

func normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}

package service

import (
	"context"
	"strings"

	"tourdesk_backend/internal/auth/password"
	"tourdesk_backend/internal/auth/token"
	"tourdesk_backend/internal/events"
	"tourdesk_backend/internal/identity/repository"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	organizationNotFound = "organization not found"
	memberNotFound       = "member not found"
	tempPasswordBytes    = 12
)

var validRoles = map[string]struct{}{
	"admin": {},
	"staff": {},
}

type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
}

func New(repo *repository.Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

func (s *Service) GetOrganization(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, organizationID)
	if err == repository.ErrNotFound {
		return repository.Organization{}, apperr.NotFound(organizationNotFound)
	}
	return org, err
}

func (s *Service) UpdateOrganization(ctx context.Context, organizationID uuid.UUID, p repository.UpdateOrganizationParams) (repository.Organization, error) {
	if p.BaseCurrency != nil {
		upper := strings.ToUpper(*p.BaseCurrency)
		p.BaseCurrency = &upper
	}
	org, err := s.repo.UpdateOrganization(ctx, organizationID, p)
	if err == repository.ErrNotFound {
		return repository.Organization{}, apperr.NotFound(organizationNotFound)
	}
	return org, err
}

func (s *Service) ListMembers(ctx context.Context, organizationID uuid.UUID) ([]repository.Member, error) {
	return s.repo.ListMembers(ctx, organizationID)
}

// CreateMember provisions a user with a generated temporary password. The
// password is returned once in the MemberInvited event so the invite email
// can carry it; it is never stored in plaintext.
func (s *Service) CreateMember(ctx context.Context, organizationID uuid.UUID, email, fullName, role string) (repository.Member, error) {
	if _, ok := validRoles[role]; !ok {
		return repository.Member{}, apperr.Validationf("role must be admin or staff, got %q", role)
	}

	tempPassword, err := token.GenerateRandomToken(tempPasswordBytes)
	if err != nil {
		return repository.Member{}, err
	}

	hash, err := password.Hash(tempPassword)
	if err != nil {
		return repository.Member{}, err
	}

	member, err := s.repo.CreateMember(ctx, organizationID,
		strings.ToLower(strings.TrimSpace(email)), hash, strings.TrimSpace(fullName), role)
	if err != nil {
		if err == repository.ErrEmailTaken {
			return repository.Member{}, apperr.Conflict(err.Error())
		}
		return repository.Member{}, err
	}

	org, err := s.repo.GetOrganization(ctx, organizationID)
	if err != nil {
		return repository.Member{}, err
	}

	s.eventBus.Publish(ctx, events.MemberInvited{
		BaseEvent:        events.NewBaseEvent(),
		OrganizationID:   organizationID,
		OrganizationName: org.Name,
		UserID:           member.ID,
		Email:            member.Email,
		FullName:         member.FullName,
		TempPassword:     tempPassword,
	})

	return member, nil
}

// ChangeMemberRole updates a member's role. Demoting the last admin would
// lock the organization out of admin routes, so that is rejected.
func (s *Service) ChangeMemberRole(ctx context.Context, organizationID, userID uuid.UUID, role string) (repository.Member, error) {
	if _, ok := validRoles[role]; !ok {
		return repository.Member{}, apperr.Validationf("role must be admin or staff, got %q", role)
	}

	if role != "admin" {
		current, err := s.repo.GetMember(ctx, organizationID, userID)
		if err != nil {
			if err == repository.ErrNotFound {
				return repository.Member{}, apperr.NotFound(memberNotFound)
			}
			return repository.Member{}, err
		}
		if current.Role == "admin" {
			admins, err := s.repo.CountAdmins(ctx, organizationID)
			if err != nil {
				return repository.Member{}, err
			}
			if admins <= 1 {
				return repository.Member{}, apperr.Conflict("cannot demote the last admin")
			}
		}
	}

	member, err := s.repo.UpdateMemberRole(ctx, organizationID, userID, role)
	if err == repository.ErrNotFound {
		return repository.Member{}, apperr.NotFound(memberNotFound)
	}
	return member, err
}

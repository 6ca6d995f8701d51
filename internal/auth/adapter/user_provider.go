// Package adapter provides implementations of external interfaces that other domains need.
// The auth domain exposes user lookups here so consumers never touch auth internals.
package adapter

import (
	"context"

	"tourdesk_backend/internal/auth"
	"tourdesk_backend/internal/auth/repository"

	"github.com/google/uuid"
)

// UserProviderAdapter implements auth.UserProvider using the auth repository.
type UserProviderAdapter struct {
	repo *repository.Repository
}

// NewUserProviderAdapter creates a new adapter for providing user info to other domains.
func NewUserProviderAdapter(repo *repository.Repository) *UserProviderAdapter {
	return &UserProviderAdapter{repo: repo}
}

// GetUserByID implements auth.UserProvider.
func (a *UserProviderAdapter) GetUserByID(ctx context.Context, userID uuid.UUID) (auth.Profile, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		return auth.Profile{}, err
	}
	return toProfile(user), nil
}

// GetUsersByIDs implements auth.UserProvider.
func (a *UserProviderAdapter) GetUsersByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]auth.Profile, error) {
	users, err := a.repo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	profiles := make(map[uuid.UUID]auth.Profile, len(users))
	for _, user := range users {
		profiles[user.ID] = toProfile(user)
	}
	return profiles, nil
}

func toProfile(user repository.User) auth.Profile {
	return auth.Profile{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// Ensure UserProviderAdapter implements auth.UserProvider
var _ auth.UserProvider = (*UserProviderAdapter)(nil)

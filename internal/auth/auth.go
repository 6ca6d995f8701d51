// Package auth provides authentication and authorization functionality.
// This file defines the public API of the auth bounded context.
// Only types and interfaces defined here should be imported by other domains.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Roles assignable to users. Admins manage members, pricing defaults and
// accounting exports; staff work quotations and invoices.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	FullName       string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserProvider is an interface that other domains can use to get user information.
// This abstracts authentication details from other bounded contexts.
type UserProvider interface {
	// GetUserByID returns basic user information needed by other domains.
	GetUserByID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// GetUsersByIDs returns user information for multiple users at once.
	GetUsersByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Profile, error)
}

// Package identity provides the identity and tenancy bounded context API.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Settings is the organization configuration other domains price and bill with.
type Settings struct {
	OrganizationID   uuid.UUID
	Name             string
	BaseCurrency     string
	DefaultMarkupBps int32
	DefaultTaxBps    int32
	IBAN             *string
	Email            *string
}

// SettingsProvider exposes organization settings to other domains.
// Other domains should depend on this interface, not on concrete implementations.
type SettingsProvider interface {
	// GetSettings returns the pricing and billing settings of an organization.
	GetSettings(ctx context.Context, organizationID uuid.UUID) (Settings, error)
}

// Package adapter exposes identity data through the interfaces other
// domains consume, keeping them off identity internals.
package adapter

import (
	"context"

	"tourdesk_backend/internal/identity"
	"tourdesk_backend/internal/identity/service"

	"github.com/google/uuid"
)

// SettingsProviderAdapter implements identity.SettingsProvider on top of the
// identity service.
type SettingsProviderAdapter struct {
	svc *service.Service
}

func NewSettingsProviderAdapter(svc *service.Service) *SettingsProviderAdapter {
	return &SettingsProviderAdapter{svc: svc}
}

// GetSettings implements identity.SettingsProvider.
func (a *SettingsProviderAdapter) GetSettings(ctx context.Context, organizationID uuid.UUID) (identity.Settings, error) {
	org, err := a.svc.GetOrganization(ctx, organizationID)
	if err != nil {
		return identity.Settings{}, err
	}

	return identity.Settings{
		OrganizationID:   org.ID,
		Name:             org.Name,
		BaseCurrency:     org.BaseCurrency,
		DefaultMarkupBps: org.DefaultMarkupBps,
		DefaultTaxBps:    org.DefaultTaxBps,
		IBAN:             org.IBAN,
		Email:            org.Email,
	}, nil
}

// Ensure SettingsProviderAdapter implements identity.SettingsProvider
var _ identity.SettingsProvider = (*SettingsProviderAdapter)(nil)

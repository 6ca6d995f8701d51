package adapters

import (
	"context"

	agentsvc "tourdesk_backend/internal/agents/service"
	invsvc "tourdesk_backend/internal/invoices/service"

	"github.com/google/uuid"
)

// AgentContactsAdapter implements invoices/service.AgentDirectory on top of
// the agents service. Agencies without an email come back with an empty
// address; the notification layer skips those.
type AgentContactsAdapter struct {
	agents *agentsvc.Service
}

// NewAgentContactsAdapter creates a new adapter.
func NewAgentContactsAdapter(agents *agentsvc.Service) *AgentContactsAdapter {
	return &AgentContactsAdapter{agents: agents}
}

func (a *AgentContactsAdapter) ContactByID(ctx context.Context, organizationID, agentID uuid.UUID) (invsvc.AgentContact, error) {
	agent, err := a.agents.GetByID(ctx, agentID, organizationID)
	if err != nil {
		return invsvc.AgentContact{}, err
	}
	contact := invsvc.AgentContact{Name: agent.Name}
	if agent.Email != nil {
		contact.Email = *agent.Email
	}
	return contact, nil
}

var _ invsvc.AgentDirectory = (*AgentContactsAdapter)(nil)

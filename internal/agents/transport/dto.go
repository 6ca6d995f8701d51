package transport

import "time"

type CreateAgentRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Country     *string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAgentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Country     *string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

type AgentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contact_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Country     *string   `json:"country,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListAgentsResponse struct {
	Items      []AgentResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

package transport

import "time"

type UpdateOrganizationRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2,max=200"`
	BaseCurrency     *string  `json:"base_currency" validate:"omitempty,currency"`
	DefaultMarkupPct *float64 `json:"default_markup_pct" validate:"omitempty,gte=0,lte=1000"`
	DefaultTaxPct    *float64 `json:"default_tax_pct" validate:"omitempty,gte=0,lte=100"`
	IBAN             *string  `json:"iban" validate:"omitempty,iban"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Phone            *string  `json:"phone" validate:"omitempty,max=32"`
	Address          *string  `json:"address" validate:"omitempty,max=500"`
}

type OrganizationResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	BaseCurrency     string    `json:"base_currency"`
	DefaultMarkupPct float64   `json:"default_markup_pct"`
	DefaultTaxPct    float64   `json:"default_tax_pct"`
	IBAN             *string   `json:"iban,omitempty"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Address          *string   `json:"address,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CreateMemberRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin staff"`
}

type MemberResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

package handler

import (
	"net/http"

	"tourdesk_backend/internal/identity/repository"
	"tourdesk_backend/internal/identity/service"
	"tourdesk_backend/internal/identity/transport"
	"tourdesk_backend/internal/money"
	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts organization routes readable by any member.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/organization", h.GetOrganization)
	rg.GET("/organization/members", h.ListMembers)
}

// RegisterAdminRoutes mounts the admin-only mutation routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/organization", h.UpdateOrganization)
	rg.POST("/organization/members", h.CreateMember)
	rg.PATCH("/organization/members/:id/role", h.ChangeMemberRole)
}

func (h *Handler) GetOrganization(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	org, err := h.svc.GetOrganization(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toOrganizationResponse(org))
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	var req transport.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	params := repository.UpdateOrganizationParams{
		Name:         req.Name,
		BaseCurrency: req.BaseCurrency,
		IBAN:         req.IBAN,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if req.DefaultMarkupPct != nil {
		bps := money.PercentToBps(*req.DefaultMarkupPct)
		params.DefaultMarkupBps = &bps
	}
	if req.DefaultTaxPct != nil {
		bps := money.PercentToBps(*req.DefaultTaxPct)
		params.DefaultTaxBps = &bps
	}

	org, err := h.svc.UpdateOrganization(c.Request.Context(), tenantID, params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toOrganizationResponse(org))
}

func (h *Handler) ListMembers(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	httpkit.OK(c, gin.H{"members": out})
}

func (h *Handler) CreateMember(c *gin.Context) {
	var req transport.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	member, err := h.svc.CreateMember(c.Request.Context(), tenantID, req.Email, req.FullName, req.Role)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toMemberResponse(member))
}

func (h *Handler) ChangeMemberRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	member, err := h.svc.ChangeMemberRole(c.Request.Context(), tenantID, userID, req.Role)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toMemberResponse(member))
}

func mustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, false
	}
	return *tenantID, true
}

func toOrganizationResponse(org repository.Organization) transport.OrganizationResponse {
	return transport.OrganizationResponse{
		ID:               org.ID.String(),
		Name:             org.Name,
		BaseCurrency:     org.BaseCurrency,
		DefaultMarkupPct: money.BpsToPercent(org.DefaultMarkupBps),
		DefaultTaxPct:    money.BpsToPercent(org.DefaultTaxBps),
		IBAN:             org.IBAN,
		Email:            org.Email,
		Phone:            org.Phone,
		Address:          org.Address,
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	}
}

func toMemberResponse(m repository.Member) transport.MemberResponse {
	return transport.MemberResponse{
		ID:        m.ID.String(),
		Email:     m.Email,
		FullName:  m.FullName,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

package handler

import (
	"net/http"
	"strconv"

	"tourdesk_backend/internal/agents/repository"
	"tourdesk_backend/internal/agents/service"
	"tourdesk_backend/internal/agents/transport"
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

// RegisterRoutes registers the agent routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAgentRequest
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

	agent, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		OrganizationID: tenantID,
		Name:           req.Name,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		Country:        req.Country,
		Notes:          req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toAgentResponse(agent))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	agent, err := h.svc.GetByID(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toAgentResponse(agent))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateAgentRequest
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

	agent, err := h.svc.Update(c.Request.Context(), repository.UpdateParams{
		ID:             id,
		OrganizationID: tenantID,
		Name:           req.Name,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		Country:        req.Country,
		Notes:          req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toAgentResponse(agent))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.svc.List(c.Request.Context(), repository.ListParams{
		OrganizationID: tenantID,
		Search:         c.Query("search"),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
		Page:           page,
		PageSize:       pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.AgentResponse, 0, len(result.Items))
	for _, agent := range result.Items {
		items = append(items, toAgentResponse(agent))
	}

	httpkit.OK(c, transport.ListAgentsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
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

func toAgentResponse(agent repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:          agent.ID.String(),
		Name:        agent.Name,
		ContactName: agent.ContactName,
		Email:       agent.Email,
		Phone:       agent.Phone,
		Country:     agent.Country,
		Notes:       agent.Notes,
		CreatedAt:   agent.CreatedAt,
		UpdatedAt:   agent.UpdatedAt,
	}
}

package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tourdesk_backend/platform/httpkit"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type EntryResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	ActorID        string  `json:"actor_id"`
	Action         string  `json:"action"`
	Method         string  `json:"method"`
	Path           string  `json:"path"`
	EntityType     *string `json:"entity_type"`
	EntityID       *string `json:"entity_id"`
	Status         int     `json:"status"`
	LatencyMs      int64   `json:"latency_ms"`
	RequestID      string  `json:"request_id"`
	CreatedAt      string  `json:"created_at"`
}

type ListEntriesResponse struct {
	Items      []EntryResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ListEntries returns the organization's audit log, newest first.
func (h *Handler) ListEntries(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	if id.TenantID() == nil {
		httpkit.ErrorCode(c, http.StatusForbidden, "FORBIDDEN", "no organization context")
		return
	}

	result, err := h.repo.List(c.Request.Context(), ListParams{
		OrganizationID: *id.TenantID(),
		Action:         c.Query("action"),
		Page:           intQuery(c, "page"),
		PageSize:       intQuery(c, "page_size"),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	items := make([]EntryResponse, 0, len(result.Items))
	for _, e := range result.Items {
		items = append(items, toEntryResponse(e))
	}
	httpkit.OK(c, ListEntriesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func toEntryResponse(e Entry) EntryResponse {
	var entityID *string
	if e.EntityID != nil {
		s := e.EntityID.String()
		entityID = &s
	}
	return EntryResponse{
		ID:             e.ID.String(),
		OrganizationID: e.OrganizationID.String(),
		ActorID:        e.ActorID.String(),
		Action:         e.Action,
		Method:         e.Method,
		Path:           e.Path,
		EntityType:     e.EntityType,
		EntityID:       entityID,
		Status:         e.Status,
		LatencyMs:      e.LatencyMs,
		RequestID:      e.RequestID,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

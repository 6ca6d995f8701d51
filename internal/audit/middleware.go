package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/logger"
)

// Recorder writes audit entries without blocking the request that
// produced them. Wait must be called on shutdown so in-flight writes
// finish before the database pool closes.
type Recorder struct {
	repo *Repository
	log  *logger.Logger
	wg   sync.WaitGroup
}

func NewRecorder(repo *Repository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Middleware records every authenticated mutating request after the
// handler chain has produced a response. Reads and anonymous traffic
// are not recorded.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutation(c.Request.Method) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		id := httpkit.GetIdentity(c)
		if !id.IsAuthenticated() || id.TenantID() == nil {
			return
		}

		entityType, entityID := entityHint(c)
		entry := Entry{
			ID:             uuid.New(),
			OrganizationID: *id.TenantID(),
			ActorID:        id.UserID(),
			Action:         c.Request.Method + " " + routePath(c),
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			EntityType:     entityType,
			EntityID:       entityID,
			Status:         c.Writer.Status(),
			LatencyMs:      time.Since(start).Milliseconds(),
			RequestID:      c.GetString(httpkit.ContextRequestIDKey),
		}

		detached := context.WithoutCancel(c.Request.Context())
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.log.Error("panic in audit writer", "panic", rec, "action", entry.Action)
				}
			}()
			if err := r.repo.Insert(detached, entry); err != nil {
				r.log.Warn("failed to record audit entry",
					"action", entry.Action,
					"actor_id", entry.ActorID,
					"error", err)
			}
		}()
	}
}

// Wait blocks until all pending audit writes have completed.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func isMutation(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// routePath prefers the registered route template over the raw URL so
// entries for the same endpoint share one action string.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// entityHint derives the touched resource from the route: the first
// path segment after the version prefix names the entity type, and an
// :id route parameter that parses as a UUID names the entity.
func entityHint(c *gin.Context) (*string, *uuid.UUID) {
	var entityType *string
	for _, segment := range strings.Split(strings.TrimPrefix(routePath(c), "/"), "/") {
		if segment == "" || segment == "api" || segment == "v1" || segment == "admin" {
			continue
		}
		if strings.HasPrefix(segment, ":") || strings.HasPrefix(segment, "*") {
			break
		}
		entityType = &segment
		break
	}

	var entityID *uuid.UUID
	if raw := c.Param("id"); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			entityID = &parsed
		}
	}
	return entityType, entityID
}

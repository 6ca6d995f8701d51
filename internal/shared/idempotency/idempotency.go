// Package idempotency makes money mutations safe to retry. A client sends an
// Idempotency-Key header; the first completed response is cached per tenant
// and endpoint, and any retry with the same key receives the stored response
// byte for byte instead of running the mutation again.
package idempotency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// HeaderKey carries the client-chosen deduplication key.
	HeaderKey = "Idempotency-Key"
	// HeaderReplayed marks a response served from the replay cache.
	HeaderReplayed = "Idempotency-Replayed"

	inflightSuffix = ":inflight"
	inflightTTL    = 2 * time.Minute
	defaultTTL     = 24 * time.Hour
)

// Guard stores completed responses in Redis keyed by tenant, endpoint and
// client key. Records expire after the configured TTL.
type Guard struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func New(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Guard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Guard{rdb: rdb, ttl: ttl, log: log}
}

// record is the cached outcome of a completed request. Only statuses below
// 500 are stored; server faults stay retryable.
type record struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Middleware guards one endpoint. Requests without an Idempotency-Key header
// pass through untouched. A key seen before returns the stored response with
// Idempotency-Replayed set; a key whose first request is still running gets
// 409 Conflict.
func (g *Guard) Middleware(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if g == nil || g.rdb == nil || key == "" {
			c.Next()
			return
		}

		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return
		}
		tenant := identity.TenantID()
		if tenant == nil {
			httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		scope := recordKey(*tenant, endpoint, key)

		if g.replay(c, ctx, scope) {
			return
		}

		acquired, err := g.rdb.SetNX(ctx, scope+inflightSuffix, "1", inflightTTL).Result()
		if err != nil {
			// Cache errors are logged and the request proceeds unguarded.
			g.log.Warn("idempotency cache unavailable", "endpoint", endpoint, "error", err)
			c.Next()
			return
		}
		if !acquired {
			httpkit.Error(c, http.StatusConflict, "a request with this idempotency key is already in progress", nil)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		// The client may have disconnected; the record is stored regardless.
		store := context.WithoutCancel(ctx)

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			g.release(store, scope)
			return
		}

		payload, err := json.Marshal(record{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
		})
		if err == nil {
			err = g.rdb.Set(store, scope, payload, g.ttl).Err()
		}
		if err != nil {
			g.log.Warn("idempotency record not stored", "endpoint", endpoint, "error", err)
		}
		g.release(store, scope)
	}
}

func (g *Guard) replay(c *gin.Context, ctx context.Context, scope string) bool {
	payload, err := g.rdb.Get(ctx, scope).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		g.log.Warn("idempotency lookup failed", "error", err)
		return false
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		g.log.Warn("idempotency record corrupt", "error", err)
		return false
	}

	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Header(HeaderReplayed, "true")
	c.Data(rec.Status, contentType, rec.Body)
	c.Abort()
	return true
}

func (g *Guard) release(ctx context.Context, scope string) {
	if err := g.rdb.Del(ctx, scope+inflightSuffix).Err(); err != nil {
		g.log.Warn("idempotency unlock failed", "error", err)
	}
}

func recordKey(tenantID uuid.UUID, endpoint, key string) string {
	return fmt.Sprintf("idem:%s:%s:%s", tenantID, endpoint, key)
}

// bodyCapture copies everything written to the response so the guard can
// store it for replay.
type bodyCapture struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCapture) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

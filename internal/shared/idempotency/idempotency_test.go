package idempotency

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tourdesk_backend/platform/httpkit"
	"tourdesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestGuard(t *testing.T) (*Guard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, time.Hour, logger.New("test")), mr
}

// testRouter mounts a mutation behind the guard. Every invocation of the
// handler increments calls and returns a unique body, so a replayed
// response is distinguishable from a re-executed one.
func testRouter(guard *Guard, tenantID uuid.UUID, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextTenantIDKey, tenantID)
		c.Next()
	}, guard.Middleware("invoices.payment"), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"sequence": *calls})
	})
	return r
}

func doPost(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(HeaderKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareReplaysStoredResponse(t *testing.T) {
	guard, _ := newTestGuard(t)
	calls := 0
	r := testRouter(guard, uuid.New(), &calls)

	first := doPost(r, "abc-123")
	if first.Code != http.StatusCreated {
		t.Fatalf("first request: got status %d", first.Code)
	}
	if first.Header().Get(HeaderReplayed) != "" {
		t.Fatalf("first request must not be marked replayed")
	}

	second := doPost(r, "abc-123")
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: got status %d", second.Code)
	}
	if second.Header().Get(HeaderReplayed) != "true" {
		t.Fatalf("replay must set %s", HeaderReplayed)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestMiddlewareDistinctKeysRunSeparately(t *testing.T) {
	guard, _ := newTestGuard(t)
	calls := 0
	r := testRouter(guard, uuid.New(), &calls)

	doPost(r, "key-one")
	doPost(r, "key-two")

	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestMiddlewareNoKeyPassesThrough(t *testing.T) {
	guard, _ := newTestGuard(t)
	calls := 0
	r := testRouter(guard, uuid.New(), &calls)

	doPost(r, "")
	doPost(r, "")

	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestMiddlewareInFlightKeyConflicts(t *testing.T) {
	guard, mr := newTestGuard(t)
	calls := 0
	tenantID := uuid.New()
	r := testRouter(guard, tenantID, &calls)

	scope := recordKey(tenantID, "invoices.payment", "busy-key")
	mr.Set(scope+inflightSuffix, "1")

	w := doPost(r, "busy-key")
	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", w.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run while the key is in flight")
	}
}

func TestMiddlewareServerErrorsAreNotCached(t *testing.T) {
	guard, _ := newTestGuard(t)
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextTenantIDKey, uuid.New())
		c.Next()
	}, guard.Middleware("invoices.payment"), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sequence": calls})
	})

	if w := doPost(r, "retry-after-fault"); w.Code != http.StatusInternalServerError {
		t.Fatalf("first request: got status %d", w.Code)
	}
	if w := doPost(r, "retry-after-fault"); w.Code != http.StatusCreated {
		t.Fatalf("retry after server fault: got status %d", w.Code)
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestMiddlewareClientErrorsAreCached(t *testing.T) {
	guard, _ := newTestGuard(t)
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.POST("/pay", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextTenantIDKey, uuid.New())
		c.Next()
	}, guard.Middleware("invoices.payment"), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation"})
	})

	doPost(r, "rejected-once")
	w := doPost(r, "rejected-once")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("replay: got status %d", w.Code)
	}
	if w.Header().Get(HeaderReplayed) != "true" {
		t.Fatalf("rejected mutation must replay, not re-execute")
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestMiddlewareKeysAreTenantScoped(t *testing.T) {
	guard, _ := newTestGuard(t)
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.POST("/pay/:tenant", func(c *gin.Context) {
		tenantID, err := uuid.Parse(c.Param("tenant"))
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextTenantIDKey, tenantID)
		c.Next()
	}, guard.Middleware("invoices.payment"), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"sequence": calls})
	})

	post := func(tenant uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/pay/%s", tenant), strings.NewReader(`{}`))
		req.Header.Set(HeaderKey, "shared-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	post(uuid.New())
	w := post(uuid.New())

	if w.Header().Get(HeaderReplayed) != "" {
		t.Fatalf("a key from another tenant must not replay")
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

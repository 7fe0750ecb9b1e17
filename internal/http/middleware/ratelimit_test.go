package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	// IP fallback when no userID
	key := KeyByUserOrIP()(c)
	if !strings.HasPrefix(key, "ip:") || !strings.Contains(key, "203.0.113.9") {
		t.Fatalf("expected ip-based key; got %q", key)
	}

	// Prefer userID when present
	c.Set("userID", "u123")
	if key2 := KeyByUserOrIP()(c); key2 != "user:u123" {
		t.Fatalf("expected user-based key; got %q", key2)
	}
}

func TestNewRateLimiterBurstCoercionAndReuse(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, KeyByUserOrIP()) // burst<=0 coerced to 1
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}

	lim := rl.getVisitor("k1")
	if lim == nil {
		t.Fatalf("expected limiter")
	}
	if got := rl.getVisitor("k1"); got != lim {
		t.Fatalf("expected same limiter instance to be reused")
	}
}

func TestRateLimiterOpportunisticGC(t *testing.T) {
	rl := NewRateLimiter(1.0, 1, KeyByUserOrIP())
	rl.ttl = 1 * time.Nanosecond

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{
		limiter:  rate.NewLimiter(1, 1),
		lastSeen: time.Now().Add(-time.Hour),
	}
	// Next lookup crosses the sweep threshold.
	rl.cleanupN = 4999
	rl.mu.Unlock()

	_ = rl.getVisitor("new")

	rl.mu.Lock()
	_, existsOld := rl.visitors["old"]
	_, existsNew := rl.visitors["new"]
	rl.mu.Unlock()

	if existsOld {
		t.Fatalf("expected 'old' visitor to be evicted")
	}
	if !existsNew {
		t.Fatalf("expected 'new' visitor to be created")
	}
}

func TestRateLimiterHandlerAllowAndDeny(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// rps=1, burst=1 -> first immediate request allowed, second denied
	rl := NewRateLimiter(1.0, 1, KeyByUserOrIP())

	r := gin.New()
	r.Use(RequestID())
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	mk := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = net.JoinHostPort("203.0.113.7", "40000")
		r.ServeHTTP(w, req)
		return w
	}

	if w := mk(); w.Code != http.StatusOK {
		t.Fatalf("first request: %d; want 200", w.Code)
	}

	w2 := mk()
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d; want 429", w2.Code)
	}
	if w2.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After: 1")
	}
	var body map[string]string
	if err := json.Unmarshal(w2.Body.Bytes(), &body); err != nil {
		t.Fatalf("429 body not JSON: %v", err)
	}
	if body["code"] != "rate_limited" {
		t.Fatalf("code = %q; want rate_limited", body["code"])
	}
	if body["request_id"] == "" {
		t.Fatalf("expected request_id in 429 body")
	}
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1.0, 1, KeyByUserOrIP())
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	mk := func(user string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = net.JoinHostPort("203.0.113.7", "40000")
		if user != "" {
			// Simulate upstream identity resolution.
			rr := gin.New()
			rr.Use(func(c *gin.Context) { c.Set("userID", user) })
			rr.Use(rl.Handler())
			rr.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
			rr.ServeHTTP(w, req)
			return w
		}
		r.ServeHTTP(w, req)
		return w
	}

	// Exhaust alice's bucket; bob's stays full.
	if w := mk("alice"); w.Code != http.StatusOK {
		t.Fatalf("alice first: %d", w.Code)
	}
	if w := mk("alice"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("alice second: %d; want 429", w.Code)
	}
	if w := mk("bob"); w.Code != http.StatusOK {
		t.Fatalf("bob first: %d; want 200", w.Code)
	}
}

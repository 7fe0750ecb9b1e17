package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-habit-backend/internal/config"
	"github.com/tbourn/go-habit-backend/internal/repo"
	"github.com/tbourn/go-habit-backend/internal/timezone"
)

func newRouterDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routerdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := repo.SeedPlans(db); err != nil {
		t.Fatalf("seed plans: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:        "/api/v1",
		RateRPS:            100,
		RateBurst:          100,
		FreeTierHabitLimit: 1,
		DefaultTimezone:    "UTC",
		CORS:               config.CORSConfig{AllowedOrigins: nil}, // AllowAllOrigins branch
		Security:           config.SecurityConfig{EnableHSTS: false},
		OTEL:               config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newTestRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newRouterDB(t)
	tz := timezone.NewService(cfg.DefaultTimezone, cfg.DefaultClosureHour)
	RegisterRoutes(r, db, tz, cfg)
	return r
}

func TestRegisterRoutesHealthMetricsAndFallbacks(t *testing.T) {
	r := newTestRouter(t, testConfig())

	// Health
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/health: %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected ACAO * with no configured origins")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	// Metrics
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics: %d", w.Code)
	}

	// NoRoute fallback returns the JSON envelope.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("/nope: %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("404 body not JSON: %v", err)
	}
	if body["code"] != "not_found" {
		t.Fatalf("404 code = %q", body["code"])
	}

	// NoMethod fallback.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE /health: %d", w.Code)
	}
}

func TestRegisterRoutesCORSAllowlist(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}
	r := newTestRouter(t, cfg)

	// Allowed origin echoed.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("ACAO = %q", got)
	}

	// Unlisted origin not echoed.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "https://evil.example.com" {
		t.Fatalf("unlisted origin echoed")
	}
}

func TestRegisterRoutesEndToEndHabitFlow(t *testing.T) {
	r := newTestRouter(t, testConfig())

	post := func(path string, payload any, user string) *httptest.ResponseRecorder {
		b, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Create a habit through the mounted API base path.
	w := post("/api/v1/habits", gin.H{"titulo": "Correr", "tipo": "hacer"}, "ana")
	if w.Code != http.StatusCreated {
		t.Fatalf("create habit: %d (%s)", w.Code, w.Body.String())
	}
	var habit map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &habit); err != nil {
		t.Fatalf("habit body: %v", err)
	}
	id, _ := habit["id"].(string)
	if id == "" {
		t.Fatalf("habit id missing: %v", habit)
	}

	// Record today's success and read the streak back.
	if w := post("/api/v1/habits/"+id+"/entries", gin.H{"estado": "exito"}, "ana"); w.Code != http.StatusCreated {
		t.Fatalf("record entry: %d (%s)", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/"+id+"/streak", nil)
	req.Header.Set("X-User-ID", "ana")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("streak: %d", w.Code)
	}
	var sum map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("streak body: %v", err)
	}
	if sum["actual"] != 1 || sum["mejor"] != 1 {
		t.Fatalf("streak = %v; want actual 1 mejor 1", sum)
	}
}

func TestRegisterRoutesRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 1
	cfg.RateBurst = 1
	r := newTestRouter(t, cfg)

	hit := func() int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-User-ID", "ana")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit(); code != http.StatusOK {
		t.Fatalf("first hit: %d", code)
	}
	start := time.Now()
	if code := hit(); code != http.StatusTooManyRequests {
		// A slow CI machine may replenish the bucket; only fail when the
		// second hit was immediate.
		if time.Since(start) < 500*time.Millisecond {
			t.Fatalf("second hit: %d; want 429", code)
		}
	}
}

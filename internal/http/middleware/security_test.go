package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveWithSecurity(t *testing.T, opt SecurityOptions, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(opt))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeadersBaseline(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{}, nil)

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing X-Frame-Options")
	}
	if h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("missing Referrer-Policy")
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be emitted when disabled")
	}
	if h.Get("Permissions-Policy") != "" {
		t.Fatalf("policy headers must be opt-in")
	}
}

func TestSecurityHeadersPolicyAndNoStore(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{EnablePolicy: true, NoStore: true}, nil)

	h := w.Header()
	if !strings.Contains(h.Get("Permissions-Policy"), "geolocation=()") {
		t.Fatalf("missing Permissions-Policy")
	}
	if h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("missing cross-domain policy header")
	}
	if h.Get("Cache-Control") != "no-store" {
		t.Fatalf("missing Cache-Control: no-store")
	}
}

func TestSecurityHeadersHSTSOnlyOverHTTPS(t *testing.T) {
	opt := SecurityOptions{EnableHSTS: true, HSTSMaxAge: 365 * 24 * time.Hour}

	// Plain HTTP: no HSTS.
	w := serveWithSecurity(t, opt, nil)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS emitted for plain HTTP")
	}

	// Forwarded HTTPS: HSTS with the configured max-age.
	w2 := serveWithSecurity(t, opt, func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
	})
	hsts := w2.Header().Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") || !strings.Contains(hsts, "includeSubDomains") {
		t.Fatalf("unexpected HSTS value: %q", hsts)
	}
}

func TestSecurityHeadersExposeRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(SecurityHeaders(SecurityOptions{}))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Request-ID") {
		t.Fatalf("X-Request-ID not exposed, got %q", got)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", 15552000: "15552000", -42: "-42"}
	for in, want := range cases {
		if got := itoa(in); got != want {
			t.Fatalf("itoa(%d) = %q; want %q", in, got, want)
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityResolvesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	r.GET("/me", func(c *gin.Context) {
		v, _ := c.Get("userID")
		s, _ := v.(string)
		c.String(http.StatusOK, s)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", "  clerk_abc  ")
	r.ServeHTTP(w, req)

	if w.Body.String() != "clerk_abc" {
		t.Fatalf("userID = %q; want clerk_abc", w.Body.String())
	}
}

func TestIdentityAnonymousWithoutHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	r.GET("/me", func(c *gin.Context) {
		if _, ok := c.Get("userID"); ok {
			t.Fatalf("userID must not be set without the header")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

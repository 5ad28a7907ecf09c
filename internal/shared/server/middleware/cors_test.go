package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCORSRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins))
	r.POST("/api/analyze", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/api/check-limit", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"allowed": true}) })
	return r
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name        string
		origins     []string
		method      string
		path        string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"preflight", []string{"http://localhost:3000"}, http.MethodOptions, "/api/analyze", "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"post", []string{" http://localhost:3000 "}, http.MethodPost, "/api/analyze", "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"wildcard", []string{"*"}, http.MethodGet, "/api/check-limit", "https://app.example", http.StatusOK, "https://app.example"},
		{"unknown origin", []string{"http://localhost:3000"}, http.MethodGet, "/api/check-limit", "https://evil.example", http.StatusOK, ""},
		{"no origin", []string{"*"}, http.MethodGet, "/api/check-limit", "", http.StatusOK, ""},
		{"preflight from unknown origin", nil, http.MethodOptions, "/api/analyze", "https://evil.example", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newCORSRouter(tc.origins...)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			h := w.Header()
			if got := h.Get("Access-Control-Allow-Origin"); got != tc.wantAllowed {
				t.Fatalf("expected Allow-Origin %q, got %q", tc.wantAllowed, got)
			}
			if tc.wantAllowed == "" {
				return
			}
			if h.Get("Access-Control-Allow-Methods") == "" || h.Get("Access-Control-Allow-Headers") == "" {
				t.Fatalf("expected method and header lists, got %v", h)
			}
			if got := h.Get("Access-Control-Max-Age"); got != "600" {
				t.Fatalf("expected Max-Age 600, got %q", got)
			}
			if got := h.Get("Access-Control-Expose-Headers"); got != corsExpose {
				t.Fatalf("expected exposed headers %q, got %q", corsExpose, got)
			}
		})
	}
}

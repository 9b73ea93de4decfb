package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func authRouter(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(ErrorMapper())
	r.Use(APIKeyAuth(key))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	r := authRouter("s3cret")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(apiKeyHeader, "s3cret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid key rejected: %d", w.Code)
	}
}

func TestAPIKeyAuth_MissingAndWrongKey(t *testing.T) {
	r := authRouter("s3cret")

	for _, set := range []string{"", "wrong"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		if set != "" {
			req.Header.Set(apiKeyHeader, set)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("key %q: status = %d, want 401", set, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body["code"] != "unauthorized" {
			t.Fatalf("unexpected body: %v", body)
		}
		// Rendered by the mapper, so the canonical envelope fields are there.
		if body["request_id"] == "" || body["message"] == "" {
			t.Fatalf("incomplete envelope: %v", body)
		}
	}
}

func TestAPIKeyAuth_DisabledWhenUnconfigured(t *testing.T) {
	r := authRouter("")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("auth must be disabled with empty key, got %d", w.Code)
	}
}

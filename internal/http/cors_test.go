package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateCORSMiddleware(t *testing.T) {
	t.Run("Disabled returns nil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(false, "https://example.com", testLogger()))
	})

	t.Run("Enabled without origins returns nil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(true, "", testLogger()))
	})

	t.Run("Enabled with origins returns middleware", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "https://app.example.com,https://admin.example.com", testLogger())
		assert.NotNil(t, middleware)
	})
}

func TestParseOrigins(t *testing.T) {
	t.Run("Comma separated with whitespace", func(t *testing.T) {
		origins := parseOrigins(" https://app.example.com , https://admin.example.com ")
		assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, origins)
	})

	t.Run("Empty string", func(t *testing.T) {
		assert.Nil(t, parseOrigins(""))
	})

	t.Run("Only separators", func(t *testing.T) {
		assert.Empty(t, parseOrigins(" , ,"))
	})
}

func TestCORSIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(middleware gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		if middleware != nil {
			router.Use(middleware)
		}
		router.POST("/v1/users/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	t.Run("Allowed origin gets CORS headers", func(t *testing.T) {
		router := newRouter(createCORSMiddleware(true, "https://app.example.com", testLogger()))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
		req.Header.Set("Origin", "https://app.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight advertises credential headers", func(t *testing.T) {
		router := newRouter(createCORSMiddleware(true, "https://app.example.com", testLogger()))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/users/login", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "X-API-Key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		allowHeaders := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
		assert.Contains(t, allowHeaders, "x-api-key")
		assert.Contains(t, allowHeaders, "x-app-key")
	})

	t.Run("Disallowed origin gets no CORS headers", func(t *testing.T) {
		router := newRouter(createCORSMiddleware(true, "https://app.example.com", testLogger()))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupTenantRouter(cfg TenantConfig) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(cfg))

	var captured string
	router.GET("/api/v1/balances", func(c *gin.Context) {
		captured = GetTenantID(c)
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, &captured
}

func TestTenantMiddleware(t *testing.T) {
	tenantID := uuid.NewString()

	t.Run("extracts tenant from header", func(t *testing.T) {
		router, captured := setupTenantRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)
		req.Header.Set(TenantHeaderKey, tenantID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, *captured)
	})

	t.Run("rejects missing tenant when required", func(t *testing.T) {
		router, _ := setupTenantRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("rejects malformed tenant id", func(t *testing.T) {
		router, _ := setupTenantRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router, _ := setupTenantRouter(DefaultTenantConfig())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional middleware passes without tenant", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.Required = false
		router, captured := setupTenantRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, *captured)
	})
}

func TestGetTenantUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("parses stored tenant id", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		id := uuid.New()
		c.Set(TenantIDKey, id.String())

		got, err := GetTenantUUID(c)
		assert.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("returns nil uuid when unset", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		got, err := GetTenantUUID(c)
		assert.NoError(t, err)
		assert.Equal(t, uuid.Nil, got)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse/backend/internal/infrastructure/auth"
	"github.com/pulse/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-bytes-long!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "pulse-test",
		MaxRefreshCount:        10,
	})
}

func issueAccessToken(t *testing.T, svc *auth.JWTService, tenantID, userID uuid.UUID) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Email:    "owner@agency.test",
		Role:     "admin",
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func serveAuthed(jwtSvc *auth.JWTService, req *http.Request) (*httptest.ResponseRecorder, *gin.Context) {
	var captured *gin.Context
	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtSvc))
	router.GET("/api/v1/clients", func(c *gin.Context) {
		captured = c.Copy()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, captured
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtSvc := newTestJWTService()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("valid token populates the tenant and user context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueAccessToken(t, jwtSvc, tenantID, userID))

		w, captured := serveAuthed(jwtSvc, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, tenantID.String(), GetJWTTenantID(captured))
		assert.Equal(t, userID.String(), GetJWTUserID(captured))
		assert.Equal(t, "admin", GetJWTRole(captured))
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		w, _ := serveAuthed(jwtSvc, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-jwt")
		w, _ := serveAuthed(jwtSvc, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:                 "another-secret-also-32-bytes-long!!",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "pulse-test",
			MaxRefreshCount:        10,
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueAccessToken(t, other, tenantID, userID))
		w, _ := serveAuthed(jwtSvc, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip paths pass without a token", func(t *testing.T) {
		router := gin.New()
		router.Use(JWTAuthMiddleware(jwtSvc))
		router.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTenantMiddleware(t *testing.T) {
	tenantID := uuid.New()

	serve := func(cfg TenantMiddlewareConfig, req *http.Request) (*httptest.ResponseRecorder, *gin.Context) {
		var captured *gin.Context
		router := gin.New()
		router.Use(TenantMiddlewareWithConfig(cfg))
		router.GET("/api/v1/clients", func(c *gin.Context) {
			captured = c.Copy()
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w, captured
	}

	t.Run("jwt claim wins over the header", func(t *testing.T) {
		var captured *gin.Context
		router := gin.New()
		router.Use(func(c *gin.Context) { c.Set(JWTTenantIDKey, tenantID.String()) })
		router.Use(TenantMiddleware())
		router.GET("/api/v1/clients", func(c *gin.Context) {
			captured = c.Copy()
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(TenantHeaderKey, uuid.NewString())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, tenantID.String(), GetTenantID(captured))
	})

	t.Run("header extraction", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())

		w, captured := serve(DefaultTenantConfig(), req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String(), GetTenantID(captured))
	})

	t.Run("rejects a non-uuid tenant id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(TenantHeaderKey, "acme")

		w, _ := serve(DefaultTenantConfig(), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("required tenant missing", func(t *testing.T) {
		w, _ := serve(DefaultTenantConfig(), httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("optional mode lets the request through", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.Required = false
		w, captured := serve(cfg, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, GetTenantID(captured))
	})
}

func TestRateLimit(t *testing.T) {
	serve := func(handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(handler)
		router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("blocks past the limit within a window", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)
		mw := RateLimit(limiter)

		for i := 0; i < 2; i++ {
			w := serve(mw, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
		w := serve(mw, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("auth limiter keeps separate counters and sets Retry-After", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		authMW := AuthRateLimit(limiter)
		globalMW := RateLimit(limiter)

		// exhaust the auth bucket
		w := serve(authMW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		w = serve(authMW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")

		// the auth: prefix leaves the global bucket for the same IP untouched
		w = serve(globalMW, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("remaining resets after the window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 10*time.Millisecond)
		require.True(t, limiter.Allow("10.0.0.1"))
		require.False(t, limiter.Allow("10.0.0.1"))

		time.Sleep(20 * time.Millisecond)
		assert.True(t, limiter.Allow("10.0.0.1"))
	})
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/auth"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (v *fakeValidator) ValidateAccess(_ context.Context, _ string) (*auth.Claims, error) {
	return v.claims, v.err
}

func newAuthRouter(validator AccessValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(validator))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetAuthUsername(c), "role": GetAuthRole(c)})
	})
	router.DELETE("/users/:id", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuth_MissingHeader(t *testing.T) {
	router := newAuthRouter(&fakeValidator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuth_ExpiredToken(t *testing.T) {
	router := newAuthRouter(&fakeValidator{err: auth.ErrExpiredToken})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestAuth_RevokedToken(t *testing.T) {
	router := newAuthRouter(&fakeValidator{err: auth.ErrTokenBlacklisted})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestAuth_SetsIdentityInContext(t *testing.T) {
	router := newAuthRouter(&fakeValidator{claims: &auth.Claims{
		UserID:   "3f29f3b0-6a53-4c89-9e3a-000000000001",
		Username: "operator1",
		Role:     "operator",
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "operator1")
}

func TestRequireRole_Forbidden(t *testing.T) {
	router := newAuthRouter(&fakeValidator{claims: &auth.Claims{
		UserID:   "3f29f3b0-6a53-4c89-9e3a-000000000001",
		Username: "viewer1",
		Role:     "viewer",
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/abc", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	router := newAuthRouter(&fakeValidator{claims: &auth.Claims{
		UserID:   "3f29f3b0-6a53-4c89-9e3a-000000000001",
		Username: "admin1",
		Role:     "admin",
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/abc", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit_Blocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2, time.Minute)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiry)},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAdminEngine(secret string) *gin.Engine {
	engine := gin.New()
	engine.POST("/shutdown/:graceful", adminAuth(secret), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return engine
}

func TestAdminAuthDisabledWithEmptySecret(t *testing.T) {
	engine := newAdminEngine("")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shutdown/true", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	engine := newAdminEngine("s3cret")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shutdown/true", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsWrongSecret(t *testing.T) {
	engine := newAdminEngine("s3cret")
	req := httptest.NewRequest(http.MethodPost, "/shutdown/true", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong", time.Now().Add(time.Hour)))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	engine := newAdminEngine("s3cret")
	req := httptest.NewRequest(http.MethodPost, "/shutdown/true", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", time.Now().Add(time.Hour)))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminAuthRejectsExpiredToken(t *testing.T) {
	engine := newAdminEngine("s3cret")
	req := httptest.NewRequest(http.MethodPost, "/shutdown/true", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", time.Now().Add(-time.Hour)))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

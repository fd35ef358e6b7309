package handlers

import (
	"net/http"
	"testing"

	"wajba-server/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestSecret(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	setTestSecret(t)
	c, w := newTestContext(http.MethodGet, "/api/v1/users/profile")

	AuthMiddleware()(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	setTestSecret(t)
	c, w := newTestContext(http.MethodGet, "/api/v1/users/profile")
	c.Request.Header.Set("Authorization", "Token abc")

	AuthMiddleware()(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	setTestSecret(t)
	c, w := newTestContext(http.MethodGet, "/api/v1/users/profile")
	c.Request.Header.Set("Authorization", "Bearer not-a-jwt")

	AuthMiddleware()(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	setTestSecret(t)
	userID := uuid.New().String()

	token, err := generateJWT(userID, "22345678")
	require.NoError(t, err)

	c, w := newTestContext(http.MethodGet, "/api/v1/users/profile")
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware()(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)

	gotID, exists := c.Get("user_id")
	require.True(t, exists)
	assert.Equal(t, userID, gotID)

	gotPhone, _ := c.Get("user_phone")
	assert.Equal(t, "22345678", gotPhone)
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "secret-a"}
	token, err := generateJWT(uuid.New().String(), "22345678")
	require.NoError(t, err)

	config.AppConfig = &config.Config{JWTSecret: "secret-b"}
	c, w := newTestContext(http.MethodGet, "/api/v1/users/profile")
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware()(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestCurrentUserID(t *testing.T) {
	setTestSecret(t)
	userID := uuid.New()

	c, _ := newTestContext(http.MethodGet, "/")
	c.Set("user_id", userID.String())

	got, ok := currentUserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestCurrentUserIDMissing(t *testing.T) {
	setTestSecret(t)
	c, w := newTestContext(http.MethodGet, "/")

	_, ok := currentUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

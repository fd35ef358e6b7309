package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestResolveCartSessionKeyPrefersHeader(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/v1/cart")
	c.Request.Header.Set(cartSessionHeader, "from-header")
	c.Request.AddCookie(&http.Cookie{Name: cartSessionCookie, Value: "from-cookie"})

	key := resolveCartSessionKey(c, uuid.New())
	assert.Equal(t, "from-header", key)
}

func TestResolveCartSessionKeyFallsBackToCookie(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/v1/cart")
	c.Request.AddCookie(&http.Cookie{Name: cartSessionCookie, Value: "from-cookie"})

	key := resolveCartSessionKey(c, uuid.New())
	assert.Equal(t, "from-cookie", key)
}

func TestResolveCartSessionKeySynthesizes(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/api/v1/cart")
	userID := uuid.New()

	key := resolveCartSessionKey(c, userID)

	require.True(t, strings.HasPrefix(key, "user_"+userID.String()+"_"),
		"synthesized key is bound to the user")

	// Synthesized keys are written back so cookie clients keep them
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cartSessionCookie, cookies[0].Name)
	assert.Equal(t, key, cookies[0].Value)
}

func TestResolveCartSessionKeySynthesizedKeysDiffer(t *testing.T) {
	userID := uuid.New()

	c1, _ := newTestContext(http.MethodGet, "/api/v1/cart")
	c2, _ := newTestContext(http.MethodGet, "/api/v1/cart")

	assert.NotEqual(t, resolveCartSessionKey(c1, userID), resolveCartSessionKey(c2, userID))
}

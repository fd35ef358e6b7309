package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "cart_session"

	// Matches the 7-day session TTL so the cookie and the row age out together
	cartSessionCookieMaxAge = 7 * 24 * 60 * 60
)

// resolveCartSessionKey derives the opaque key identifying the client's
// cart session: explicit header first, then cookie, then a fresh token
// bound to the user. A synthesized key is written back as a cookie so
// cookie-capable clients keep their session across requests.
func resolveCartSessionKey(c *gin.Context, userID uuid.UUID) string {
	if key := c.GetHeader(cartSessionHeader); key != "" {
		return key
	}

	if key, err := c.Cookie(cartSessionCookie); err == nil && key != "" {
		return key
	}

	key := fmt.Sprintf("user_%s_%s", userID, generateRandomString(16))
	c.SetCookie(cartSessionCookie, key, cartSessionCookieMaxAge, "/", "", false, true)
	return key
}

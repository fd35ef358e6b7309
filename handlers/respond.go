package handlers

import (
	"errors"
	"net/http"
	"time"

	"wajba-server/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, true, message, data)
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, true, message, data)
}

func respondError(c *gin.Context, status int, message string) {
	respond(c, status, false, message, nil)
}

func respond(c *gin.Context, status int, success bool, message string, data interface{}) {
	c.JSON(status, APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondServiceError maps cart service errors onto the envelope. Raw
// database errors are logged, never returned.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMerchantNotFound):
		respondError(c, http.StatusNotFound, "Merchant not found")
	case errors.Is(err, services.ErrMenuItemNotFound):
		respondError(c, http.StatusNotFound, "Menu item not found")
	case errors.Is(err, services.ErrCartItemNotFound):
		respondError(c, http.StatusNotFound, "Cart item not found")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

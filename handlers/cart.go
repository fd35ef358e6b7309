package handlers

import (
	"net/http"

	"wajba-server/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// rescheduleReminders refreshes the user's cart reminder pushes off the
// request path; a failure never affects the response.
func rescheduleReminders(userID uuid.UUID) {
	go func() {
		if err := Scheduler.ScheduleCartReminders(userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to reschedule cart reminders")
		}
	}()
}

// GetCart returns the current cart snapshot; an unknown or expired
// session yields an empty one. An optional merchant_id query param
// narrows the lookup to that merchant's session.
func GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionKey := resolveCartSessionKey(c, userID)

	var merchantID *uuid.UUID
	if raw := c.Query("merchant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid merchant ID")
			return
		}
		merchantID = &id
	}

	snap, err := Cart.GetCart(c.Request.Context(), userID, sessionKey, merchantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", snap)
}

// AddToCart handles POST /cart. The only supported action is "add";
// anything else is a validation error.
func AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionKey := resolveCartSessionKey(c, userID)

	var req struct {
		Action              string  `json:"action" binding:"required"`
		MenuItemID          string  `json:"menu_item_id" binding:"required"`
		MerchantID          string  `json:"merchant_id" binding:"required"`
		Quantity            int     `json:"quantity"`
		Customizations      string  `json:"customizations"`
		SpecialInstructions *string `json:"special_instructions"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Action != "add" {
		respondError(c, http.StatusBadRequest, "Invalid action")
		return
	}

	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid menu item ID")
		return
	}
	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid merchant ID")
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	snap, cartItemID, err := Cart.AddItem(c.Request.Context(), userID, sessionKey, merchantID, services.AddItemParams{
		MenuItemID:          menuItemID,
		Quantity:            req.Quantity,
		Customizations:      req.Customizations,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rescheduleReminders(userID)
	respondOK(c, "Item added to cart", gin.H{
		"cartItemId": cartItemID,
		"session":    snap.Session,
		"items":      snap.Items,
		"summary":    snap.Summary,
	})
}

// UpdateCartItem handles PUT /cart. A missing quantity defaults to 1;
// quantity 0 removes the line item.
func UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionKey := resolveCartSessionKey(c, userID)

	var req struct {
		ItemID     string `json:"item_id"`
		CartItemID string `json:"cartItemId"`
		Quantity   *int   `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	itemID, err := parseItemID(req.ItemID, req.CartItemID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Item ID is required")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	snap, err := Cart.UpdateItem(c.Request.Context(), userID, sessionKey, itemID, quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rescheduleReminders(userID)
	respondOK(c, "Cart updated", snap)
}

// RemoveFromCart handles DELETE /cart: removes one line item when an
// item id is supplied, or clears the whole cart when a merchant id is
// supplied instead.
func RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionKey := resolveCartSessionKey(c, userID)

	var req struct {
		ItemID     string `json:"item_id"`
		CartItemID string `json:"cartItemId"`
		MerchantID string `json:"merchant_id"`
	}

	// DELETE bodies are optional; treat an unreadable one as empty
	_ = c.ShouldBindJSON(&req)

	if itemID, err := parseItemID(req.ItemID, req.CartItemID); err == nil {
		snap, err := Cart.RemoveItem(c.Request.Context(), userID, sessionKey, itemID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		rescheduleReminders(userID)
		respondOK(c, "Item removed from cart", snap)
		return
	}

	if req.MerchantID != "" {
		if _, err := uuid.Parse(req.MerchantID); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid merchant ID")
			return
		}
		snap, err := Cart.Clear(c.Request.Context(), userID, sessionKey)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		rescheduleReminders(userID)
		respondOK(c, "Cart cleared", snap)
		return
	}

	respondError(c, http.StatusBadRequest, "Item ID or merchant ID is required")
}

func parseItemID(itemID, cartItemID string) (uuid.UUID, error) {
	raw := itemID
	if raw == "" {
		raw = cartItemID
	}
	return uuid.Parse(raw)
}

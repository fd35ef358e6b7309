package services

import (
	"math"
	"time"

	"wajba-server/models"

	"github.com/google/uuid"
)

// TaxRate is the flat VAT applied to every cart subtotal.
const TaxRate = 0.165

// MaxItemQuantity caps the merge path of repeat adds. Explicit quantity
// updates are deliberately not capped; see UpdateItem.
const MaxItemQuantity = 50

// CartSummary is the computed totals block returned with every cart read.
type CartSummary struct {
	Subtotal      float64 `json:"subtotal"`
	DeliveryFee   float64 `json:"deliveryFee"`
	TaxAmount     float64 `json:"taxAmount"`
	Total         float64 `json:"total"`
	ItemCount     int     `json:"itemCount"`
	MinOrder      float64 `json:"minOrder"`
	MeetsMinOrder bool    `json:"meetsMinOrder"`
}

// MerchantTerms are the pricing inputs taken from the merchant bound to
// a cart session: its delivery fee and minimum order amount.
type MerchantTerms struct {
	DeliveryFee float64
	MinOrder    float64
}

// SessionInfo is the session block of a cart snapshot.
type SessionInfo struct {
	ID           uuid.UUID `json:"id"`
	SessionKey   string    `json:"session_key"`
	MerchantID   uuid.UUID `json:"merchant_id"`
	MerchantName string    `json:"merchant_name"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CartSnapshot is the derived view of a cart: its line items plus the
// recomputed summary. It is never persisted; every read rebuilds it.
type CartSnapshot struct {
	Session *SessionInfo      `json:"session"`
	Items   []models.CartItem `json:"items"`
	Summary CartSummary       `json:"summary"`
}

// Summarize computes the totals for a set of cart lines under the given
// merchant terms. An empty cart yields an all-zero summary that meets
// the minimum order, so clients can always render the block.
func Summarize(items []models.CartItem, terms MerchantTerms) CartSummary {
	if len(items) == 0 {
		return CartSummary{MeetsMinOrder: true}
	}

	var subtotal float64
	var count int
	for _, it := range items {
		subtotal += it.TotalPrice
		count += it.Quantity
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * TaxRate)
	return CartSummary{
		Subtotal:      subtotal,
		DeliveryFee:   terms.DeliveryFee,
		TaxAmount:     tax,
		Total:         round2(subtotal + terms.DeliveryFee + tax),
		ItemCount:     count,
		MinOrder:      terms.MinOrder,
		MeetsMinOrder: subtotal >= terms.MinOrder,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem represents a single product on a merchant's menu
type MenuItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	MerchantID      uuid.UUID `json:"merchant_id" db:"merchant_id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Image           *string   `json:"image,omitempty" db:"image"`
	Price           float64   `json:"price" db:"price"`
	DiscountedPrice *float64  `json:"discounted_price,omitempty" db:"discounted_price"`
	Section         *string   `json:"section,omitempty" db:"section"` // menu section, e.g. "Plats", "Boissons"
	InStock         bool      `json:"in_stock" db:"in_stock"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// EffectivePrice is the price captured into the cart: the discounted
// price when one is set, the list price otherwise.
func (m MenuItem) EffectivePrice() float64 {
	if m.DiscountedPrice != nil && *m.DiscountedPrice > 0 {
		return *m.DiscountedPrice
	}
	return m.Price
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func (MenuItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS menu_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		merchant_id UUID NOT NULL REFERENCES merchants(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT,
		image TEXT,
		price NUMERIC(12,2) NOT NULL,
		discounted_price NUMERIC(12,2),
		section TEXT,
		in_stock BOOLEAN DEFAULT TRUE,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

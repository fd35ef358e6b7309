package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one menu item inside a cart session. Name, description,
// image, price and stock flag are captured at add time so later catalog
// edits don't change an in-progress cart.
type CartItem struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	CartSessionID       uuid.UUID `json:"cart_session_id" db:"cart_session_id"`
	MenuItemID          uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	ItemName            string    `json:"item_name" db:"item_name"`
	ItemDescription     *string   `json:"item_description,omitempty" db:"item_description"`
	ItemImage           *string   `json:"item_image,omitempty" db:"item_image"`
	Quantity            int       `json:"quantity" db:"quantity"`
	UnitPrice           float64   `json:"unit_price" db:"unit_price"`
	TotalPrice          float64   `json:"total_price" db:"total_price"`
	Customizations      string    `json:"customizations" db:"customizations"` // JSONB payload
	SpecialInstructions *string   `json:"special_instructions,omitempty" db:"special_instructions"`
	InStock             bool      `json:"in_stock" db:"in_stock"`
	AddedAt             time.Time `json:"added_at" db:"added_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (CartItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		cart_session_id UUID NOT NULL REFERENCES cart_sessions(id) ON DELETE CASCADE,
		menu_item_id UUID NOT NULL REFERENCES menu_items(id),
		item_name TEXT NOT NULL,
		item_description TEXT,
		item_image TEXT,
		quantity INT NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		unit_price NUMERIC(12,2) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL,
		customizations JSONB NOT NULL DEFAULT '{}',
		special_instructions TEXT,
		in_stock BOOLEAN DEFAULT TRUE,
		added_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE (cart_session_id, menu_item_id)
	);`
}

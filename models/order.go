package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a placed order; this service only reads them back as history.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	MerchantID      uuid.UUID       `json:"merchant_id" db:"merchant_id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	Status          string          `json:"status" db:"status"`
	Subtotal        float64         `json:"subtotal" db:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee" db:"delivery_fee"`
	TaxAmount       float64         `json:"tax_amount" db:"tax_amount"`
	TotalAmount     float64         `json:"total_amount" db:"total_amount"`
	Currency        string          `json:"currency" db:"currency"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" db:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}

// OrderItem is one line of a placed order, denormalized like a cart line.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	MenuItemID uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	ItemName   string    `json:"item_name" db:"item_name"`
	ItemImage  *string   `json:"item_image,omitempty" db:"item_image"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DeliveryAddress is the address snapshot stored on an order.
type DeliveryAddress struct {
	AddressID string   `json:"address_id"`
	City      string   `json:"city"`
	Quartier  string   `json:"quartier"`
	Street    *string  `json:"street,omitempty"`
	Building  *string  `json:"building,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (Order) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		merchant_id UUID NOT NULL REFERENCES merchants(id),
		order_number VARCHAR(50) NOT NULL UNIQUE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivery_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(12,2) NOT NULL,
		currency VARCHAR(3) DEFAULT 'MRU',
		delivery_address JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`
}

func (OrderItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id UUID NOT NULL REFERENCES menu_items(id),
		item_name TEXT NOT NULL,
		item_image TEXT,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`
}

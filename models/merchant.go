package models

import (
	"time"

	"github.com/google/uuid"
)

// Merchant represents a restaurant or grocery store on the platform
type Merchant struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	Logo           *string   `json:"logo,omitempty" db:"logo"`
	CoverImage     *string   `json:"cover_image,omitempty" db:"cover_image"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	City           string    `json:"city" db:"city"`
	Quartier       *string   `json:"quartier,omitempty" db:"quartier"`
	Tags           string    `json:"tags" db:"tags"` // comma-separated search tags
	DeliveryFee    float64   `json:"delivery_fee" db:"delivery_fee"`
	MinOrderAmount float64   `json:"min_order_amount" db:"min_order_amount"`
	Rating         float64   `json:"rating" db:"rating"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (Merchant) TableName() string {
	return "merchants"
}

func (Merchant) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS merchants (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		description TEXT,
		logo TEXT,
		cover_image TEXT,
		phone TEXT,
		city TEXT NOT NULL DEFAULT 'Nouakchott',
		quartier TEXT,
		tags TEXT NOT NULL DEFAULT '',
		delivery_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		min_order_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

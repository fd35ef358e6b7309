package models

import (
	"time"

	"github.com/google/uuid"
)

// AddressBook represents a user's saved delivery address
type AddressBook struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Label     string    `json:"label" db:"label"` // Home, Work, etc.
	City      string    `json:"city" db:"city"`
	Quartier  string    `json:"quartier" db:"quartier"`
	Street    *string   `json:"street,omitempty" db:"street"`
	Building  *string   `json:"building,omitempty" db:"building"`
	Floor     *string   `json:"floor,omitempty" db:"floor"`
	Apartment *string   `json:"apartment,omitempty" db:"apartment"`
	Latitude  *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64  `json:"longitude,omitempty" db:"longitude"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (AddressBook) TableName() string {
	return "address_book"
}

func (AddressBook) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS address_book (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		city TEXT NOT NULL,
		quartier TEXT NOT NULL,
		street TEXT,
		building TEXT,
		floor TEXT,
		apartment TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		is_default BOOLEAN DEFAULT FALSE,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

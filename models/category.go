package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a browse entry on the home screen ("Pizza", "Épicerie", ...).
// SearchTerms holds the comma-separated terms used to match merchants.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	NameAr      *string   `json:"name_ar,omitempty" db:"name_ar"`
	Slug        string    `json:"slug" db:"slug"`
	Icon        *string   `json:"icon,omitempty" db:"icon"`
	SearchTerms string    `json:"search_terms" db:"search_terms"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (Category) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		name_ar TEXT,
		slug TEXT NOT NULL UNIQUE,
		icon TEXT,
		search_terms TEXT NOT NULL DEFAULT '',
		sort_order INTEGER DEFAULT 0,
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_categories_sort ON categories(sort_order);`
}

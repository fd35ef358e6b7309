package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledNotification is a pending cart-reminder push for a user.
type ScheduledNotification struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	Type         string     `json:"type" db:"type"` // "cart-reminder"
	ReminderType string     `json:"reminder_type" db:"reminder_type"` // "6h", "24h"
	MenuItemID   *uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	ItemName     string     `json:"item_name" db:"item_name"`
	ItemImage    string     `json:"item_image" db:"item_image"`
	ItemPrice    float64    `json:"item_price" db:"item_price"`
	ScheduledFor time.Time  `json:"scheduled_for" db:"scheduled_for"`
	Sent         bool       `json:"sent" db:"sent"`
	Cancelled    bool       `json:"cancelled" db:"cancelled"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}

func (ScheduledNotification) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS scheduled_notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(50) NOT NULL CHECK (type IN ('cart-reminder')),
		reminder_type VARCHAR(20) NOT NULL CHECK (reminder_type IN ('6h', '24h')),
		menu_item_id UUID,
		item_name TEXT NOT NULL,
		item_image TEXT NOT NULL DEFAULT '',
		item_price DECIMAL(10, 2) DEFAULT 0,
		scheduled_for TIMESTAMP WITH TIME ZONE NOT NULL,
		sent BOOLEAN DEFAULT FALSE,
		cancelled BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

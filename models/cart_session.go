package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart session lifetime. Fixed TTL from creation, not sliding;
// expiry is enforced by the lookup predicate, never by a cleaner.
const CartSessionTTL = 7 * 24 * time.Hour

// CartSession anchors a user's in-progress cart to exactly one merchant.
// The session_key is the opaque token clients carry across requests.
type CartSession struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	MerchantID uuid.UUID `json:"merchant_id" db:"merchant_id"`
	SessionKey string    `json:"session_key" db:"session_key"`
	Status     string    `json:"status" db:"status"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func (CartSession) TableName() string {
	return "cart_sessions"
}

func (CartSession) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS cart_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		merchant_id UUID NOT NULL REFERENCES merchants(id) ON DELETE CASCADE,
		session_key TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wajba-server/models"

	"github.com/google/uuid"
)

var (
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// ResolvedSession is a cart session joined with the terms of its bound
// merchant, so pricing never needs a second lookup.
type ResolvedSession struct {
	models.CartSession
	MerchantName string
	Terms        MerchantTerms
}

// SessionRepository finds and creates the persisted cart sessions that
// anchor a user's in-progress cart to one merchant.
type SessionRepository interface {
	// Find returns the newest active, non-expired session for the key,
	// or nil when there is none. A merchantID narrows the lookup: a
	// session bound to another merchant counts as no session.
	Find(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID *uuid.UUID) (*ResolvedSession, error)
	// Create persists a fresh session bound to the merchant, which must
	// exist and be active. Fails with ErrMerchantNotFound otherwise.
	Create(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID uuid.UUID) (*ResolvedSession, error)
}

type sessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) SessionRepository {
	return &sessionStore{db: db}
}

func (s *sessionStore) Find(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID *uuid.UUID) (*ResolvedSession, error) {
	query := `
		SELECT cs.id, cs.user_id, cs.merchant_id, cs.session_key, cs.status,
		       cs.expires_at, cs.created_at, cs.updated_at,
		       m.name, m.delivery_fee, m.min_order_amount
		FROM cart_sessions cs
		JOIN merchants m ON cs.merchant_id = m.id
		WHERE cs.session_key = $1
		  AND cs.user_id = $2
		  AND cs.status = 'active'
		  AND cs.expires_at > now()`
	args := []interface{}{sessionKey, userID}

	if merchantID != nil {
		query += ` AND cs.merchant_id = $3`
		args = append(args, *merchantID)
	}
	// Duplicate sessions self-heal here: the most recently updated wins.
	query += ` ORDER BY cs.updated_at DESC LIMIT 1`

	var rs ResolvedSession
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&rs.ID, &rs.UserID, &rs.MerchantID, &rs.SessionKey, &rs.Status,
		&rs.ExpiresAt, &rs.CreatedAt, &rs.UpdatedAt,
		&rs.MerchantName, &rs.Terms.DeliveryFee, &rs.Terms.MinOrder,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart session: %w", err)
	}
	return &rs, nil
}

func (s *sessionStore) Create(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID uuid.UUID) (*ResolvedSession, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM merchants WHERE id = $1 AND is_active = true`,
		merchantID,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, ErrMerchantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("validate merchant: %w", err)
	}

	// The partial unique index on (session_key, merchant_id) makes
	// concurrent creates collapse into one row; losers fall through to
	// the re-find below.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_sessions (user_id, merchant_id, session_key, status, expires_at)
		VALUES ($1, $2, $3, 'active', $4)
		ON CONFLICT (session_key, merchant_id) WHERE status = 'active' DO NOTHING`,
		userID, merchantID, sessionKey, time.Now().Add(models.CartSessionTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart session: %w", err)
	}

	rs, err := s.Find(ctx, userID, sessionKey, &merchantID)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		return nil, fmt.Errorf("create cart session: created session not found")
	}
	return rs, nil
}

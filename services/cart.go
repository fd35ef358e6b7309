package services

import (
	"context"
	"errors"
	"time"

	"wajba-server/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// CartService ties the session store, the item store, the pricing
// engine and the snapshot cache together. Every operation answers with
// a freshly computed snapshot so callers never need a second fetch.
type CartService struct {
	sessions SessionRepository
	items    ItemRepository
	cache    SnapshotCache
	sfg      singleflight.Group // collapses concurrent cache misses
}

func NewCartService(sessions SessionRepository, items ItemRepository, cache SnapshotCache) *CartService {
	return &CartService{
		sessions: sessions,
		items:    items,
		cache:    cache,
	}
}

// GetCart returns the cart for the session key, optionally narrowed to
// one merchant. A session bound to a different merchant, or no session
// at all, yields an empty snapshot rather than an error.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID *uuid.UUID) (*CartSnapshot, error) {
	// Merchant-filtered reads bypass the cache; only the plain read is
	// worth keeping hot.
	if merchantID != nil {
		return s.load(ctx, userID, sessionKey, merchantID)
	}

	// Cache entries carry the user id: sessions are scoped per user in
	// the store, so two users presenting the same key must never share
	// a snapshot.
	key := snapshotKey(userID, sessionKey)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		snap, err := s.cache.Get(ctx, key)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Msg("cart cache get failed")
		}

		snap, err = s.load(ctx, userID, sessionKey, nil)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, key, snap); err != nil {
				log.Warn().Err(err).Msg("cart cache set failed")
			}
		}()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CartSnapshot), nil
}

// AddItem resolves or creates the session for the merchant, merges the
// item in and returns the recomputed snapshot plus the line item id.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID uuid.UUID, p AddItemParams) (*CartSnapshot, uuid.UUID, error) {
	session, err := s.sessions.Find(ctx, userID, sessionKey, &merchantID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if session == nil {
		session, err = s.sessions.Create(ctx, userID, sessionKey, merchantID)
		if err != nil {
			return nil, uuid.Nil, err
		}
	}

	itemID, err := s.items.Add(ctx, session, p)
	if err != nil {
		return nil, uuid.Nil, err
	}

	s.invalidate(userID, sessionKey)
	snap, err := s.snapshot(ctx, session)
	return snap, itemID, err
}

// UpdateItem sets the quantity of a line item; quantity 0 removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, sessionKey string, itemID uuid.UUID, quantity int) (*CartSnapshot, error) {
	session, err := s.sessions.Find(ctx, userID, sessionKey, nil)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		err = s.items.Remove(ctx, session.ID, itemID)
	} else {
		err = s.items.SetQuantity(ctx, session.ID, itemID, quantity)
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(userID, sessionKey)
	return s.snapshot(ctx, session)
}

// RemoveItem deletes a line item from the session's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, sessionKey string, itemID uuid.UUID) (*CartSnapshot, error) {
	session, err := s.sessions.Find(ctx, userID, sessionKey, nil)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrCartItemNotFound
	}

	if err := s.items.Remove(ctx, session.ID, itemID); err != nil {
		return nil, err
	}

	s.invalidate(userID, sessionKey)
	return s.snapshot(ctx, session)
}

// Clear empties the cart. A missing session is not an error: the result
// is the same empty snapshot.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID, sessionKey string) (*CartSnapshot, error) {
	session, err := s.sessions.Find(ctx, userID, sessionKey, nil)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return emptySnapshot(), nil
	}

	if err := s.items.Clear(ctx, session.ID); err != nil {
		return nil, err
	}

	s.invalidate(userID, sessionKey)
	return s.snapshot(ctx, session)
}

// load resolves the session and builds its snapshot from the store.
func (s *CartService) load(ctx context.Context, userID uuid.UUID, sessionKey string, merchantID *uuid.UUID) (*CartSnapshot, error) {
	session, err := s.sessions.Find(ctx, userID, sessionKey, merchantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return emptySnapshot(), nil
	}
	return s.snapshot(ctx, session)
}

func (s *CartService) snapshot(ctx context.Context, session *ResolvedSession) (*CartSnapshot, error) {
	items, err := s.items.List(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartSnapshot{
		Session: &SessionInfo{
			ID:           session.ID,
			SessionKey:   session.SessionKey,
			MerchantID:   session.MerchantID,
			MerchantName: session.MerchantName,
			Status:       session.Status,
			ExpiresAt:    session.ExpiresAt,
		},
		Items:   items,
		Summary: Summarize(items, session.Terms),
	}, nil
}

func (s *CartService) invalidate(userID uuid.UUID, sessionKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, snapshotKey(userID, sessionKey)); err != nil {
		log.Warn().Err(err).Msg("cart cache invalidate failed")
	}
}

// snapshotKey scopes cache and singleflight entries to one user's view
// of a session key.
func snapshotKey(userID uuid.UUID, sessionKey string) string {
	return userID.String() + ":" + sessionKey
}

func emptySnapshot() *CartSnapshot {
	return &CartSnapshot{
		Items:   []models.CartItem{},
		Summary: Summarize(nil, MerchantTerms{}),
	}
}

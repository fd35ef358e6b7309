package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wajba-server/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory stand-in for the session and item stores. It
// mirrors their merge and clamp semantics so service behavior can be
// exercised without a database.
type memRepo struct {
	merchants map[uuid.UUID]*models.Merchant
	menu      map[uuid.UUID]*models.MenuItem
	sessions  []*ResolvedSession
	items     map[uuid.UUID][]*models.CartItem
}

func newMemRepo() *memRepo {
	return &memRepo{
		merchants: map[uuid.UUID]*models.Merchant{},
		menu:      map[uuid.UUID]*models.MenuItem{},
		items:     map[uuid.UUID][]*models.CartItem{},
	}
}

func (m *memRepo) addMerchant(deliveryFee, minOrder float64) uuid.UUID {
	id := uuid.New()
	m.merchants[id] = &models.Merchant{
		ID:             id,
		Name:           "Merchant " + id.String()[:8],
		DeliveryFee:    deliveryFee,
		MinOrderAmount: minOrder,
		IsActive:       true,
	}
	return id
}

func (m *memRepo) addMenuItem(merchantID uuid.UUID, price float64) uuid.UUID {
	id := uuid.New()
	m.menu[id] = &models.MenuItem{
		ID:         id,
		MerchantID: merchantID,
		Name:       "Item " + id.String()[:8],
		Price:      price,
		InStock:    true,
		IsActive:   true,
	}
	return id
}

func (m *memRepo) Find(_ context.Context, userID uuid.UUID, sessionKey string, merchantID *uuid.UUID) (*ResolvedSession, error) {
	var best *ResolvedSession
	for _, s := range m.sessions {
		if s.SessionKey != sessionKey || s.UserID != userID || s.Status != "active" {
			continue
		}
		if !s.ExpiresAt.After(time.Now()) {
			continue
		}
		if merchantID != nil && s.MerchantID != *merchantID {
			continue
		}
		if best == nil || s.UpdatedAt.After(best.UpdatedAt) {
			best = s
		}
	}
	return best, nil
}

func (m *memRepo) Create(_ context.Context, userID uuid.UUID, sessionKey string, merchantID uuid.UUID) (*ResolvedSession, error) {
	merchant, ok := m.merchants[merchantID]
	if !ok || !merchant.IsActive {
		return nil, ErrMerchantNotFound
	}
	s := &ResolvedSession{
		CartSession: models.CartSession{
			ID:         uuid.New(),
			UserID:     userID,
			MerchantID: merchantID,
			SessionKey: sessionKey,
			Status:     "active",
			ExpiresAt:  time.Now().Add(models.CartSessionTTL),
			UpdatedAt:  time.Now(),
		},
		MerchantName: merchant.Name,
		Terms: MerchantTerms{
			DeliveryFee: merchant.DeliveryFee,
			MinOrder:    merchant.MinOrderAmount,
		},
	}
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *memRepo) Add(_ context.Context, session *ResolvedSession, p AddItemParams) (uuid.UUID, error) {
	menuItem, ok := m.menu[p.MenuItemID]
	if !ok || menuItem.MerchantID != session.MerchantID || !menuItem.IsActive {
		return uuid.Nil, ErrMenuItemNotFound
	}

	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	if qty > MaxItemQuantity {
		qty = MaxItemQuantity
	}

	for _, it := range m.items[session.ID] {
		if it.MenuItemID == p.MenuItemID {
			merged := it.Quantity + qty
			if merged > MaxItemQuantity {
				merged = MaxItemQuantity
			}
			it.Quantity = merged
			it.TotalPrice = float64(merged) * it.UnitPrice
			return it.ID, nil
		}
	}

	unitPrice := menuItem.EffectivePrice()
	it := &models.CartItem{
		ID:            uuid.New(),
		CartSessionID: session.ID,
		MenuItemID:    p.MenuItemID,
		ItemName:      menuItem.Name,
		Quantity:      qty,
		UnitPrice:     unitPrice,
		TotalPrice:    float64(qty) * unitPrice,
		InStock:       menuItem.InStock,
		AddedAt:       time.Now(),
	}
	m.items[session.ID] = append(m.items[session.ID], it)
	return it.ID, nil
}

func (m *memRepo) SetQuantity(_ context.Context, sessionID, itemID uuid.UUID, quantity int) error {
	for _, it := range m.items[sessionID] {
		if it.ID == itemID {
			it.Quantity = quantity
			it.TotalPrice = float64(quantity) * it.UnitPrice
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (m *memRepo) Remove(_ context.Context, sessionID, itemID uuid.UUID) error {
	items := m.items[sessionID]
	for i, it := range items {
		if it.ID == itemID {
			m.items[sessionID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (m *memRepo) Clear(_ context.Context, sessionID uuid.UUID) error {
	m.items[sessionID] = nil
	return nil
}

func (m *memRepo) List(_ context.Context, sessionID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, it := range m.items[sessionID] {
		out = append(out, *it)
	}
	return out, nil
}

func newTestCart(repo *memRepo) *CartService {
	return NewCartService(repo, repo, NoopCache{})
}

// mapCache is a SnapshotCache that actually stores, for tests that
// exercise cache scoping and invalidation.
type mapCache struct {
	entries map[string]*CartSnapshot
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]*CartSnapshot{}}
}

func (m *mapCache) Get(_ context.Context, key string) (*CartSnapshot, error) {
	snap, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return snap, nil
}

func (m *mapCache) Set(_ context.Context, key string, snap *CartSnapshot) error {
	m.entries[key] = snap
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func TestAddItemMergesQuantities(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(100, 500)
	menuItemID := repo.addMenuItem(merchantID, 250)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, firstID, err := svc.AddItem(ctx, userID, "sess-1", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 2})
	require.NoError(t, err)

	snap, secondID, err := svc.AddItem(ctx, userID, "sess-1", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID, "repeat add must merge, not duplicate")
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, 1250.0, snap.Items[0].TotalPrice)
	assert.Equal(t, 5, snap.Summary.ItemCount)
}

func TestAddItemMergeClampsAtFifty(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 10)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, _, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 49})
	require.NoError(t, err)

	snap, _, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 50, snap.Items[0].Quantity)
	assert.Equal(t, 500.0, snap.Items[0].TotalPrice, "total price tracks the clamped quantity")
}

func TestAddItemCreatesSessionOnFirstAdd(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(100, 500)
	menuItemID := repo.addMenuItem(merchantID, 1000)
	svc := newTestCart(repo)

	snap, _, err := svc.AddItem(context.Background(), uuid.New(), "fresh", merchantID,
		AddItemParams{MenuItemID: menuItemID, Quantity: 2})
	require.NoError(t, err)

	require.NotNil(t, snap.Session)
	assert.Equal(t, merchantID, snap.Session.MerchantID)
	assert.Equal(t, "active", snap.Session.Status)
	assert.Equal(t, 2000.0, snap.Summary.Subtotal)
	assert.Equal(t, 330.0, snap.Summary.TaxAmount)
	assert.Equal(t, 2430.0, snap.Summary.Total)
}

func TestAddItemUnknownMerchant(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCart(repo)

	_, _, err := svc.AddItem(context.Background(), uuid.New(), "sess", uuid.New(),
		AddItemParams{MenuItemID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

func TestAddItemMenuItemFromOtherMerchant(t *testing.T) {
	repo := newMemRepo()
	merchantA := repo.addMerchant(0, 0)
	merchantB := repo.addMerchant(0, 0)
	foreignItem := repo.addMenuItem(merchantB, 100)
	svc := newTestCart(repo)

	_, _, err := svc.AddItem(context.Background(), uuid.New(), "sess", merchantA,
		AddItemParams{MenuItemID: foreignItem, Quantity: 1})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestUpdateItemZeroRemoves(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 100)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, itemID, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 3})
	require.NoError(t, err)

	snap, err := svc.UpdateItem(ctx, userID, "sess", itemID, 0)
	require.NoError(t, err)

	assert.Empty(t, snap.Items)
	assert.Equal(t, CartSummary{MeetsMinOrder: true}, snap.Summary)
}

func TestUpdateItemHasNoUpperClamp(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 10)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, itemID, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 1})
	require.NoError(t, err)

	snap, err := svc.UpdateItem(ctx, userID, "sess", itemID, 120)
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 120, snap.Items[0].Quantity)
	assert.Equal(t, 1200.0, snap.Items[0].TotalPrice)
}

func TestUpdateItemWithoutSession(t *testing.T) {
	svc := newTestCart(newMemRepo())

	_, err := svc.UpdateItem(context.Background(), uuid.New(), "nope", uuid.New(), 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestGetCartCrossMerchantIsEmpty(t *testing.T) {
	repo := newMemRepo()
	merchantA := repo.addMerchant(100, 500)
	merchantB := repo.addMerchant(50, 200)
	menuItemID := repo.addMenuItem(merchantA, 300)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, _, err := svc.AddItem(ctx, userID, "sess", merchantA, AddItemParams{MenuItemID: menuItemID, Quantity: 1})
	require.NoError(t, err)

	snap, err := svc.GetCart(ctx, userID, "sess", &merchantB)
	require.NoError(t, err)

	assert.Nil(t, snap.Session, "a session bound to another merchant counts as no session")
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Summary.MeetsMinOrder)
}

func TestGetCartUnknownSessionIsEmpty(t *testing.T) {
	svc := newTestCart(newMemRepo())

	snap, err := svc.GetCart(context.Background(), uuid.New(), "never-seen", nil)
	require.NoError(t, err)

	assert.Nil(t, snap.Session)
	assert.Empty(t, snap.Items)
	assert.Equal(t, CartSummary{MeetsMinOrder: true}, snap.Summary)
}

func TestGetCartExpiredSessionIsEmpty(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 100)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, _, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 1})
	require.NoError(t, err)

	repo.sessions[0].ExpiresAt = time.Now().Add(-time.Hour)

	snap, err := svc.GetCart(ctx, userID, "sess", nil)
	require.NoError(t, err)
	assert.Nil(t, snap.Session, "expired sessions are invisible at lookup time")
	assert.Empty(t, snap.Items)
}

func TestGetCartCacheIsScopedPerUser(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 100)
	cache := newMapCache()
	svc := NewCartService(repo, repo, cache)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	snapA, _, err := svc.AddItem(ctx, userA, "shared-key", merchantID,
		AddItemParams{MenuItemID: menuItemID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, snapshotKey(userA, "shared-key"), snapA))

	// Another user presenting the same session key must get their own
	// (empty) cart, never the cached snapshot of the first user.
	snapB, err := svc.GetCart(ctx, userB, "shared-key", nil)
	require.NoError(t, err)
	assert.Nil(t, snapB.Session)
	assert.Empty(t, snapB.Items)

	snapA2, err := svc.GetCart(ctx, userA, "shared-key", nil)
	require.NoError(t, err)
	require.NotNil(t, snapA2.Session)
	assert.Equal(t, 2, snapA2.Summary.ItemCount)
}

func TestMutationInvalidatesOwnCacheEntry(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 100)
	cache := newMapCache()
	svc := NewCartService(repo, repo, cache)
	ctx := context.Background()
	userID := uuid.New()

	snap, itemID, err := svc.AddItem(ctx, userID, "sess", merchantID,
		AddItemParams{MenuItemID: menuItemID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, snapshotKey(userID, "sess"), snap))

	_, err = svc.UpdateItem(ctx, userID, "sess", itemID, 4)
	require.NoError(t, err)

	_, err = cache.Get(ctx, snapshotKey(userID, "sess"))
	assert.ErrorIs(t, err, ErrCacheMiss, "mutations must drop the user's cached snapshot")
}

func TestClearWithoutSessionSucceeds(t *testing.T) {
	svc := newTestCart(newMemRepo())

	snap, err := svc.Clear(context.Background(), uuid.New(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestClearedCartSerializesEmptyItemsArray(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 100)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, _, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: menuItemID, Quantity: 1})
	require.NoError(t, err)

	snap, err := svc.Clear(ctx, userID, "sess")
	require.NoError(t, err)

	// A drained cart must render "items": [] like a missing one, not null.
	require.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
}

func TestRemoveItemRecomputesSummary(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(100, 500)
	itemA := repo.addMenuItem(merchantID, 400)
	itemB := repo.addMenuItem(merchantID, 150)
	svc := newTestCart(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, idA, err := svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: itemA, Quantity: 1})
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, userID, "sess", merchantID, AddItemParams{MenuItemID: itemB, Quantity: 2})
	require.NoError(t, err)

	snap, err := svc.RemoveItem(ctx, userID, "sess", idA)
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 300.0, snap.Summary.Subtotal)
	assert.False(t, snap.Summary.MeetsMinOrder, "dropping below the minimum order flips the flag")
	assert.Equal(t, snap.Summary.Subtotal+snap.Summary.DeliveryFee+snap.Summary.TaxAmount, snap.Summary.Total)
}

func TestAddItemUsesDiscountedPrice(t *testing.T) {
	repo := newMemRepo()
	merchantID := repo.addMerchant(0, 0)
	menuItemID := repo.addMenuItem(merchantID, 1000)
	discounted := 800.0
	repo.menu[menuItemID].DiscountedPrice = &discounted
	svc := newTestCart(repo)

	snap, _, err := svc.AddItem(context.Background(), uuid.New(), "sess", merchantID,
		AddItemParams{MenuItemID: menuItemID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 800.0, snap.Items[0].UnitPrice)
	assert.Equal(t, 1600.0, snap.Items[0].TotalPrice)
}

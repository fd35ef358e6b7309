package services

import (
	"context"
	"database/sql"
	"fmt"

	"wajba-server/models"

	"github.com/google/uuid"
)

// AddItemParams is the validated add-to-cart command.
type AddItemParams struct {
	MenuItemID          uuid.UUID
	Quantity            int
	Customizations      string
	SpecialInstructions *string
}

// ItemRepository is CRUD over the line items of a cart session, with
// quantity-merge semantics on repeat adds.
type ItemRepository interface {
	// Add validates the menu item against the session's merchant and
	// inserts a new line, or merges quantities into the existing one
	// (capped at MaxItemQuantity). Returns the line item id.
	Add(ctx context.Context, session *ResolvedSession, p AddItemParams) (uuid.UUID, error)
	// SetQuantity updates the quantity of an existing line and keeps
	// total_price = quantity * unit_price. Callers route quantity 0 to
	// Remove; this method expects quantity >= 1 and applies no cap.
	SetQuantity(ctx context.Context, sessionID, itemID uuid.UUID, quantity int) error
	Remove(ctx context.Context, sessionID, itemID uuid.UUID) error
	Clear(ctx context.Context, sessionID uuid.UUID) error
	List(ctx context.Context, sessionID uuid.UUID) ([]models.CartItem, error)
}

type itemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) ItemRepository {
	return &itemStore{db: db}
}

func (s *itemStore) Add(ctx context.Context, session *ResolvedSession, p AddItemParams) (uuid.UUID, error) {
	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	if qty > MaxItemQuantity {
		qty = MaxItemQuantity
	}

	customizations := p.Customizations
	if customizations == "" {
		customizations = "{}"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin add item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Snapshot the menu item under the session's merchant; price is
	// captured now so later catalog edits don't touch the cart.
	var item models.MenuItem
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, description, image, price, discounted_price, in_stock
		FROM menu_items
		WHERE id = $1 AND merchant_id = $2 AND is_active = true`,
		p.MenuItemID, session.MerchantID,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Image,
		&item.Price, &item.DiscountedPrice, &item.InStock)
	if err == sql.ErrNoRows {
		return uuid.Nil, ErrMenuItemNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("load menu item: %w", err)
	}

	unitPrice := item.EffectivePrice()

	// Insert-or-merge in one statement; the unique constraint on
	// (cart_session_id, menu_item_id) turns concurrent adds into merges.
	var itemID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO cart_items
			(cart_session_id, menu_item_id, item_name, item_description, item_image,
			 quantity, unit_price, total_price, customizations, special_instructions, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (cart_session_id, menu_item_id) DO UPDATE SET
			quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, $12),
			total_price = LEAST(cart_items.quantity + EXCLUDED.quantity, $12) * cart_items.unit_price,
			updated_at = now()
		RETURNING id`,
		session.ID, item.ID, item.Name, item.Description, item.Image,
		qty, unitPrice, float64(qty)*unitPrice, customizations,
		p.SpecialInstructions, item.InStock, MaxItemQuantity,
	).Scan(&itemID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert cart item: %w", err)
	}

	// Keep the session fresh so duplicate-session lookups prefer it.
	if _, err := tx.ExecContext(ctx,
		`UPDATE cart_sessions SET updated_at = now() WHERE id = $1`, session.ID); err != nil {
		return uuid.Nil, fmt.Errorf("touch cart session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit add item: %w", err)
	}
	return itemID, nil
}

func (s *itemStore) SetQuantity(ctx context.Context, sessionID, itemID uuid.UUID, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $3, total_price = $3 * unit_price, updated_at = now()
		WHERE id = $2 AND cart_session_id = $1`,
		sessionID, itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *itemStore) Remove(ctx context.Context, sessionID, itemID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $2 AND cart_session_id = $1`,
		sessionID, itemID,
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *itemStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *itemStore) List(ctx context.Context, sessionID uuid.UUID) ([]models.CartItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cart_session_id, menu_item_id, item_name, item_description, item_image,
		       quantity, unit_price, total_price, customizations, special_instructions,
		       in_stock, added_at, updated_at
		FROM cart_items
		WHERE cart_session_id = $1
		ORDER BY added_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(
			&it.ID, &it.CartSessionID, &it.MenuItemID, &it.ItemName,
			&it.ItemDescription, &it.ItemImage, &it.Quantity, &it.UnitPrice,
			&it.TotalPrice, &it.Customizations, &it.SpecialInstructions,
			&it.InStock, &it.AddedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// CartStore implements domain.CartStore on PostgreSQL.
type CartStore struct {
	db *DB
}

var _ domain.CartStore = (*CartStore)(nil)

func NewCartStore(db *DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) Create(ctx context.Context) (*domain.Cart, error) {
	const op = "cart.create"

	var (
		cid  pgtype.UUID
		cart domain.Cart
	)
	err := s.db.pool.QueryRow(ctx, `
INSERT INTO carts (status) VALUES ('active')
RETURNING id, created_at, updated_at`).Scan(&cid, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to create cart")
	}
	cart.ID = fromPgUUID(cid)
	cart.Status = domain.CartStatusActive
	return &cart, nil
}

func (s *CartStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	const op = "cart.get"

	var (
		cid, customerID pgtype.UUID
		status          string
		cart            domain.Cart
	)
	err := s.db.pool.QueryRow(ctx, `
SELECT id, customer_id, status, created_at, updated_at
FROM carts
WHERE id = $1`, pgUUID(id)).Scan(&cid, &customerID, &status, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get cart")
	}
	cart.ID = fromPgUUID(cid)
	cart.CustomerID = fromPgUUIDPtr(customerID)
	cart.Status = domain.CartStatus(status)

	rows, err := s.db.pool.Query(ctx, `
SELECT ci.id, ci.variant_id, v.sku, p.name, v.color, v.size, ci.quantity,
       COALESCE(v.price_override_cents, p.base_price_cents) AS unit_price_cents,
       GREATEST(0, COALESCE(i.stock, 0) - COALESCE(i.reserved_stock, 0)) AS available_stock
FROM cart_items ci
JOIN product_variants v ON v.id = ci.variant_id
JOIN products p ON p.id = v.product_id
LEFT JOIN inventory i ON i.variant_id = v.id
WHERE ci.cart_id = $1
ORDER BY v.sku`, pgUUID(id))
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to load cart items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			iid, variantID pgtype.UUID
			item           domain.CartItem
		)
		if err := rows.Scan(
			&iid, &variantID, &item.SKU, &item.ProductName, &item.Color, &item.Size,
			&item.Quantity, &item.UnitPriceCents, &item.AvailableStock,
		); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan cart item")
		}
		item.ID = fromPgUUID(iid)
		item.CartID = cart.ID
		item.VariantID = fromPgUUID(variantID)
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to load cart items")
	}
	return &cart, nil
}

// UpsertItem merges quantity into an existing line for the same variant.
func (s *CartStore) UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) error {
	const op = "cart.upsert_item"

	_, err := s.db.pool.Exec(ctx, `
INSERT INTO cart_items (cart_id, variant_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, variant_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		pgUUID(cartID), pgUUID(variantID), quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrVariantNotFound
		}
		return wrapQueryError(err, op, "failed to add cart item")
	}

	_, err = s.db.pool.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, pgUUID(cartID))
	if err != nil {
		return wrapQueryError(err, op, "failed to touch cart")
	}
	return nil
}

func (s *CartStore) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) error {
	const op = "cart.set_item_quantity"

	tag, err := s.db.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE id = $2 AND cart_id = $1`,
		pgUUID(cartID), pgUUID(itemID), quantity)
	if err != nil {
		return wrapQueryError(err, op, "failed to update cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (s *CartStore) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	const op = "cart.delete_item"

	tag, err := s.db.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $2 AND cart_id = $1`,
		pgUUID(cartID), pgUUID(itemID))
	if err != nil {
		return wrapQueryError(err, op, "failed to delete cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// VariantAvailability returns the effective unit price and available stock
// for an active variant of a live product.
func (s *CartStore) VariantAvailability(ctx context.Context, variantID uuid.UUID) (int64, int32, error) {
	const op = "cart.variant_availability"

	var (
		priceCents int64
		available  int32
	)
	err := s.db.pool.QueryRow(ctx, `
SELECT COALESCE(v.price_override_cents, p.base_price_cents),
       GREATEST(0, COALESCE(i.stock, 0) - COALESCE(i.reserved_stock, 0))
FROM product_variants v
JOIN products p ON p.id = v.product_id
LEFT JOIN inventory i ON i.variant_id = v.id
WHERE v.id = $1 AND v.is_active AND p.status = 'live'`,
		pgUUID(variantID)).Scan(&priceCents, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, domain.ErrVariantNotFound
		}
		return 0, 0, wrapQueryError(err, op, "failed to check variant availability")
	}
	return priceCents, available, nil
}

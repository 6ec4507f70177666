package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// OrderStore implements domain.OrderStore on PostgreSQL.
type OrderStore struct {
	db *DB
}

var _ domain.OrderStore = (*OrderStore)(nil)

func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `
o.id, o.order_number, o.customer_id, o.email, o.status,
o.subtotal_cents, o.discount_cents, o.shipping_cents, o.total_cents,
o.promo_code, o.payment_intent_id,
o.ship_name, o.ship_line1, o.ship_line2, o.ship_city, o.ship_state,
o.ship_postal_code, o.ship_country, o.ship_phone,
o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		oid, customerID pgtype.UUID
		status          string
		order           domain.Order
	)
	err := row.Scan(
		&oid, &order.OrderNumber, &customerID, &order.Email, &status,
		&order.SubtotalCents, &order.DiscountCents, &order.ShippingCents, &order.TotalCents,
		&order.PromoCode, &order.PaymentIntentID,
		&order.ShippingAddress.Name, &order.ShippingAddress.Line1, &order.ShippingAddress.Line2,
		&order.ShippingAddress.City, &order.ShippingAddress.State,
		&order.ShippingAddress.PostalCode, &order.ShippingAddress.Country, &order.ShippingAddress.Phone,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.ID = fromPgUUID(oid)
	order.CustomerID = fromPgUUIDPtr(customerID)
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	const op = "order.create"

	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO orders (
    id, order_number, customer_id, email, status,
    subtotal_cents, discount_cents, shipping_cents, total_cents,
    promo_code, payment_intent_id, cart_id,
    ship_name, ship_line1, ship_line2, ship_city, ship_state,
    ship_postal_code, ship_country, ship_phone
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING created_at, updated_at`,
			pgUUID(order.ID), order.OrderNumber, pgUUIDPtr(order.CustomerID), order.Email, string(order.Status),
			order.SubtotalCents, order.DiscountCents, order.ShippingCents, order.TotalCents,
			order.PromoCode, order.PaymentIntentID, cartIDOf(order),
			order.ShippingAddress.Name, order.ShippingAddress.Line1, order.ShippingAddress.Line2,
			order.ShippingAddress.City, order.ShippingAddress.State,
			order.ShippingAddress.PostalCode, order.ShippingAddress.Country, order.ShippingAddress.Phone,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			_, err := tx.Exec(ctx, `
INSERT INTO order_items (id, order_id, variant_id, sku, product_name, color, size, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				pgUUID(item.ID), pgUUID(order.ID), pgUUID(item.VariantID),
				item.SKU, item.ProductName, item.Color, item.Size,
				item.Quantity, item.UnitPriceCents, item.TotalCents,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(op, "order number already exists")
		}
		return wrapQueryError(err, op, "failed to create order")
	}
	return nil
}

// cartIDOf keeps the originating cart on the row so MarkPaid can convert it.
func cartIDOf(order *domain.Order) pgtype.UUID {
	if order.CartID == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgUUID(order.CartID)
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "order.get"

	order, err := scanOrder(s.db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM orders o WHERE o.id = $1`, orderColumns), pgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get order")
	}
	if err := s.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, wrapQueryError(err, op, "failed to load order items")
	}
	return order, nil
}

func (s *OrderStore) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	const op = "order.get_by_payment_intent"

	order, err := scanOrder(s.db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM orders o WHERE o.payment_intent_id = $1`, orderColumns), paymentIntentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get order")
	}
	if err := s.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, wrapQueryError(err, op, "failed to load order items")
	}
	return order, nil
}

func (s *OrderStore) List(ctx context.Context, filter domain.OrderFilter, page domain.OffsetPage) (*domain.OrderPage, error) {
	const op = "order.list"

	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.Email != nil && *filter.Email != "" {
		args = append(args, "%"+*filter.Email+"%")
		where = append(where, fmt.Sprintf("o.email ILIKE $%d", len(args)))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + where[0]
		for _, w := range where[1:] {
			whereClause += " AND " + w
		}
	}

	query := fmt.Sprintf(`
SELECT %s, COUNT(*) OVER () AS total
FROM orders o
%s
ORDER BY o.created_at DESC, o.id DESC
LIMIT %d OFFSET %d`, orderColumns, whereClause, limit, offset)

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list orders")
	}
	defer rows.Close()

	result := &domain.OrderPage{Offset: offset, Limit: limit}
	var orders []*domain.Order
	for rows.Next() {
		var (
			oid, customerID pgtype.UUID
			status          string
			order           domain.Order
		)
		if err := rows.Scan(
			&oid, &order.OrderNumber, &customerID, &order.Email, &status,
			&order.SubtotalCents, &order.DiscountCents, &order.ShippingCents, &order.TotalCents,
			&order.PromoCode, &order.PaymentIntentID,
			&order.ShippingAddress.Name, &order.ShippingAddress.Line1, &order.ShippingAddress.Line2,
			&order.ShippingAddress.City, &order.ShippingAddress.State,
			&order.ShippingAddress.PostalCode, &order.ShippingAddress.Country, &order.ShippingAddress.Phone,
			&order.CreatedAt, &order.UpdatedAt,
			&result.Total,
		); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan order")
		}
		order.ID = fromPgUUID(oid)
		order.CustomerID = fromPgUUIDPtr(customerID)
		order.Status = domain.OrderStatus(status)
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to list orders")
	}

	if err := s.loadItems(ctx, orders); err != nil {
		return nil, wrapQueryError(err, op, "failed to load order items")
	}
	result.Items = make([]domain.Order, len(orders))
	for i, o := range orders {
		result.Items[i] = *o
	}
	return result, nil
}

func (s *OrderStore) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]pgtype.UUID, len(orders))
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = pgUUID(o.ID)
		byID[o.ID] = o
	}

	rows, err := s.db.pool.Query(ctx, `
SELECT id, order_id, variant_id, sku, product_name, color, size, quantity, unit_price_cents, total_cents
FROM order_items
WHERE order_id = ANY($1)
ORDER BY sku`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			iid, orderID, variantID pgtype.UUID
			item                    domain.OrderItem
		)
		if err := rows.Scan(
			&iid, &orderID, &variantID, &item.SKU, &item.ProductName,
			&item.Color, &item.Size, &item.Quantity, &item.UnitPriceCents, &item.TotalCents,
		); err != nil {
			return err
		}
		item.ID = fromPgUUID(iid)
		item.OrderID = fromPgUUID(orderID)
		// Zero when the variant was deleted; the snapshot columns remain.
		item.VariantID = fromPgUUID(variantID)
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

// UpdateStatus persists a transition the service already validated. With
// restock, item quantities return to inventory in the same transaction.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus, restock bool) error {
	const op = "order.update_status"

	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			pgUUID(id), string(next))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}
		if restock {
			_, err = tx.Exec(ctx, `
UPDATE inventory i
SET stock = i.stock + oi.quantity, updated_at = now()
FROM order_items oi
WHERE oi.order_id = $1 AND oi.variant_id = i.variant_id`, pgUUID(id))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return err
		}
		return wrapQueryError(err, op, "failed to update order status")
	}
	return nil
}

// MarkPaid flips pending to paid, decrements stock and converts the
// originating cart in one transaction. Re-marking a paid order is a no-op.
func (s *OrderStore) MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	const op = "order.mark_paid"

	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		var cartID pgtype.UUID
		err := tx.QueryRow(ctx, `
UPDATE orders
SET status = 'paid', payment_intent_id = $2, updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING cart_id`, pgUUID(id), paymentIntentID).Scan(&cartID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				var status string
				err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, pgUUID(id)).Scan(&status)
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrOrderNotFound
				}
				if err != nil {
					return err
				}
				if domain.OrderStatus(status) == domain.OrderStatusPaid {
					return nil // retried receipt
				}
				return domain.ErrInvalidTransition
			}
			return err
		}

		_, err = tx.Exec(ctx, `
UPDATE inventory i
SET stock = GREATEST(0, i.stock - oi.quantity), updated_at = now()
FROM order_items oi
WHERE oi.order_id = $1 AND oi.variant_id = i.variant_id`, pgUUID(id))
		if err != nil {
			return err
		}

		if cartID.Valid {
			_, err = tx.Exec(ctx,
				`UPDATE carts SET status = 'converted', updated_at = now() WHERE id = $1 AND status = 'active'`,
				cartID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return err
		}
		return wrapQueryError(err, op, "failed to mark order paid")
	}
	return nil
}

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

// InventoryStore implements domain.InventoryStore on PostgreSQL.
type InventoryStore struct {
	db *DB
}

var _ domain.InventoryStore = (*InventoryStore)(nil)

func NewInventoryStore(db *DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// statusExpr derives the stock status in SQL so the listing can filter on it.
// Must agree with domain.DeriveStockStatus.
const statusExpr = `
CASE
    WHEN i.stock = 0 THEN 'out_of_stock'
    WHEN i.stock <= i.low_stock_threshold THEN 'low_stock'
    ELSE 'in_stock'
END`

func (s *InventoryStore) List(ctx context.Context, filter domain.InventoryFilter, page domain.OffsetPage) (*domain.InventoryPage, error) {
	const op = "inventory.list"

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
		where = append(where, fmt.Sprintf("(%s) = $%d", statusExpr, len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(v.sku ILIKE $%d OR p.name ILIKE $%d)", n, n))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + where[0]
		for _, w := range where[1:] {
			whereClause += " AND " + w
		}
	}

	query := fmt.Sprintf(`
SELECT v.id, p.id, p.name, v.sku, v.color, v.size,
       i.stock, i.reserved_stock, i.low_stock_threshold, i.updated_at,
       COUNT(*) OVER () AS total
FROM inventory i
JOIN product_variants v ON v.id = i.variant_id
JOIN products p ON p.id = v.product_id
%s
ORDER BY p.name, v.sku
LIMIT %d OFFSET %d`, whereClause, limit, offset)

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list inventory")
	}
	defer rows.Close()

	result := &domain.InventoryPage{Offset: offset, Limit: limit}
	for rows.Next() {
		var (
			vid, pid pgtype.UUID
			item     domain.InventoryItem
		)
		if err := rows.Scan(
			&vid, &pid, &item.ProductName, &item.SKU, &item.Color, &item.Size,
			&item.Stock, &item.ReservedStock, &item.LowStockThreshold, &item.UpdatedAt,
			&result.Total,
		); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan inventory row")
		}
		item.VariantID = fromPgUUID(vid)
		item.ProductID = fromPgUUID(pid)
		item.AvailableStock = item.Stock - item.ReservedStock
		if item.AvailableStock < 0 {
			item.AvailableStock = 0
		}
		item.Status = domain.DeriveStockStatus(item.Stock, item.LowStockThreshold)
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to list inventory")
	}
	return result, nil
}

func (s *InventoryStore) Stats(ctx context.Context) (*domain.InventoryStats, error) {
	const op = "inventory.stats"

	var stats domain.InventoryStats
	err := s.db.pool.QueryRow(ctx, `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE i.stock > i.low_stock_threshold),
       COUNT(*) FILTER (WHERE i.stock > 0 AND i.stock <= i.low_stock_threshold),
       COUNT(*) FILTER (WHERE i.stock = 0),
       COALESCE(SUM(i.stock), 0)
FROM inventory i`).Scan(
		&stats.TotalVariants, &stats.InStock, &stats.LowStock, &stats.OutOfStock, &stats.TotalUnits,
	)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to aggregate inventory stats")
	}
	return &stats, nil
}

// ApplyStock mutates the row in a single UPDATE so the zero floor on
// subtract holds under concurrent writers.
func (s *InventoryStore) ApplyStock(ctx context.Context, variantID uuid.UUID, action domain.StockAction, quantity int32) (*domain.InventoryItem, error) {
	const op = "inventory.apply_stock"

	var (
		vid, pid pgtype.UUID
		item     domain.InventoryItem
	)
	err := s.db.pool.QueryRow(ctx, `
UPDATE inventory i
SET stock = CASE $2
        WHEN 'set' THEN $3::integer
        WHEN 'add' THEN i.stock + $3::integer
        ELSE GREATEST(0, i.stock - $3::integer)
    END,
    updated_at = now()
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE i.variant_id = $1 AND v.id = i.variant_id
RETURNING v.id, p.id, p.name, v.sku, v.color, v.size,
          i.stock, i.reserved_stock, i.low_stock_threshold, i.updated_at`,
		pgUUID(variantID), string(action), quantity,
	).Scan(
		&vid, &pid, &item.ProductName, &item.SKU, &item.Color, &item.Size,
		&item.Stock, &item.ReservedStock, &item.LowStockThreshold, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, wrapQueryError(err, op, "failed to update stock")
	}
	item.VariantID = fromPgUUID(vid)
	item.ProductID = fromPgUUID(pid)
	item.AvailableStock = item.Stock - item.ReservedStock
	if item.AvailableStock < 0 {
		item.AvailableStock = 0
	}
	item.Status = domain.DeriveStockStatus(item.Stock, item.LowStockThreshold)
	return &item, nil
}

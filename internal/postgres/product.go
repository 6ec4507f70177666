package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// ProductStore implements domain.ProductStore on PostgreSQL.
type ProductStore struct {
	db *DB
}

var _ domain.ProductStore = (*ProductStore)(nil)

func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// =============================================================================
// LISTING
// =============================================================================

func sortColumn(field string) string {
	switch field {
	case "name":
		return "p.name"
	case "base_price":
		return "p.base_price_cents"
	default:
		return "p.created_at"
	}
}

// normalizeSort validates the sort field and applies the newest-first default.
func normalizeSort(sort domain.ProductSort) (field string, desc bool, err error) {
	switch sort.Field {
	case "":
		return "created_at", true, nil
	case "created_at", "name", "base_price":
		return sort.Field, sort.Desc, nil
	default:
		return "", false, domain.Invalid("product.list", fmt.Sprintf("unknown sort field %q", sort.Field))
	}
}

func cursorKey(field string, item domain.ProductListItem) string {
	switch field {
	case "name":
		return item.Name
	case "base_price":
		return strconv.FormatInt(item.BasePriceCents, 10)
	default:
		return item.CreatedAt.Format(time.RFC3339Nano)
	}
}

func cursorKeyValue(field, key string) (any, error) {
	switch field {
	case "name":
		return key, nil
	case "base_price":
		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, domain.Invalid("product.cursor", "invalid page cursor")
		}
		return n, nil
	default:
		t, err := time.Parse(time.RFC3339Nano, key)
		if err != nil {
			return nil, domain.Invalid("product.cursor", "invalid page cursor")
		}
		return t, nil
	}
}

// buildProductFilter renders WHERE clauses with positional args.
func buildProductFilter(filter domain.ProductFilter) (where []string, args []any) {
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		where = append(where, fmt.Sprintf("p.featured = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, pgUUID(*filter.CategoryID))
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = $%d)", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(p.name ILIKE $%d OR EXISTS (SELECT 1 FROM product_variants sv WHERE sv.product_id = p.id AND sv.sku ILIKE $%d))", n, n))
	}
	return where, args
}

// productListSQL assembles the denormalized listing query. The variant_images
// join supplies a fallback primary image on older catalogs; pass
// withVariantImages=false to run without it when the table is absent.
func productListSQL(where []string, tail string, withVariantImages, withTotal bool) string {
	imageExpr := "COALESCE(img.url, '')"
	variantImageJoin := ""
	groupBy := "GROUP BY p.id, img.url"
	if withVariantImages {
		imageExpr = "COALESCE(img.url, vimg.url, '')"
		variantImageJoin = `
LEFT JOIN LATERAL (
    SELECT vi.url
    FROM variant_images vi
    JOIN product_variants vv ON vv.id = vi.variant_id
    WHERE vv.product_id = p.id
    ORDER BY vi.display_order
    LIMIT 1
) vimg ON TRUE`
		groupBy = "GROUP BY p.id, img.url, vimg.url"
	}

	totalExpr := ""
	if withTotal {
		totalExpr = ",\n    COUNT(*) OVER () AS total"
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + where[0]
		for _, w := range where[1:] {
			whereClause += " AND " + w
		}
	}

	return fmt.Sprintf(`
SELECT
    p.id, p.name, p.status, p.featured, p.base_price_cents,
    COALESCE(MIN(COALESCE(v.price_override_cents, p.base_price_cents)), p.base_price_cents) AS min_price_cents,
    COALESCE(MAX(COALESCE(v.price_override_cents, p.base_price_cents)), p.base_price_cents) AS max_price_cents,
    %s AS primary_image_url,
    COUNT(v.id) AS variant_count,
    COALESCE(SUM(i.stock), 0) AS total_stock,
    COUNT(*) FILTER (WHERE i.stock > 0 AND i.stock <= i.low_stock_threshold) AS low_variants,
    p.created_at%s
FROM products p
LEFT JOIN product_variants v ON v.product_id = p.id AND v.is_active
LEFT JOIN inventory i ON i.variant_id = v.id
LEFT JOIN LATERAL (
    SELECT url FROM product_images
    WHERE product_id = p.id
    ORDER BY display_order
    LIMIT 1
) img ON TRUE%s
%s
%s
%s`, imageExpr, totalExpr, variantImageJoin, whereClause, groupBy, tail)
}

func aggregateStockStatus(totalStock, lowVariants int64) domain.StockStatus {
	switch {
	case totalStock == 0:
		return domain.StockStatusOutOfStock
	case lowVariants > 0:
		return domain.StockStatusLowStock
	default:
		return domain.StockStatusInStock
	}
}

// queryList runs the listing query, retrying without the variant_images join
// when the table does not exist. Returns raw pg errors for the caller to wrap.
func (s *ProductStore) queryList(ctx context.Context, where []string, args []any, tail string, withTotal bool) ([]domain.ProductListItem, int64, error) {
	items, total, err := s.scanList(ctx, productListSQL(where, tail, true, withTotal), args, withTotal)
	if isUndefinedTable(err) {
		items, total, err = s.scanList(ctx, productListSQL(where, tail, false, withTotal), args, withTotal)
	}
	return items, total, err
}

func (s *ProductStore) scanList(ctx context.Context, sql string, args []any, withTotal bool) ([]domain.ProductListItem, int64, error) {
	rows, err := s.db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		items []domain.ProductListItem
		total int64
	)
	for rows.Next() {
		var (
			id           pgtype.UUID
			status       string
			totalStock   int64
			lowVariants  int64
			variantCount int64
			item         domain.ProductListItem
		)
		dest := []any{
			&id, &item.Name, &status, &item.Featured, &item.BasePriceCents,
			&item.MinPriceCents, &item.MaxPriceCents, &item.PrimaryImageURL,
			&variantCount, &totalStock, &lowVariants, &item.CreatedAt,
		}
		if withTotal {
			dest = append(dest, &total)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		item.ID = fromPgUUID(id)
		item.Status = domain.ProductStatus(status)
		item.VariantCount = int32(variantCount)
		item.TotalStock = int32(totalStock)
		item.StockStatus = aggregateStockStatus(totalStock, lowVariants)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (s *ProductStore) ListByCursor(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error) {
	const op = "product.list"

	field, desc, err := normalizeSort(sort)
	if err != nil {
		return nil, err
	}
	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = 24
	}

	where, args := buildProductFilter(filter)

	if page.Cursor != "" {
		cur, err := decodeCursor(page.Cursor, field)
		if err != nil {
			return nil, err
		}
		key, err := cursorKeyValue(field, cur.Key)
		if err != nil {
			return nil, err
		}
		cmp := ">"
		if desc {
			cmp = "<"
		}
		args = append(args, key, pgUUID(cur.ID))
		where = append(where, fmt.Sprintf("(%s, p.id) %s ($%d, $%d)", sortColumn(field), cmp, len(args)-1, len(args)))
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	// One extra row decides HasMore without a count query.
	tail := fmt.Sprintf("ORDER BY %s %s, p.id %s\nLIMIT %d", sortColumn(field), dir, dir, limit+1)

	items, _, err := s.queryList(ctx, where, args, tail, false)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list products")
	}

	result := &domain.ProductPage{Items: items}
	if len(items) > int(limit) {
		result.Items = items[:limit]
		result.HasMore = true
		last := result.Items[len(result.Items)-1]
		result.NextCursor = encodeCursor(productCursor{
			Field: field,
			Key:   cursorKey(field, last),
			ID:    last.ID,
		})
	}
	return result, nil
}

func (s *ProductStore) ListAdmin(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.OffsetPage) (*domain.AdminProductPage, error) {
	const op = "product.list_admin"

	field, desc, err := normalizeSort(sort)
	if err != nil {
		return nil, err
	}
	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	where, args := buildProductFilter(filter)

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	tail := fmt.Sprintf("ORDER BY %s %s, p.id %s\nLIMIT %d OFFSET %d", sortColumn(field), dir, dir, limit, offset)

	items, total, err := s.queryList(ctx, where, args, tail, true)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list products")
	}

	return &domain.AdminProductPage{
		Items:  items,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}, nil
}

// =============================================================================
// DETAIL
// =============================================================================

func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const op = "product.get"

	var (
		pid     pgtype.UUID
		status  string
		product domain.Product
	)
	err := s.db.pool.QueryRow(ctx, `
SELECT id, name, description, base_price_cents, status, featured, created_at, updated_at
FROM products
WHERE id = $1`, pgUUID(id)).Scan(
		&pid, &product.Name, &product.Description, &product.BasePriceCents,
		&status, &product.Featured, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get product")
	}
	product.ID = fromPgUUID(pid)
	product.Status = domain.ProductStatus(status)

	if err := s.loadVariants(ctx, &product); err != nil {
		return nil, wrapQueryError(err, op, "failed to load variants")
	}
	if err := s.loadImages(ctx, &product); err != nil {
		return nil, wrapQueryError(err, op, "failed to load images")
	}
	if err := s.loadCategories(ctx, &product); err != nil {
		return nil, wrapQueryError(err, op, "failed to load categories")
	}
	if err := s.loadVariantImages(ctx, &product); err != nil && !isUndefinedTable(err) {
		return nil, wrapQueryError(err, op, "failed to load variant images")
	}
	return &product, nil
}

func (s *ProductStore) loadVariants(ctx context.Context, product *domain.Product) error {
	rows, err := s.db.pool.Query(ctx, `
SELECT v.id, v.sku, v.color, v.size, v.price_override_cents, v.is_active, v.created_at, v.updated_at,
       COALESCE(i.stock, 0), COALESCE(i.reserved_stock, 0), COALESCE(i.low_stock_threshold, 0),
       COALESCE(i.updated_at, v.updated_at)
FROM product_variants v
LEFT JOIN inventory i ON i.variant_id = v.id
WHERE v.product_id = $1
ORDER BY v.created_at, v.id`, pgUUID(product.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			vid      pgtype.UUID
			override pgtype.Int8
			v        domain.ProductVariant
			inv      domain.Inventory
		)
		if err := rows.Scan(
			&vid, &v.SKU, &v.Color, &v.Size, &override, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
			&inv.Stock, &inv.ReservedStock, &inv.LowStockThreshold, &inv.UpdatedAt,
		); err != nil {
			return err
		}
		v.ID = fromPgUUID(vid)
		v.ProductID = product.ID
		v.PriceOverrideCents = fromPgInt8Ptr(override)
		inv.VariantID = v.ID
		v.Inventory = &inv
		product.Variants = append(product.Variants, v)
	}
	return rows.Err()
}

func (s *ProductStore) loadImages(ctx context.Context, product *domain.Product) error {
	rows, err := s.db.pool.Query(ctx, `
SELECT id, url, thumbnail_url, alt_text, display_order, created_at
FROM product_images
WHERE product_id = $1
ORDER BY display_order`, pgUUID(product.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			iid pgtype.UUID
			img domain.ProductImage
		)
		if err := rows.Scan(&iid, &img.URL, &img.ThumbnailURL, &img.AltText, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return err
		}
		img.ID = fromPgUUID(iid)
		img.ProductID = product.ID
		product.Images = append(product.Images, img)
	}
	return rows.Err()
}

func (s *ProductStore) loadCategories(ctx context.Context, product *domain.Product) error {
	rows, err := s.db.pool.Query(ctx, `
SELECT c.id, c.name, c.parent_id
FROM categories c
JOIN product_categories pc ON pc.category_id = c.id
WHERE pc.product_id = $1
ORDER BY c.name`, pgUUID(product.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, parent pgtype.UUID
			c           domain.Category
		)
		if err := rows.Scan(&cid, &c.Name, &parent); err != nil {
			return err
		}
		c.ID = fromPgUUID(cid)
		c.ParentID = fromPgUUIDPtr(parent)
		product.Categories = append(product.Categories, c)
	}
	return rows.Err()
}

func (s *ProductStore) loadVariantImages(ctx context.Context, product *domain.Product) error {
	if len(product.Variants) == 0 {
		return nil
	}
	variantIDs := make([]pgtype.UUID, len(product.Variants))
	byID := make(map[uuid.UUID]int, len(product.Variants))
	for i, v := range product.Variants {
		variantIDs[i] = pgUUID(v.ID)
		byID[v.ID] = i
	}

	rows, err := s.db.pool.Query(ctx, `
SELECT id, variant_id, url, display_order
FROM variant_images
WHERE variant_id = ANY($1)
ORDER BY display_order`, variantIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			iid, vid pgtype.UUID
			img      domain.VariantImage
		)
		if err := rows.Scan(&iid, &vid, &img.URL, &img.DisplayOrder); err != nil {
			return err
		}
		img.ID = fromPgUUID(iid)
		img.VariantID = fromPgUUID(vid)
		if i, ok := byID[img.VariantID]; ok {
			product.Variants[i].Images = append(product.Variants[i].Images, img)
		}
	}
	return rows.Err()
}

func (s *ProductStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := s.db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_variants WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, wrapQueryError(err, "product.sku_exists", "failed to check SKU")
	}
	return exists, nil
}

// =============================================================================
// WRITES
// =============================================================================

// variantImagesPresent checks for the optional table before a write touches
// it; an undefined_table error inside a transaction would abort the whole tx.
func variantImagesPresent(ctx context.Context, q querier) (bool, error) {
	var present bool
	err := q.QueryRow(ctx, `SELECT to_regclass('variant_images') IS NOT NULL`).Scan(&present)
	return present, err
}

func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	const op = "product.create"

	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO products (id, name, description, base_price_cents, status, featured)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at`,
			pgUUID(product.ID), product.Name, product.Description,
			product.BasePriceCents, string(product.Status), product.Featured,
		).Scan(&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return err
		}

		for i := range product.Variants {
			if err := insertVariant(ctx, tx, product.ID, &product.Variants[i]); err != nil {
				return err
			}
		}
		if err := replaceImages(ctx, tx, product.ID, product.Images); err != nil {
			return err
		}
		return insertCategoryLinks(ctx, tx, product.ID, product.Categories)
	})
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicateSKU
		case isForeignKeyViolation(err):
			return domain.ErrCategoryNotFound
		}
		return wrapQueryError(err, op, "failed to create product")
	}
	return nil
}

func insertVariant(ctx context.Context, tx pgx.Tx, productID uuid.UUID, v *domain.ProductVariant) error {
	err := tx.QueryRow(ctx, `
INSERT INTO product_variants (id, product_id, sku, color, size, price_override_cents, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`,
		pgUUID(v.ID), pgUUID(productID), v.SKU, v.Color, v.Size,
		pgInt8Ptr(v.PriceOverrideCents), v.IsActive,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return err
	}
	if v.Inventory == nil {
		v.Inventory = &domain.Inventory{VariantID: v.ID}
	}
	return tx.QueryRow(ctx, `
INSERT INTO inventory (variant_id, stock, reserved_stock, low_stock_threshold)
VALUES ($1, $2, $3, $4)
RETURNING updated_at`,
		pgUUID(v.ID), v.Inventory.Stock, v.Inventory.ReservedStock, v.Inventory.LowStockThreshold,
	).Scan(&v.Inventory.UpdatedAt)
}

func upsertVariant(ctx context.Context, tx pgx.Tx, productID uuid.UUID, v *domain.ProductVariant) error {
	err := tx.QueryRow(ctx, `
INSERT INTO product_variants (id, product_id, sku, color, size, price_override_cents, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    sku = EXCLUDED.sku,
    color = EXCLUDED.color,
    size = EXCLUDED.size,
    price_override_cents = EXCLUDED.price_override_cents,
    is_active = EXCLUDED.is_active,
    updated_at = now()
RETURNING created_at, updated_at`,
		pgUUID(v.ID), pgUUID(productID), v.SKU, v.Color, v.Size,
		pgInt8Ptr(v.PriceOverrideCents), v.IsActive,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return err
	}
	if v.Inventory == nil {
		v.Inventory = &domain.Inventory{VariantID: v.ID}
	}
	return tx.QueryRow(ctx, `
INSERT INTO inventory (variant_id, stock, reserved_stock, low_stock_threshold)
VALUES ($1, $2, $3, $4)
ON CONFLICT (variant_id) DO UPDATE SET
    stock = EXCLUDED.stock,
    low_stock_threshold = EXCLUDED.low_stock_threshold,
    updated_at = now()
RETURNING updated_at`,
		pgUUID(v.ID), v.Inventory.Stock, v.Inventory.ReservedStock, v.Inventory.LowStockThreshold,
	).Scan(&v.Inventory.UpdatedAt)
}

func replaceImages(ctx context.Context, tx pgx.Tx, productID uuid.UUID, images []domain.ProductImage) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, pgUUID(productID)); err != nil {
		return err
	}
	for i := range images {
		img := &images[i]
		err := tx.QueryRow(ctx, `
INSERT INTO product_images (id, product_id, url, thumbnail_url, alt_text, display_order)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`,
			pgUUID(img.ID), pgUUID(productID), img.URL, img.ThumbnailURL, img.AltText, img.DisplayOrder,
		).Scan(&img.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertCategoryLinks(ctx context.Context, tx pgx.Tx, productID uuid.UUID, categories []domain.Category) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, pgUUID(productID)); err != nil {
		return err
	}
	for _, c := range categories {
		_, err := tx.Exec(ctx, `
INSERT INTO product_categories (product_id, category_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`, pgUUID(productID), pgUUID(c.ID))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ProductStore) Update(ctx context.Context, product *domain.Product, variantsToDelete []uuid.UUID) error {
	const op = "product.update"

	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
UPDATE products
SET name = $2, description = $3, base_price_cents = $4, status = $5, featured = $6, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`,
			pgUUID(product.ID), product.Name, product.Description,
			product.BasePriceCents, string(product.Status), product.Featured,
		).Scan(&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrProductNotFound
			}
			return err
		}

		if len(variantsToDelete) > 0 {
			hasVariantImages, err := variantImagesPresent(ctx, tx)
			if err != nil {
				return err
			}
			for _, id := range variantsToDelete {
				if err := deleteVariant(ctx, tx, product.ID, id, hasVariantImages); err != nil {
					return err
				}
			}
		}

		for i := range product.Variants {
			if err := upsertVariant(ctx, tx, product.ID, &product.Variants[i]); err != nil {
				return err
			}
		}
		if err := replaceImages(ctx, tx, product.ID, product.Images); err != nil {
			return err
		}
		return insertCategoryLinks(ctx, tx, product.ID, product.Categories)
	})
	if err != nil {
		var derr *domain.Error
		switch {
		case errors.As(err, &derr):
			return err
		case isUniqueViolation(err):
			return domain.ErrDuplicateSKU
		case isForeignKeyViolation(err):
			return domain.ErrCategoryNotFound
		}
		return wrapQueryError(err, op, "failed to update product")
	}
	return nil
}

// deleteVariant removes one variant and everything hanging off it. Order
// items keep their snapshot; their variant_id nulls out via the FK.
func deleteVariant(ctx context.Context, tx pgx.Tx, productID, variantID uuid.UUID, hasVariantImages bool) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE variant_id = $1`, pgUUID(variantID)); err != nil {
		return err
	}
	if hasVariantImages {
		if _, err := tx.Exec(ctx, `DELETE FROM variant_images WHERE variant_id = $1`, pgUUID(variantID)); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM inventory WHERE variant_id = $1`, pgUUID(variantID)); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM product_variants WHERE id = $1 AND product_id = $2`,
		pgUUID(variantID), pgUUID(productID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVariantNotFound
	}
	return nil
}

func (s *ProductStore) ReferenceCounts(ctx context.Context, productID uuid.UUID) (cartRefs, orderRefs int64, err error) {
	const op = "product.reference_counts"

	err = s.db.pool.QueryRow(ctx, `
SELECT
    (SELECT COUNT(*)
     FROM cart_items ci
     JOIN carts c ON c.id = ci.cart_id
     WHERE c.status = 'active'
       AND ci.variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)),
    (SELECT COUNT(*)
     FROM order_items oi
     JOIN orders o ON o.id = oi.order_id
     WHERE o.status <> 'cancelled'
       AND oi.variant_id IN (SELECT id FROM product_variants WHERE product_id = $1))`,
		pgUUID(productID)).Scan(&cartRefs, &orderRefs)
	if err != nil {
		return 0, 0, wrapQueryError(err, op, "failed to count references")
	}
	return cartRefs, orderRefs, nil
}

func (s *ProductStore) Delete(ctx context.Context, productID uuid.UUID) error {
	const op = "product.delete"

	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		hasVariantImages, err := variantImagesPresent(ctx, tx)
		if err != nil {
			return err
		}

		id := pgUUID(productID)
		steps := []string{
			`DELETE FROM cart_items WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
		}
		if hasVariantImages {
			steps = append(steps,
				`DELETE FROM variant_images WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`)
		}
		steps = append(steps,
			`DELETE FROM inventory WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = $1)`,
			`DELETE FROM product_variants WHERE product_id = $1`,
			`DELETE FROM product_images WHERE product_id = $1`,
			`DELETE FROM product_categories WHERE product_id = $1`,
			`DELETE FROM product_reviews WHERE product_id = $1`,
			`DELETE FROM wishlist_items WHERE product_id = $1`,
		)
		for _, q := range steps {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return err
		}
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return wrapQueryError(err, op, "failed to delete product")
	}
	return nil
}

func (s *ProductStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "product.list_categories"

	rows, err := s.db.pool.Query(ctx, `SELECT id, name, parent_id FROM categories ORDER BY name`)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var (
			cid, parent pgtype.UUID
			c           domain.Category
		)
		if err := rows.Scan(&cid, &c.Name, &parent); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan category")
		}
		c.ID = fromPgUUID(cid)
		c.ParentID = fromPgUUIDPtr(parent)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to list categories")
	}
	return categories, nil
}

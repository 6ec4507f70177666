package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// ProductStatus represents the lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusDraft ProductStatus = "draft"
	ProductStatusLive  ProductStatus = "live"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	return s == ProductStatusDraft || s == ProductStatusLive
}

// Product is a catalog entry. Variants carry the purchasable SKUs; the
// product itself holds shared attributes and the base price.
type Product struct {
	ID             uuid.UUID
	Name           string
	Description    string
	BasePriceCents int64
	Status         ProductStatus
	Featured       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categories []Category
	Variants   []ProductVariant
	Images     []ProductImage
}

// ProductVariant is a specific color/size combination with its own SKU,
// optional price override and a 1:1 inventory row.
type ProductVariant struct {
	ID                 uuid.UUID
	ProductID          uuid.UUID
	SKU                string
	Color              string
	Size               string
	PriceOverrideCents *int64 // nil means the product base price applies
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Inventory *Inventory
	Images    []VariantImage
}

// EffectivePriceCents resolves the variant price against the product base price.
func (v ProductVariant) EffectivePriceCents(basePriceCents int64) int64 {
	if v.PriceOverrideCents != nil {
		return *v.PriceOverrideCents
	}
	return basePriceCents
}

// ProductImage is a product-level image. The image at display_order 0 is the
// primary image; exactly one exists per product.
type ProductImage struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	URL          string
	ThumbnailURL string
	AltText      string
	DisplayOrder int32
	CreatedAt    time.Time
}

// IsPrimary reports whether this image is the product's primary image.
func (i ProductImage) IsPrimary() bool { return i.DisplayOrder == 0 }

// VariantImage is a variant-scoped image (e.g. the navy colorway). The
// variant_images table is optional in older schemas; queries joining it fall
// back to running without the join when it is absent.
type VariantImage struct {
	ID           uuid.UUID
	VariantID    uuid.UUID
	URL          string
	DisplayOrder int32
}

// Category groups products; ParentID forms a simple tree.
type Category struct {
	ID       uuid.UUID
	Name     string
	ParentID *uuid.UUID
}

// =============================================================================
// LISTING TYPES
// =============================================================================

// ProductListItem is the denormalized row returned by listing endpoints:
// primary image, price range across variants and aggregate stock.
type ProductListItem struct {
	ID              uuid.UUID
	Name            string
	Status          ProductStatus
	Featured        bool
	BasePriceCents  int64
	MinPriceCents   int64
	MaxPriceCents   int64
	PrimaryImageURL string
	VariantCount    int32
	TotalStock      int32
	StockStatus     StockStatus
	CreatedAt       time.Time
}

// ProductFilter contains optional filters for product listing.
// Nil fields are not applied.
type ProductFilter struct {
	Status     *ProductStatus
	Featured   *bool
	CategoryID *uuid.UUID
	Search     *string // matches name and variant SKU, case-insensitive
}

// ProductSort orders listing results. Field is one of "created_at", "name",
// "base_price"; zero value sorts newest first.
type ProductSort struct {
	Field string
	Desc  bool
}

// DefaultPageLimit and MaxPageLimit bound the storefront listing page size.
const (
	DefaultPageLimit int32 = 24
	MaxPageLimit     int32 = 100
)

// CursorPage requests a keyset-paginated page for the storefront listing.
type CursorPage struct {
	Cursor string // opaque, from a previous page; empty means start
	Limit  int32
}

// ProductPage is one storefront page plus the cursor for the next one.
type ProductPage struct {
	Items      []ProductListItem
	NextCursor string
	HasMore    bool
}

// OffsetPage requests an offset-paginated page for the admin listing.
type OffsetPage struct {
	Offset int32
	Limit  int32
}

// AdminProductPage is one admin page with the total row count.
type AdminProductPage struct {
	Items  []ProductListItem
	Total  int64
	Offset int32
	Limit  int32
}

// =============================================================================
// PARAMETER TYPES
// =============================================================================

// VariantInput is one variant in a create/update payload. On update, a nil ID
// creates a new variant, a known ID updates it, and variants absent from the
// payload are deleted.
type VariantInput struct {
	ID                 *uuid.UUID
	SKU                string // optional; generated from name/color/size when empty
	Color              string
	Size               string
	PriceOverrideCents *int64
	IsActive           bool
	Stock              int32
	LowStockThreshold  int32
}

// ImageInput is one image in a create/update payload.
type ImageInput struct {
	URL          string
	ThumbnailURL string
	AltText      string
}

// CreateProductParams contains the nested payload for product creation.
type CreateProductParams struct {
	Name           string
	Description    string
	BasePriceCents int64
	Status         ProductStatus
	Featured       bool
	CategoryIDs    []uuid.UUID
	Variants       []VariantInput
	Images         []ImageInput

	// PrimaryImageIndex selects which entry of Images becomes display_order 0.
	PrimaryImageIndex int

	// IdempotencyKey, when set, lets a retried request return the product
	// created by the first attempt instead of creating a duplicate.
	IdempotencyKey string
}

// UpdateProductParams contains the nested payload for a wholesale update.
// Variants are reconciled by ID; images are replaced outright.
type UpdateProductParams struct {
	Name              string
	Description       string
	BasePriceCents    int64
	Status            ProductStatus
	Featured          bool
	CategoryIDs       []uuid.UUID
	Variants          []VariantInput
	Images            []ImageInput
	PrimaryImageIndex int
}

// =============================================================================
// SERVICE INTERFACES
// =============================================================================

// ProductService provides business logic for the product catalog.
type ProductService interface {
	// ListProducts returns a storefront page of live products.
	ListProducts(ctx context.Context, filter ProductFilter, sort ProductSort, page CursorPage) (*ProductPage, error)

	// ListProductsAdmin returns an admin page of products in any status.
	ListProductsAdmin(ctx context.Context, filter ProductFilter, sort ProductSort, page OffsetPage) (*AdminProductPage, error)

	// GetProduct retrieves a live product with variants, inventory and images.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetProductAdmin retrieves a product in any status.
	GetProductAdmin(ctx context.Context, id uuid.UUID) (*Product, error)

	// CreateProduct creates a product with its variants, inventory rows and
	// images in one transaction, and writes an audit row.
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct reconciles variants by ID and replaces images, in one
	// transaction, and writes an audit row.
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error)

	// DeleteProduct refuses while any variant is referenced by an active cart
	// or a non-cancelled order, then cascades the delete bottom-up.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]Category, error)
}

// ProductStore is the persistence contract the product service runs on.
// Implemented by the postgres package.
type ProductStore interface {
	ListByCursor(ctx context.Context, filter ProductFilter, sort ProductSort, page CursorPage) (*ProductPage, error)
	ListAdmin(ctx context.Context, filter ProductFilter, sort ProductSort, page OffsetPage) (*AdminProductPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	SKUExists(ctx context.Context, sku string) (bool, error)

	// Create persists the whole aggregate in one transaction. Variant SKUs
	// must already be resolved by the caller.
	Create(ctx context.Context, product *Product) error

	// Update persists the reconciled aggregate in one transaction:
	// variantsToDelete are removed (with their inventory and images), the
	// rest of the aggregate is upserted, and images are replaced.
	Update(ctx context.Context, product *Product, variantsToDelete []uuid.UUID) error

	// ReferenceCounts reports how many active-cart and non-cancelled-order
	// rows reference any variant of the product.
	ReferenceCounts(ctx context.Context, productID uuid.UUID) (cartRefs, orderRefs int64, err error)

	// Delete cascades bottom-up inside one transaction. It does not check
	// references; the service runs the guard first.
	Delete(ctx context.Context, productID uuid.UUID) error

	ListCategories(ctx context.Context) ([]Category, error)
}

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrVariantNotFound  = &Error{Code: ENOTFOUND, Message: "Variant not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}

	ErrDuplicateSKU = &Error{Code: ECONFLICT, Message: "SKU already exists"}

	// ErrProductInUse blocks deletion while carts or orders reference a variant.
	ErrProductInUse = &Error{Code: ECONFLICT, Message: "Product has variants in active carts or open orders and cannot be deleted"}
)

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StockStatus is derived from stock and the low-stock threshold, never stored.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// StockAction selects how UpdateStock applies a quantity.
type StockAction string

const (
	StockActionSet      StockAction = "set"
	StockActionAdd      StockAction = "add"
	StockActionSubtract StockAction = "subtract"
)

// Valid reports whether a is a known stock action.
func (a StockAction) Valid() bool {
	return a == StockActionSet || a == StockActionAdd || a == StockActionSubtract
}

// Inventory is the 1:1 stock row for a variant.
type Inventory struct {
	VariantID         uuid.UUID
	Stock             int32
	ReservedStock     int32
	LowStockThreshold int32
	UpdatedAt         time.Time
}

// AvailableStock is stock minus reservations, floored at zero.
func (i Inventory) AvailableStock() int32 {
	if avail := i.Stock - i.ReservedStock; avail > 0 {
		return avail
	}
	return 0
}

// Status derives the stock status: out_of_stock at zero, low_stock at or
// below the threshold, in_stock otherwise.
func (i Inventory) Status() StockStatus {
	return DeriveStockStatus(i.Stock, i.LowStockThreshold)
}

// DeriveStockStatus is the single source of the status rule, shared by
// aggregate queries that compute it in SQL-shaped rows.
func DeriveStockStatus(stock, threshold int32) StockStatus {
	switch {
	case stock == 0:
		return StockStatusOutOfStock
	case stock <= threshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// InventoryItem is one row of the admin inventory listing, denormalized with
// its product and variant identity.
type InventoryItem struct {
	VariantID         uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	SKU               string
	Color             string
	Size              string
	Stock             int32
	ReservedStock     int32
	AvailableStock    int32
	LowStockThreshold int32
	Status            StockStatus
	UpdatedAt         time.Time
}

// InventoryFilter narrows the inventory listing.
type InventoryFilter struct {
	Status *StockStatus
	Search *string // matches SKU and product name, case-insensitive
}

// InventoryPage is one page of inventory rows with the filtered total.
type InventoryPage struct {
	Items  []InventoryItem
	Total  int64
	Offset int32
	Limit  int32
}

// InventoryStats aggregates counts by derived stock status.
type InventoryStats struct {
	TotalVariants int64
	InStock       int64
	LowStock      int64
	OutOfStock    int64
	TotalUnits    int64
}

// UpdateStockParams applies a stock mutation to one variant.
type UpdateStockParams struct {
	Action   StockAction
	Quantity int32
}

// InventoryService provides stock listing and mutation.
type InventoryService interface {
	// ListInventory returns a filtered, paginated inventory view.
	ListInventory(ctx context.Context, filter InventoryFilter, page OffsetPage) (*InventoryPage, error)

	// GetInventoryStats returns aggregate counts by stock status.
	GetInventoryStats(ctx context.Context) (*InventoryStats, error)

	// UpdateStock validates quantity >= 0 and action in {set, add, subtract},
	// then applies the delta. Subtract floors at zero.
	UpdateStock(ctx context.Context, variantID uuid.UUID, params UpdateStockParams) (*InventoryItem, error)
}

// InventoryStore is the persistence contract for inventory.
type InventoryStore interface {
	List(ctx context.Context, filter InventoryFilter, page OffsetPage) (*InventoryPage, error)
	Stats(ctx context.Context) (*InventoryStats, error)

	// ApplyStock mutates the row in a single UPDATE so the zero floor holds
	// under concurrent writers, and returns the denormalized result.
	ApplyStock(ctx context.Context, variantID uuid.UUID, action StockAction, quantity int32) (*InventoryItem, error)
}

var ErrInventoryNotFound = &Error{Code: ENOTFOUND, Message: "Inventory row not found"}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartStatus tracks whether a cart is still open.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
	CartStatusAbandoned CartStatus = "abandoned"
)

// Cart is a shopping cart. Anonymous carts have a nil CustomerID and are
// addressed by ID from a client-held token.
type Cart struct {
	ID         uuid.UUID
	CustomerID *uuid.UUID
	Status     CartStatus
	Items      []CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SubtotalCents sums the line totals.
func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.TotalCents()
	}
	return total
}

// CartItem is one variant line in a cart, denormalized for display.
type CartItem struct {
	ID             uuid.UUID
	CartID         uuid.UUID
	VariantID      uuid.UUID
	SKU            string
	ProductName    string
	Color          string
	Size           string
	Quantity       int32
	UnitPriceCents int64
	AvailableStock int32
}

// TotalCents is the line total.
func (i CartItem) TotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// CartService provides cart operations for the storefront.
type CartService interface {
	// GetCart returns the cart, creating an empty active one when id is nil.
	GetCart(ctx context.Context, id *uuid.UUID) (*Cart, error)

	// AddItem adds a variant to the cart, merging quantity into an existing
	// line and clamping to available stock.
	AddItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*Cart, error)

	// UpdateItem sets a line's quantity; zero removes the line.
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*Cart, error)

	// RemoveItem deletes a line.
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*Cart, error)
}

// CartStore is the persistence contract for carts.
type CartStore interface {
	Create(ctx context.Context) (*Cart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) error
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error

	// VariantAvailability returns unit price and available stock for a
	// variant, used to clamp quantities at add time.
	VariantAvailability(ctx context.Context, variantID uuid.UUID) (priceCents int64, available int32, err error)
}

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrCartConverted    = &Error{Code: ECONFLICT, Message: "Cart has already been checked out"}
	ErrCartEmpty        = &Error{Code: EINVALID, Message: "Cart is empty"}
)

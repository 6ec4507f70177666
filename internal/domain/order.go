package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ORDER DOMAIN TYPES
// =============================================================================

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the allowed forward transitions. Cancellation is
// allowed from pending and paid; cancelling a shipped order is not.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPaid:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// Address is a shipping destination, embedded on the order.
type Address struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// Order is a placed order with denormalized item snapshots.
type Order struct {
	ID              uuid.UUID
	OrderNumber     string
	CustomerID      *uuid.UUID
	Email           string
	Status          OrderStatus
	SubtotalCents   int64
	DiscountCents   int64
	ShippingCents   int64
	TotalCents      int64
	PromoCode       string
	PaymentIntentID string
	CartID          uuid.UUID // originating cart; converted when the order is paid
	ShippingAddress Address
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem snapshots a variant at purchase time so later catalog edits do
// not rewrite order history.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	VariantID      uuid.UUID
	SKU            string
	ProductName    string
	Color          string
	Size           string
	Quantity       int32
	UnitPriceCents int64
	TotalCents     int64
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status *OrderStatus
	Email  *string
}

// OrderPage is one page of orders with the filtered total.
type OrderPage struct {
	Items  []Order
	Total  int64
	Offset int32
	Limit  int32
}

// CreateOrderParams places a pending order from a cart.
type CreateOrderParams struct {
	CartID          uuid.UUID
	CustomerID      *uuid.UUID
	Email           string
	ShippingAddress Address
	PromoCode       string
}

// =============================================================================
// SERVICE INTERFACES
// =============================================================================

// OrderService provides order placement and lifecycle management.
type OrderService interface {
	// CreateOrder places a pending order from the cart: prices items, applies
	// the promo code, adds flat shipping and snapshots the items.
	CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error)

	// GetOrder retrieves an order with items.
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrders returns an admin page of orders.
	ListOrders(ctx context.Context, filter OrderFilter, page OffsetPage) (*OrderPage, error)

	// UpdateStatus applies an admin status transition, enforcing
	// CanTransitionTo. Cancelling a paid order restores stock.
	UpdateStatus(ctx context.Context, id uuid.UUID, next OrderStatus) (*Order, error)

	// CancelOrder is the storefront compensating cancel used when the payment
	// modal is dismissed. Cancelling an already-cancelled order is a no-op;
	// cancelling a paid order is refused.
	CancelOrder(ctx context.Context, id uuid.UUID) error

	// MarkPaid transitions pending -> paid, records the payment reference,
	// decrements stock and converts the originating cart. Idempotent: marking
	// an already-paid order again succeeds without side effects.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) (*Order, error)
}

// OrderStore is the persistence contract for orders.
type OrderStore interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Order, error)
	List(ctx context.Context, filter OrderFilter, page OffsetPage) (*OrderPage, error)

	// UpdateStatus persists a status change. When restock is true the items'
	// stock is returned to inventory in the same transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, next OrderStatus, restock bool) error

	// MarkPaid sets status=paid and the payment reference, decrements stock
	// for each item and converts the cart, all in one transaction.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) error
}

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}

	// ErrOrderNotCancellable is returned when cancelling an order that has
	// already been paid or shipped.
	ErrOrderNotCancellable = &Error{Code: ECONFLICT, Message: "Order can no longer be cancelled"}

	ErrInvalidTransition = &Error{Code: ECONFLICT, Message: "Invalid order status transition"}
)

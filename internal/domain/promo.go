package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PromoKind selects how a promo code discounts the subtotal.
type PromoKind string

const (
	PromoKindPercent PromoKind = "percent"
	PromoKindFixed   PromoKind = "fixed"
)

// PromoCode is a discount code. Value is a whole percentage for percent
// codes and cents for fixed codes.
type PromoCode struct {
	ID               uuid.UUID
	Code             string
	Kind             PromoKind
	Value            int64
	MinSubtotalCents int64
	MaxUses          int32 // 0 means unlimited
	UsedCount        int32
	StartsAt         *time.Time
	EndsAt           *time.Time
	IsActive         bool
	CreatedAt        time.Time
}

// PromoValidation is the result of validating a code against a subtotal.
type PromoValidation struct {
	Code          string
	Valid         bool
	Reason        string // set when Valid is false
	DiscountCents int64
}

// PromoService validates promo codes against a cart subtotal.
type PromoService interface {
	// ValidatePromo checks the code's active window, usage cap and minimum
	// subtotal, and computes the discount clamped to the subtotal.
	ValidatePromo(ctx context.Context, code string, subtotalCents int64) (*PromoValidation, error)

	// RedeemPromo increments the usage counter at order placement.
	RedeemPromo(ctx context.Context, code string) error
}

// PromoStore is the persistence contract for promo codes.
type PromoStore interface {
	GetByCode(ctx context.Context, code string) (*PromoCode, error)
	IncrementUsage(ctx context.Context, code string) error
}

var ErrPromoNotFound = &Error{Code: ENOTFOUND, Message: "Promo code not found"}

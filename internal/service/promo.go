package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier/internal/domain"
)

type promoService struct {
	store domain.PromoStore
	now   func() time.Time
}

// NewPromoService creates the promo validation service.
func NewPromoService(store domain.PromoStore) domain.PromoService {
	return &promoService{store: store, now: time.Now}
}

func (s *promoService) ValidatePromo(ctx context.Context, code string, subtotalCents int64) (*domain.PromoValidation, error) {
	const op = "promo.validate"

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Invalid(op, "promo code is required")
	}
	if subtotalCents < 0 {
		return nil, domain.Invalid(op, "subtotal cannot be negative")
	}

	promo, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrPromoNotFound) {
			return invalid(code, "Unknown promo code"), nil
		}
		return nil, err
	}

	now := s.now()
	switch {
	case !promo.IsActive:
		return invalid(promo.Code, "This promo code is no longer active"), nil
	case promo.StartsAt != nil && now.Before(*promo.StartsAt):
		return invalid(promo.Code, "This promo code is not active yet"), nil
	case promo.EndsAt != nil && now.After(*promo.EndsAt):
		return invalid(promo.Code, "This promo code has expired"), nil
	case promo.MaxUses > 0 && promo.UsedCount >= promo.MaxUses:
		return invalid(promo.Code, "This promo code has been fully redeemed"), nil
	case subtotalCents < promo.MinSubtotalCents:
		return invalid(promo.Code, "Order subtotal is below the minimum for this code"), nil
	}

	return &domain.PromoValidation{
		Code:          promo.Code,
		Valid:         true,
		DiscountCents: discountCents(promo, subtotalCents),
	}, nil
}

func (s *promoService) RedeemPromo(ctx context.Context, code string) error {
	return s.store.IncrementUsage(ctx, strings.TrimSpace(code))
}

// discountCents computes the discount, clamped to the subtotal. Percent math
// runs in decimals so 15% of $33.33 rounds once, at the end.
func discountCents(promo *domain.PromoCode, subtotalCents int64) int64 {
	var discount int64
	switch promo.Kind {
	case domain.PromoKindPercent:
		discount = decimal.NewFromInt(subtotalCents).
			Mul(decimal.NewFromInt(promo.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case domain.PromoKindFixed:
		discount = promo.Value
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func invalid(code, reason string) *domain.PromoValidation {
	return &domain.PromoValidation{Code: code, Valid: false, Reason: reason}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/domain"
)

func promoFixture() *domain.PromoCode {
	return &domain.PromoCode{
		Code:     "WELCOME10",
		Kind:     domain.PromoKindPercent,
		Value:    10,
		IsActive: true,
	}
}

func newPromoService(promo *domain.PromoCode, now time.Time) domain.PromoService {
	store := &mockPromoStore{
		GetByCodeFunc: func(ctx context.Context, code string) (*domain.PromoCode, error) {
			if promo == nil {
				return nil, domain.ErrPromoNotFound
			}
			return promo, nil
		},
	}
	svc := NewPromoService(store).(*promoService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPromoService_ValidatePromo(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("percent discount uses decimal math", func(t *testing.T) {
		promo := promoFixture()
		promo.Value = 15
		svc := newPromoService(promo, now)

		// 15% of $33.33 is 499.95 cents; a single final round gives 500.
		result, err := svc.ValidatePromo(context.Background(), "WELCOME10", 3333)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(500), result.DiscountCents)
	})

	t.Run("fixed discount clamps to the subtotal", func(t *testing.T) {
		promo := promoFixture()
		promo.Kind = domain.PromoKindFixed
		promo.Value = 2000
		svc := newPromoService(promo, now)

		result, err := svc.ValidatePromo(context.Background(), "WELCOME10", 1500)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(1500), result.DiscountCents)
	})

	t.Run("unknown codes are invalid, not errors", func(t *testing.T) {
		svc := newPromoService(nil, now)
		result, err := svc.ValidatePromo(context.Background(), "NOPE", 1000)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "Unknown promo code", result.Reason)
	})

	t.Run("window checks", func(t *testing.T) {
		future := now.Add(time.Hour)
		past := now.Add(-time.Hour)

		promo := promoFixture()
		promo.StartsAt = &future
		result, err := newPromoService(promo, now).ValidatePromo(context.Background(), "WELCOME10", 1000)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "not active yet")

		promo = promoFixture()
		promo.EndsAt = &past
		result, err = newPromoService(promo, now).ValidatePromo(context.Background(), "WELCOME10", 1000)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "expired")
	})

	t.Run("usage cap", func(t *testing.T) {
		promo := promoFixture()
		promo.MaxUses = 100
		promo.UsedCount = 100
		result, err := newPromoService(promo, now).ValidatePromo(context.Background(), "WELCOME10", 1000)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "fully redeemed")
	})

	t.Run("minimum subtotal", func(t *testing.T) {
		promo := promoFixture()
		promo.MinSubtotalCents = 5000
		result, err := newPromoService(promo, now).ValidatePromo(context.Background(), "WELCOME10", 4999)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "minimum")
	})

	t.Run("blank code is a validation error", func(t *testing.T) {
		svc := newPromoService(promoFixture(), now)
		_, err := svc.ValidatePromo(context.Background(), "  ", 1000)
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

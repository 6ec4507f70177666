package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/domain"
)

func TestInventoryService_UpdateStock(t *testing.T) {
	variantID := uuid.New()

	t.Run("rejects unknown actions", func(t *testing.T) {
		svc := NewInventoryService(&mockInventoryStore{})
		_, err := svc.UpdateStock(context.Background(), variantID, domain.UpdateStockParams{
			Action: "increment", Quantity: 1,
		})
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("rejects negative quantities", func(t *testing.T) {
		svc := NewInventoryService(&mockInventoryStore{})
		_, err := svc.UpdateStock(context.Background(), variantID, domain.UpdateStockParams{
			Action: domain.StockActionAdd, Quantity: -5,
		})
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("subtract floors at zero with derived status", func(t *testing.T) {
		// stock 10, threshold 5, subtract 15 -> 0, out_of_stock
		store := &mockInventoryStore{
			ApplyStockFunc: func(ctx context.Context, id uuid.UUID, action domain.StockAction, quantity int32) (*domain.InventoryItem, error) {
				assert.Equal(t, variantID, id)
				assert.Equal(t, domain.StockActionSubtract, action)
				assert.Equal(t, int32(15), quantity)
				return &domain.InventoryItem{
					VariantID:         id,
					Stock:             0,
					LowStockThreshold: 5,
					Status:            domain.DeriveStockStatus(0, 5),
				}, nil
			},
		}
		svc := NewInventoryService(store)

		item, err := svc.UpdateStock(context.Background(), variantID, domain.UpdateStockParams{
			Action: domain.StockActionSubtract, Quantity: 15,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(0), item.Stock)
		assert.Equal(t, domain.StockStatusOutOfStock, item.Status)
	})
}

func TestDeriveStockStatus(t *testing.T) {
	assert.Equal(t, domain.StockStatusOutOfStock, domain.DeriveStockStatus(0, 5))
	assert.Equal(t, domain.StockStatusLowStock, domain.DeriveStockStatus(5, 5))
	assert.Equal(t, domain.StockStatusLowStock, domain.DeriveStockStatus(1, 5))
	assert.Equal(t, domain.StockStatusInStock, domain.DeriveStockStatus(6, 5))
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

type inventoryService struct {
	store domain.InventoryStore
}

// NewInventoryService creates the inventory service.
func NewInventoryService(store domain.InventoryStore) domain.InventoryService {
	return &inventoryService{store: store}
}

func (s *inventoryService) ListInventory(ctx context.Context, filter domain.InventoryFilter, page domain.OffsetPage) (*domain.InventoryPage, error) {
	return s.store.List(ctx, filter, page)
}

func (s *inventoryService) GetInventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	return s.store.Stats(ctx)
}

func (s *inventoryService) UpdateStock(ctx context.Context, variantID uuid.UUID, params domain.UpdateStockParams) (*domain.InventoryItem, error) {
	const op = "inventory.update"

	if !params.Action.Valid() {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown stock action %q", params.Action))
	}
	if params.Quantity < 0 {
		return nil, domain.Invalid(op, "quantity cannot be negative")
	}

	return s.store.ApplyStock(ctx, variantID, params.Action, params.Quantity)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

type cartService struct {
	store domain.CartStore
}

// NewCartService creates the storefront cart service.
func NewCartService(store domain.CartStore) domain.CartService {
	return &cartService{store: store}
}

func (s *cartService) GetCart(ctx context.Context, id *uuid.UUID) (*domain.Cart, error) {
	if id == nil {
		return s.store.Create(ctx)
	}
	return s.store.GetByID(ctx, *id)
}

func (s *cartService) AddItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.Cart, error) {
	const op = "cart.add"

	if quantity <= 0 {
		return nil, domain.Invalid(op, "quantity must be positive")
	}

	cart, err := s.store.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Status != domain.CartStatusActive {
		return nil, domain.ErrCartConverted
	}

	_, available, err := s.store.VariantAvailability(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if available == 0 {
		return nil, domain.Invalid(op, "Variant is out of stock")
	}

	// Merge into an existing line, clamping the total to available stock.
	if line := findLineByVariant(cart, variantID); line != nil {
		next := line.Quantity + quantity
		if next > available {
			next = available
		}
		if err := s.store.SetItemQuantity(ctx, cartID, line.ID, next); err != nil {
			return nil, err
		}
	} else {
		if quantity > available {
			quantity = available
		}
		if err := s.store.UpsertItem(ctx, cartID, variantID, quantity); err != nil {
			return nil, err
		}
	}

	return s.store.GetByID(ctx, cartID)
}

func (s *cartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.Cart, error) {
	const op = "cart.update"

	if quantity < 0 {
		return nil, domain.Invalid(op, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	cart, err := s.store.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Status != domain.CartStatusActive {
		return nil, domain.ErrCartConverted
	}

	line := findLineByID(cart, itemID)
	if line == nil {
		return nil, domain.ErrCartItemNotFound
	}

	_, available, err := s.store.VariantAvailability(ctx, line.VariantID)
	if err != nil {
		return nil, err
	}
	if quantity > available {
		quantity = available
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	if err := s.store.SetItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, cartID)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.Cart, error) {
	if err := s.store.DeleteItem(ctx, cartID, itemID); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, cartID)
}

func findLineByVariant(cart *domain.Cart, variantID uuid.UUID) *domain.CartItem {
	for i := range cart.Items {
		if cart.Items[i].VariantID == variantID {
			return &cart.Items[i]
		}
	}
	return nil
}

func findLineByID(cart *domain.Cart, itemID uuid.UUID) *domain.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return &cart.Items[i]
		}
	}
	return nil
}

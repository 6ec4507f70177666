package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

type customerService struct {
	store domain.CustomerStore
}

// NewCustomerService creates the admin customer view service.
func NewCustomerService(store domain.CustomerStore) domain.CustomerService {
	return &customerService{store: store}
}

func (s *customerService) ListCustomers(ctx context.Context, filter domain.CustomerFilter, page domain.OffsetPage) (*domain.CustomerPage, error) {
	return s.store.List(ctx, filter, page)
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.store.GetByID(ctx, id)
}

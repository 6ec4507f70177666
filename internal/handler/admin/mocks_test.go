package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

type mockTeamService struct {
	AuthenticateFunc func(ctx context.Context, email, password string) (string, *domain.TeamMember, error)
	ListMembersFunc  func(ctx context.Context) ([]domain.TeamMember, error)
	CreateMemberFunc func(ctx context.Context, params domain.CreateTeamMemberParams) (*domain.TeamMember, error)
	UpdateMemberFunc func(ctx context.Context, id uuid.UUID, params domain.UpdateTeamMemberParams) (*domain.TeamMember, error)
	DeleteMemberFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTeamService) Authenticate(ctx context.Context, email, password string) (string, *domain.TeamMember, error) {
	return m.AuthenticateFunc(ctx, email, password)
}

func (m *mockTeamService) ListMembers(ctx context.Context) ([]domain.TeamMember, error) {
	return m.ListMembersFunc(ctx)
}

func (m *mockTeamService) CreateMember(ctx context.Context, params domain.CreateTeamMemberParams) (*domain.TeamMember, error) {
	return m.CreateMemberFunc(ctx, params)
}

func (m *mockTeamService) UpdateMember(ctx context.Context, id uuid.UUID, params domain.UpdateTeamMemberParams) (*domain.TeamMember, error) {
	return m.UpdateMemberFunc(ctx, id, params)
}

func (m *mockTeamService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return m.DeleteMemberFunc(ctx, id)
}

type mockInventoryService struct {
	ListInventoryFunc     func(ctx context.Context, filter domain.InventoryFilter, page domain.OffsetPage) (*domain.InventoryPage, error)
	GetInventoryStatsFunc func(ctx context.Context) (*domain.InventoryStats, error)
	UpdateStockFunc       func(ctx context.Context, variantID uuid.UUID, params domain.UpdateStockParams) (*domain.InventoryItem, error)
}

func (m *mockInventoryService) ListInventory(ctx context.Context, filter domain.InventoryFilter, page domain.OffsetPage) (*domain.InventoryPage, error) {
	return m.ListInventoryFunc(ctx, filter, page)
}

func (m *mockInventoryService) GetInventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	return m.GetInventoryStatsFunc(ctx)
}

func (m *mockInventoryService) UpdateStock(ctx context.Context, variantID uuid.UUID, params domain.UpdateStockParams) (*domain.InventoryItem, error) {
	return m.UpdateStockFunc(ctx, variantID, params)
}

type mockProductService struct {
	ListProductsFunc      func(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error)
	ListProductsAdminFunc func(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.OffsetPage) (*domain.AdminProductPage, error)
	GetProductFunc        func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductAdminFunc   func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProductFunc     func(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error)
	UpdateProductFunc     func(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error)
	DeleteProductFunc     func(ctx context.Context, id uuid.UUID) error
	ListCategoriesFunc    func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockProductService) ListProducts(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error) {
	return m.ListProductsFunc(ctx, filter, sort, page)
}

func (m *mockProductService) ListProductsAdmin(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.OffsetPage) (*domain.AdminProductPage, error) {
	return m.ListProductsAdminFunc(ctx, filter, sort, page)
}

func (m *mockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

func (m *mockProductService) GetProductAdmin(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return m.GetProductAdminFunc(ctx, id)
}

func (m *mockProductService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	return m.CreateProductFunc(ctx, params)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	return m.UpdateProductFunc(ctx, id, params)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.DeleteProductFunc(ctx, id)
}

func (m *mockProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return m.ListCategoriesFunc(ctx)
}

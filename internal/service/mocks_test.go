package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

// Hand-written store mocks. Unset funcs panic so a test never silently
// exercises a path it did not stub.

type mockProductStore struct {
	ListByCursorFunc    func(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error)
	ListAdminFunc       func(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.OffsetPage) (*domain.AdminProductPage, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	SKUExistsFunc       func(ctx context.Context, sku string) (bool, error)
	CreateFunc          func(ctx context.Context, product *domain.Product) error
	UpdateFunc          func(ctx context.Context, product *domain.Product, variantsToDelete []uuid.UUID) error
	ReferenceCountsFunc func(ctx context.Context, productID uuid.UUID) (int64, int64, error)
	DeleteFunc          func(ctx context.Context, productID uuid.UUID) error
	ListCategoriesFunc  func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockProductStore) ListByCursor(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error) {
	return m.ListByCursorFunc(ctx, filter, sort, page)
}
func (m *mockProductStore) ListAdmin(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.OffsetPage) (*domain.AdminProductPage, error) {
	return m.ListAdminFunc(ctx, filter, sort, page)
}
func (m *mockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockProductStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	return m.SKUExistsFunc(ctx, sku)
}
func (m *mockProductStore) Create(ctx context.Context, product *domain.Product) error {
	return m.CreateFunc(ctx, product)
}
func (m *mockProductStore) Update(ctx context.Context, product *domain.Product, variantsToDelete []uuid.UUID) error {
	return m.UpdateFunc(ctx, product, variantsToDelete)
}
func (m *mockProductStore) ReferenceCounts(ctx context.Context, productID uuid.UUID) (int64, int64, error) {
	return m.ReferenceCountsFunc(ctx, productID)
}
func (m *mockProductStore) Delete(ctx context.Context, productID uuid.UUID) error {
	return m.DeleteFunc(ctx, productID)
}
func (m *mockProductStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return m.ListCategoriesFunc(ctx)
}

type mockInventoryStore struct {
	ListFunc       func(ctx context.Context, filter domain.InventoryFilter, page domain.OffsetPage) (*domain.InventoryPage, error)
	StatsFunc      func(ctx context.Context) (*domain.InventoryStats, error)
	ApplyStockFunc func(ctx context.Context, variantID uuid.UUID, action domain.StockAction, quantity int32) (*domain.InventoryItem, error)
}

func (m *mockInventoryStore) List(ctx context.Context, filter domain.InventoryFilter, page domain.OffsetPage) (*domain.InventoryPage, error) {
	return m.ListFunc(ctx, filter, page)
}
func (m *mockInventoryStore) Stats(ctx context.Context) (*domain.InventoryStats, error) {
	return m.StatsFunc(ctx)
}
func (m *mockInventoryStore) ApplyStock(ctx context.Context, variantID uuid.UUID, action domain.StockAction, quantity int32) (*domain.InventoryItem, error) {
	return m.ApplyStockFunc(ctx, variantID, action, quantity)
}

type mockCartStore struct {
	CreateFunc              func(ctx context.Context) (*domain.Cart, error)
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	UpsertItemFunc          func(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) error
	SetItemQuantityFunc     func(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) error
	DeleteItemFunc          func(ctx context.Context, cartID, itemID uuid.UUID) error
	VariantAvailabilityFunc func(ctx context.Context, variantID uuid.UUID) (int64, int32, error)
}

func (m *mockCartStore) Create(ctx context.Context) (*domain.Cart, error) {
	return m.CreateFunc(ctx)
}
func (m *mockCartStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockCartStore) UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) error {
	return m.UpsertItemFunc(ctx, cartID, variantID, quantity)
}
func (m *mockCartStore) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) error {
	return m.SetItemQuantityFunc(ctx, cartID, itemID, quantity)
}
func (m *mockCartStore) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return m.DeleteItemFunc(ctx, cartID, itemID)
}
func (m *mockCartStore) VariantAvailability(ctx context.Context, variantID uuid.UUID) (int64, int32, error) {
	return m.VariantAvailabilityFunc(ctx, variantID)
}

type mockOrderStore struct {
	CreateFunc               func(ctx context.Context, order *domain.Order) error
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByPaymentIntentIDFunc func(ctx context.Context, paymentIntentID string) (*domain.Order, error)
	ListFunc                 func(ctx context.Context, filter domain.OrderFilter, page domain.OffsetPage) (*domain.OrderPage, error)
	UpdateStatusFunc         func(ctx context.Context, id uuid.UUID, next domain.OrderStatus, restock bool) error
	MarkPaidFunc             func(ctx context.Context, id uuid.UUID, paymentIntentID string) error
}

func (m *mockOrderStore) Create(ctx context.Context, order *domain.Order) error {
	return m.CreateFunc(ctx, order)
}
func (m *mockOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockOrderStore) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	return m.GetByPaymentIntentIDFunc(ctx, paymentIntentID)
}
func (m *mockOrderStore) List(ctx context.Context, filter domain.OrderFilter, page domain.OffsetPage) (*domain.OrderPage, error) {
	return m.ListFunc(ctx, filter, page)
}
func (m *mockOrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus, restock bool) error {
	return m.UpdateStatusFunc(ctx, id, next, restock)
}
func (m *mockOrderStore) MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	return m.MarkPaidFunc(ctx, id, paymentIntentID)
}

type mockPromoStore struct {
	GetByCodeFunc      func(ctx context.Context, code string) (*domain.PromoCode, error)
	IncrementUsageFunc func(ctx context.Context, code string) error
}

func (m *mockPromoStore) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	return m.GetByCodeFunc(ctx, code)
}
func (m *mockPromoStore) IncrementUsage(ctx context.Context, code string) error {
	return m.IncrementUsageFunc(ctx, code)
}

type mockTeamStore struct {
	GetByEmailFunc        func(ctx context.Context, email string) (*domain.TeamMember, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.TeamMember, error)
	ListFunc              func(ctx context.Context) ([]domain.TeamMember, error)
	CreateFunc            func(ctx context.Context, member *domain.TeamMember) error
	UpdateFunc            func(ctx context.Context, member *domain.TeamMember) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	CountActiveOwnersFunc func(ctx context.Context) (int64, error)
}

func (m *mockTeamStore) GetByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	return m.GetByEmailFunc(ctx, email)
}
func (m *mockTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMember, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockTeamStore) List(ctx context.Context) ([]domain.TeamMember, error) {
	return m.ListFunc(ctx)
}
func (m *mockTeamStore) Create(ctx context.Context, member *domain.TeamMember) error {
	return m.CreateFunc(ctx, member)
}
func (m *mockTeamStore) Update(ctx context.Context, member *domain.TeamMember) error {
	return m.UpdateFunc(ctx, member)
}
func (m *mockTeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}
func (m *mockTeamStore) CountActiveOwners(ctx context.Context) (int64, error) {
	return m.CountActiveOwnersFunc(ctx)
}

type mockSettingsStore struct {
	GetFunc    func(ctx context.Context) (*domain.StoreSettings, error)
	UpdateFunc func(ctx context.Context, settings *domain.StoreSettings) error
}

func (m *mockSettingsStore) Get(ctx context.Context) (*domain.StoreSettings, error) {
	return m.GetFunc(ctx)
}
func (m *mockSettingsStore) Update(ctx context.Context, settings *domain.StoreSettings) error {
	return m.UpdateFunc(ctx, settings)
}

type mockAuditStore struct {
	entries []*domain.AuditEntry
}

func (m *mockAuditStore) Append(ctx context.Context, entry *domain.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}
func (m *mockAuditStore) List(ctx context.Context, page domain.OffsetPage) (*domain.AuditPage, error) {
	items := make([]domain.AuditEntry, 0, len(m.entries))
	for _, e := range m.entries {
		items = append(items, *e)
	}
	return &domain.AuditPage{Items: items, Total: int64(len(items))}, nil
}

type mockTranscriptStore struct {
	sessions map[string][]domain.ChatMessage
	err      error
}

func (m *mockTranscriptStore) Append(ctx context.Context, sessionID string, msgs []domain.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	if m.sessions == nil {
		m.sessions = make(map[string][]domain.ChatMessage)
	}
	m.sessions[sessionID] = append(m.sessions[sessionID], msgs...)
	return nil
}

// fakeIdemStore is an in-memory Cache covering the idempotency half; the
// list-cache methods are no-ops.
type fakeIdemStore struct {
	values map[string]uuid.UUID
}

func (f *fakeIdemStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (f *fakeIdemStore) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (f *fakeIdemStore) Reserve(ctx context.Context, key string, value any, ttl time.Duration, existing any) (bool, error) {
	if f.values == nil {
		f.values = make(map[string]uuid.UUID)
	}
	if prior, ok := f.values[key]; ok {
		if dest, ok := existing.(*uuid.UUID); ok {
			*dest = prior
		}
		return false, nil
	}
	f.values[key] = value.(uuid.UUID)
	return true, nil
}

func (f *fakeIdemStore) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

// fakeListCache is an in-memory Cache tracking list-cache traffic.
type fakeListCache struct {
	fakeIdemStore
	pages   map[string]domain.ProductPage
	deletes []string
}

func (f *fakeListCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	page, ok := f.pages[key]
	if !ok {
		return false, nil
	}
	*dest.(*domain.ProductPage) = page
	return true, nil
}

func (f *fakeListCache) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.pages == nil {
		f.pages = make(map[string]domain.ProductPage)
	}
	f.pages[key] = *value.(*domain.ProductPage)
	return nil
}

func (f *fakeListCache) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	delete(f.pages, key)
	return f.fakeIdemStore.Delete(ctx, key)
}

// mockOrderService implements domain.OrderService for checkout tests.
type mockOrderService struct {
	CreateOrderFunc  func(ctx context.Context, params domain.CreateOrderParams) (*domain.Order, error)
	GetOrderFunc     func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersFunc   func(ctx context.Context, filter domain.OrderFilter, page domain.OffsetPage) (*domain.OrderPage, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
	CancelOrderFunc  func(ctx context.Context, id uuid.UUID) error
	MarkPaidFunc     func(ctx context.Context, id uuid.UUID, paymentIntentID string) (*domain.Order, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.Order, error) {
	return m.CreateOrderFunc(ctx, params)
}
func (m *mockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.GetOrderFunc(ctx, id)
}
func (m *mockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.OffsetPage) (*domain.OrderPage, error) {
	return m.ListOrdersFunc(ctx, filter, page)
}
func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	return m.UpdateStatusFunc(ctx, id, next)
}
func (m *mockOrderService) CancelOrder(ctx context.Context, id uuid.UUID) error {
	return m.CancelOrderFunc(ctx, id)
}
func (m *mockOrderService) MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) (*domain.Order, error) {
	return m.MarkPaidFunc(ctx, id, paymentIntentID)
}

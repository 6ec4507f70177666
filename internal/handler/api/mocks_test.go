package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/billing"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/service"
)

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

type mockCartService struct {
	GetCartFunc    func(ctx context.Context, id *uuid.UUID) (*domain.Cart, error)
	AddItemFunc    func(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.Cart, error)
	UpdateItemFunc func(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.Cart, error)
	RemoveItemFunc func(ctx context.Context, cartID, itemID uuid.UUID) (*domain.Cart, error)
}

func (m *mockCartService) GetCart(ctx context.Context, id *uuid.UUID) (*domain.Cart, error) {
	return m.GetCartFunc(ctx, id)
}

func (m *mockCartService) AddItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int32) (*domain.Cart, error) {
	return m.AddItemFunc(ctx, cartID, variantID, quantity)
}

func (m *mockCartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int32) (*domain.Cart, error) {
	return m.UpdateItemFunc(ctx, cartID, itemID, quantity)
}

func (m *mockCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.Cart, error) {
	return m.RemoveItemFunc(ctx, cartID, itemID)
}

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

type mockCheckoutService struct {
	CreatePaymentFunc      func(ctx context.Context, orderID uuid.UUID) (*service.PaymentSession, error)
	VerifyPaymentFunc      func(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*domain.Order, error)
	HandleGatewayEventFunc func(ctx context.Context, event *billing.WebhookEvent) error
}

func (m *mockCheckoutService) CreatePayment(ctx context.Context, orderID uuid.UUID) (*service.PaymentSession, error) {
	return m.CreatePaymentFunc(ctx, orderID)
}

func (m *mockCheckoutService) VerifyPayment(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*domain.Order, error) {
	return m.VerifyPaymentFunc(ctx, orderID, paymentIntentID)
}

func (m *mockCheckoutService) HandleGatewayEvent(ctx context.Context, event *billing.WebhookEvent) error {
	return m.HandleGatewayEventFunc(ctx, event)
}

type mockPromoService struct {
	ValidatePromoFunc func(ctx context.Context, code string, subtotalCents int64) (*domain.PromoValidation, error)
	RedeemPromoFunc   func(ctx context.Context, code string) error
}

func (m *mockPromoService) ValidatePromo(ctx context.Context, code string, subtotalCents int64) (*domain.PromoValidation, error) {
	return m.ValidatePromoFunc(ctx, code, subtotalCents)
}

func (m *mockPromoService) RedeemPromo(ctx context.Context, code string) error {
	return m.RedeemPromoFunc(ctx, code)
}

type mockStylistService struct {
	ChatFunc func(ctx context.Context, req domain.StylistRequest) (*domain.StylistReply, error)
}

func (m *mockStylistService) Chat(ctx context.Context, req domain.StylistRequest) (*domain.StylistReply, error) {
	return m.ChatFunc(ctx, req)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/billing"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/shipping"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// ConfirmationSender sends the order receipt; satisfied by email.Service.
// Nil disables confirmation email.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, order *domain.Order) error
}

// PaymentGateway releases gateway-side money state when orders are
// cancelled; satisfied by billing.Provider. Nil disables it.
type PaymentGateway interface {
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) error
	RefundPayment(ctx context.Context, params billing.RefundParams) (*billing.Refund, error)
}

type orderService struct {
	orders   domain.OrderStore
	carts    domain.CartStore
	promos   domain.PromoService
	shipping shipping.Provider
	email    ConfirmationSender
	gateway  PaymentGateway
	audit    *auditTrail
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderService creates the order service.
func NewOrderService(
	orders domain.OrderStore,
	carts domain.CartStore,
	promos domain.PromoService,
	shippingProvider shipping.Provider,
	emailSender ConfirmationSender,
	gateway PaymentGateway,
	audit domain.AuditStore,
	logger *slog.Logger,
) domain.OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		orders:   orders,
		carts:    carts,
		promos:   promos,
		shipping: shippingProvider,
		email:    emailSender,
		gateway:  gateway,
		audit:    newAuditTrail(audit, logger),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.Order, error) {
	const op = "order.create"

	if err := validateOrderParams(op, params); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByID(ctx, params.CartID)
	if err != nil {
		return nil, err
	}
	if cart.Status != domain.CartStatusActive {
		return nil, domain.ErrCartConverted
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	subtotal := cart.SubtotalCents()

	var discount int64
	promoCode := strings.TrimSpace(params.PromoCode)
	if promoCode != "" {
		validation, err := s.promos.ValidatePromo(ctx, promoCode, subtotal)
		if err != nil {
			return nil, err
		}
		if !validation.Valid {
			return nil, domain.Invalid(op, validation.Reason)
		}
		promoCode = validation.Code
		discount = validation.DiscountCents
	}

	rates, err := s.shipping.GetRates(ctx, shipping.RateParams{
		Destination:   params.ShippingAddress,
		SubtotalCents: subtotal - discount,
		ItemCount:     int32(len(cart.Items)),
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to quote shipping")
	}
	var shippingCents int64
	if len(rates) > 0 {
		shippingCents = rates[0].CostCents
	}

	order := &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     s.newOrderNumber(),
		CustomerID:      params.CustomerID,
		Email:           strings.TrimSpace(params.Email),
		Status:          domain.OrderStatusPending,
		SubtotalCents:   subtotal,
		DiscountCents:   discount,
		ShippingCents:   shippingCents,
		TotalCents:      subtotal - discount + shippingCents,
		PromoCode:       promoCode,
		CartID:          cart.ID,
		ShippingAddress: params.ShippingAddress,
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			VariantID:      item.VariantID,
			SKU:            item.SKU,
			ProductName:    item.ProductName,
			Color:          item.Color,
			Size:           item.Size,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents(),
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if promoCode != "" {
		if err := s.promos.RedeemPromo(ctx, promoCode); err != nil {
			s.logger.Error("failed to record promo redemption", "code", promoCode, "order_id", order.ID, "error", err)
		}
	}

	telemetry.RecordOrderCreated(order.TotalCents)

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.OffsetPage) (*domain.OrderPage, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.Invalid("order.list", fmt.Sprintf("unknown status %q", *filter.Status))
	}
	return s.orders.List(ctx, filter, page)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	const op = "order.status"

	if !next.Valid() {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown status %q", next))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	// Cancelling after payment returns the items to inventory and the
	// money to the card. A refund failure blocks the transition so a paid
	// order is never cancelled with the charge still captured.
	restock := next == domain.OrderStatusCancelled && order.Status == domain.OrderStatusPaid
	if restock && s.gateway != nil && order.PaymentIntentID != "" {
		_, err := s.gateway.RefundPayment(ctx, billing.RefundParams{
			PaymentIntentID: order.PaymentIntentID,
			AmountCents:     order.TotalCents,
			Reason:          "requested_by_customer",
		})
		if err != nil {
			return nil, domain.Unavailable(err, op, "Failed to refund payment")
		}
	}

	if err := s.orders.UpdateStatus(ctx, id, next, restock); err != nil {
		return nil, err
	}

	if next == domain.OrderStatusCancelled {
		telemetry.RecordOrderCancelled()
	}

	s.audit.record(ctx, "order.status", "order", id, map[string]any{
		"order_number": order.OrderNumber,
		"from":         string(order.Status),
		"to":           string(next),
		"restocked":    restock,
	})

	return s.orders.GetByID(ctx, id)
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch order.Status {
	case domain.OrderStatusCancelled:
		return nil
	case domain.OrderStatusPending:
		if err := s.orders.UpdateStatus(ctx, id, domain.OrderStatusCancelled, false); err != nil {
			return err
		}
		// Best-effort: the intent may already be cancelled gateway-side.
		if s.gateway != nil && order.PaymentIntentID != "" {
			if err := s.gateway.CancelPaymentIntent(ctx, order.PaymentIntentID); err != nil {
				s.logger.Warn("failed to cancel payment intent", "order_id", id, "error", err)
			}
		}
		telemetry.RecordOrderCancelled()
		return nil
	default:
		return domain.ErrOrderNotCancellable
	}
}

func (s *orderService) MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) (*domain.Order, error) {
	if err := s.orders.MarkPaid(ctx, id, paymentIntentID); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Best-effort: a mail outage never fails payment capture.
	if s.email != nil {
		if err := s.email.SendOrderConfirmation(ctx, order); err != nil {
			s.logger.Error("failed to send order confirmation", "order_number", order.OrderNumber, "error", err)
		}
	}

	return order, nil
}

func (s *orderService) newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ATL-%s-%s", s.now().UTC().Format("20060102"), suffix)
}

func validateOrderParams(op string, params domain.CreateOrderParams) error {
	var err error
	if strings.TrimSpace(params.Email) == "" || !strings.Contains(params.Email, "@") {
		err = domain.AddFieldError(err, "email", "A valid email is required")
	}
	addr := params.ShippingAddress
	if strings.TrimSpace(addr.Name) == "" {
		err = domain.AddFieldError(err, "shipping_address.name", "Name is required")
	}
	if strings.TrimSpace(addr.Line1) == "" {
		err = domain.AddFieldError(err, "shipping_address.line1", "Address line 1 is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		err = domain.AddFieldError(err, "shipping_address.city", "City is required")
	}
	if strings.TrimSpace(addr.PostalCode) == "" {
		err = domain.AddFieldError(err, "shipping_address.postal_code", "Postal code is required")
	}
	if strings.TrimSpace(addr.Country) == "" {
		err = domain.AddFieldError(err, "shipping_address.country", "Country is required")
	}
	if err != nil {
		if ve, ok := err.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return err
	}
	return nil
}

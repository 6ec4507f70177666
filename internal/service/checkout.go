package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/billing"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// PaymentSession is what the storefront needs to open the payment modal.
type PaymentSession struct {
	PaymentIntentID string
	ClientSecret    string
	AmountCents     int64
	Currency        string
}

// CheckoutService drives the payment leg of checkout: intent creation,
// server-side verification and gateway webhooks.
type CheckoutService interface {
	// CreatePayment creates a payment intent for a pending order.
	CreatePayment(ctx context.Context, orderID uuid.UUID) (*PaymentSession, error)

	// VerifyPayment retrieves the intent from the gateway, checks that it
	// succeeded and belongs to the order, then marks the order paid.
	VerifyPayment(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*domain.Order, error)

	// HandleGatewayEvent applies a verified webhook event. Events for
	// unknown orders or uninteresting types are ignored.
	HandleGatewayEvent(ctx context.Context, event *billing.WebhookEvent) error
}

type checkoutService struct {
	provider billing.Provider
	orders   domain.OrderService
	settings domain.SettingsStore
	logger   *slog.Logger
}

// NewCheckoutService creates the checkout payment service.
func NewCheckoutService(provider billing.Provider, orders domain.OrderService, settings domain.SettingsStore, logger *slog.Logger) CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		provider: provider,
		orders:   orders,
		settings: settings,
		logger:   logger,
	}
}

func (s *checkoutService) CreatePayment(ctx context.Context, orderID uuid.UUID) (*PaymentSession, error) {
	const op = "checkout.create_payment"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, domain.Conflict(op, "Order is not awaiting payment")
	}

	currency := "usd"
	if settings, err := s.settings.Get(ctx); err == nil && settings.CurrencyCode != "" {
		currency = settings.CurrencyCode
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, billing.CreatePaymentIntentParams{
		AmountCents:  order.TotalCents,
		Currency:     currency,
		Description:  "Order " + order.OrderNumber,
		ReceiptEmail: order.Email,
		Metadata: map[string]string{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
		},
		// One intent per order: gateway-side dedupe for double-clicked
		// checkout buttons.
		IdempotencyKey: "order-" + order.ID.String(),
	})
	if err != nil {
		return nil, mapGatewayError(err, op)
	}

	return &PaymentSession{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     intent.AmountCents,
		Currency:        intent.Currency,
	}, nil
}

func (s *checkoutService) VerifyPayment(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*domain.Order, error) {
	const op = "checkout.verify_payment"

	if paymentIntentID == "" {
		return nil, domain.Invalid(op, "payment intent ID is required")
	}

	intent, err := s.provider.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, mapGatewayError(err, op)
	}

	if intent.Metadata["order_id"] != orderID.String() {
		return nil, domain.Invalid(op, "Payment does not belong to this order")
	}
	if !intent.Succeeded() {
		telemetry.RecordPayment(false)
		return nil, domain.Errorf(domain.EPAYMENT, op, "Payment has not completed (status %s)", intent.Status)
	}

	order, err := s.orders.MarkPaid(ctx, orderID, intent.ID)
	if err != nil {
		return nil, err
	}
	telemetry.RecordPayment(true)
	return order, nil
}

// gatewayIntentPayload is the slice of the event body the webhook needs.
type gatewayIntentPayload struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

func (s *checkoutService) HandleGatewayEvent(ctx context.Context, event *billing.WebhookEvent) error {
	const op = "checkout.webhook"

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
	default:
		return nil
	}

	var intent gatewayIntentPayload
	if err := json.Unmarshal(event.Data, &intent); err != nil {
		return domain.Invalid(op, "malformed event payload")
	}
	orderID, err := uuid.Parse(intent.Metadata["order_id"])
	if err != nil {
		// Not one of ours (e.g. an intent created from the dashboard).
		s.logger.Info("ignoring gateway event without order metadata", "event_id", event.ID, "type", event.Type)
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		// MarkPaid is idempotent, so redelivered events are safe.
		if _, err := s.orders.MarkPaid(ctx, orderID, intent.ID); err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				s.logger.Warn("gateway event references unknown order", "event_id", event.ID, "order_id", orderID)
				return nil
			}
			return err
		}
		telemetry.RecordPayment(true)
	case "payment_intent.payment_failed", "payment_intent.canceled":
		telemetry.RecordPayment(false)
		if err := s.orders.CancelOrder(ctx, orderID); err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrOrderNotCancellable) {
				return nil
			}
			return err
		}
	}
	return nil
}

// mapGatewayError turns billing failures into domain errors the handler
// layer can map to status codes.
func mapGatewayError(err error, op string) error {
	switch {
	case errors.Is(err, billing.ErrPaymentIntentNotFound):
		return domain.NotFound(op, "payment", "intent")
	case errors.Is(err, billing.ErrAmountTooSmall):
		return domain.Invalid(op, "Order total is below the gateway minimum")
	}

	var stripeErr *billing.StripeError
	if errors.As(err, &stripeErr) {
		if stripeErr.IsDeclined() {
			return domain.Errorf(domain.EPAYMENT, op, "Payment was declined")
		}
		if stripeErr.IsTemporary() {
			return domain.Unavailable(err, op, "Payment gateway is unavailable")
		}
	}
	return domain.Internal(err, op, "payment gateway request failed")
}

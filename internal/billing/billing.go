package billing

import (
	"context"
	"time"
)

// Provider defines the interface for payment processing.
// Implementations can use Stripe, PayPal, Square, etc.
type Provider interface {
	// CreatePaymentIntent creates a payment intent for a pending order.
	// Returns the intent with client_secret for frontend confirmation.
	CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// GetPaymentIntent retrieves an existing payment intent, used by the
	// server-side verification step before marking an order paid.
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)

	// CancelPaymentIntent cancels an unconfirmed intent when the customer
	// abandons checkout.
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) error

	// RefundPayment refunds a completed payment, used when cancelling a
	// paid order.
	RefundPayment(ctx context.Context, params RefundParams) (*Refund, error)

	// VerifyWebhook checks the signature on an incoming webhook request and
	// returns the parsed event.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// CreatePaymentIntentParams contains parameters for creating a payment intent.
type CreatePaymentIntentParams struct {
	// AmountCents is the amount in the smallest currency unit.
	AmountCents int64

	// Currency code (ISO 4217, lowercase) - e.g. "usd".
	Currency string

	// Description appears on the customer's statement and in the dashboard.
	Description string

	// ReceiptEmail receives the provider's payment receipt.
	ReceiptEmail string

	// Metadata for reconciliation; always includes order_id.
	Metadata map[string]string

	// IdempotencyKey prevents duplicate intents on retried requests.
	// Derived from the order ID.
	IdempotencyKey string
}

// PaymentIntent represents a payment intent at the provider.
type PaymentIntent struct {
	// ID is the provider's intent ID (pi_... for Stripe).
	ID string

	// ClientSecret is used by the frontend to confirm the payment.
	ClientSecret string

	AmountCents int64
	Currency    string

	// Status: requires_payment_method, processing, succeeded, canceled, ...
	Status string

	Metadata  map[string]string
	CreatedAt time.Time
}

// Succeeded reports whether the intent completed payment.
func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == "succeeded"
}

// RefundParams contains parameters for creating a refund.
type RefundParams struct {
	PaymentIntentID string
	AmountCents     int64  // 0 refunds the full amount
	Reason          string // "duplicate", "fraudulent", "requested_by_customer"
}

// Refund represents a payment refund.
type Refund struct {
	ID          string
	PaymentID   string
	AmountCents int64
	Status      string // succeeded, pending, failed
	CreatedAt   time.Time
}

// WebhookEvent is a signature-verified provider event. Data holds the raw
// JSON of the event object for type-specific decoding.
type WebhookEvent struct {
	ID   string
	Type string
	Data []byte
}

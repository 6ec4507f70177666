package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var business *BusinessMetrics

// BusinessMetrics tracks the store-level counters alongside the HTTP
// metrics registered by the middleware.
type BusinessMetrics struct {
	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter
	OrderValueCents prometheus.Histogram

	PaymentsSucceeded prometheus.Counter
	PaymentsFailed    prometheus.Counter

	PromoValidations *prometheus.CounterVec

	WebhooksReceived *prometheus.CounterVec
	WebhooksFailed   *prometheus.CounterVec

	EmailsSent   prometheus.Counter
	EmailsFailed prometheus.Counter

	StylistChats prometheus.Counter

	UploadsStored prometheus.Counter
}

// NewBusinessMetrics registers the business collectors.
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "atelier"
	}
	factory := promauto.With(reg)

	return &BusinessMetrics{
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders placed through checkout",
		}),
		OrdersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Orders cancelled before or after payment",
		}),
		OrderValueCents: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value_cents",
			Help:      "Order totals in cents",
			Buckets:   prometheus.ExponentialBuckets(500, 2.5, 10),
		}),
		PaymentsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_succeeded_total",
			Help:      "Payments confirmed by verification or webhook",
		}),
		PaymentsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_failed_total",
			Help:      "Payments declined or failed at the gateway",
		}),
		PromoValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_validations_total",
			Help:      "Promo code validation attempts by outcome",
		}, []string{"outcome"}),
		WebhooksReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Verified webhook events by provider",
		}, []string{"provider"}),
		WebhooksFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_failed_total",
			Help:      "Webhook events that failed verification or processing",
		}, []string{"provider"}),
		EmailsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Transactional emails handed to the SMTP relay",
		}),
		EmailsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_failed_total",
			Help:      "Transactional emails that failed to send",
		}),
		StylistChats: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stylist_chats_total",
			Help:      "Stylist assistant conversations answered",
		}),
		UploadsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_stored_total",
			Help:      "Product images stored through the admin upload endpoint",
		}),
	}
}

// SetBusinessMetrics installs the process-wide collectors used by the
// Record* helpers. Calling the helpers before this is a no-op, which keeps
// tests free of registry setup.
func SetBusinessMetrics(m *BusinessMetrics) {
	business = m
}

func RecordOrderCreated(totalCents int64) {
	if business == nil {
		return
	}
	business.OrdersCreated.Inc()
	business.OrderValueCents.Observe(float64(totalCents))
}

func RecordOrderCancelled() {
	if business == nil {
		return
	}
	business.OrdersCancelled.Inc()
}

func RecordPayment(succeeded bool) {
	if business == nil {
		return
	}
	if succeeded {
		business.PaymentsSucceeded.Inc()
	} else {
		business.PaymentsFailed.Inc()
	}
}

func RecordPromoValidation(outcome string) {
	if business == nil {
		return
	}
	business.PromoValidations.WithLabelValues(outcome).Inc()
}

func RecordWebhook(provider string, ok bool) {
	if business == nil {
		return
	}
	if ok {
		business.WebhooksReceived.WithLabelValues(provider).Inc()
	} else {
		business.WebhooksFailed.WithLabelValues(provider).Inc()
	}
}

func RecordEmail(sent bool) {
	if business == nil {
		return
	}
	if sent {
		business.EmailsSent.Inc()
	} else {
		business.EmailsFailed.Inc()
	}
}

func RecordStylistChat() {
	if business == nil {
		return
	}
	business.StylistChats.Inc()
}

func RecordUpload() {
	if business == nil {
		return
	}
	business.UploadsStored.Inc()
}

// Package webhook contains handlers for inbound provider callbacks.
package webhook

import (
	"io"
	"net/http"

	"github.com/atelierhq/atelier/internal/billing"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
	"github.com/atelierhq/atelier/internal/middleware"
	"github.com/atelierhq/atelier/internal/service"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// maxWebhookBytes bounds webhook payloads; gateway events are small.
const maxWebhookBytes = 64 << 10

// PaymentsHandler verifies and applies payment gateway events.
type PaymentsHandler struct {
	provider billing.Provider
	checkout service.CheckoutService
}

func NewPaymentsHandler(provider billing.Provider, checkout service.CheckoutService) *PaymentsHandler {
	return &PaymentsHandler{provider: provider, checkout: checkout}
}

// Handle processes POST /api/webhooks/payments. The gateway retries on
// non-2xx, so handler errors must distinguish "bad request, do not retry"
// from "our failure, please retry".
func (h *PaymentsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.payments", "Failed to read payload"))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.payments", "Missing signature"))
		return
	}

	event, err := h.provider.VerifyWebhook(payload, signature)
	if err != nil {
		logger.Warn("rejected gateway webhook", "error", err)
		telemetry.RecordWebhook("payments", false)
		handler.ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "webhook.payments", "Invalid signature"))
		return
	}

	if err := h.checkout.HandleGatewayEvent(r.Context(), event); err != nil {
		// 5xx so the gateway redelivers.
		telemetry.RecordWebhook("payments", false)
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINTERNAL, "webhook.payments", "Failed to process event"))
		return
	}

	telemetry.RecordWebhook("payments", true)
	logger.Info("processed gateway event", "event_id", event.ID, "type", event.Type)
	handler.RespondData(w, http.StatusOK, map[string]string{"received": event.ID})
}

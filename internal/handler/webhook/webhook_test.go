package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/billing"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/service"
)

type stubCheckout struct {
	service.CheckoutService
	handleFunc func(ctx context.Context, event *billing.WebhookEvent) error
}

func (s *stubCheckout) HandleGatewayEvent(ctx context.Context, event *billing.WebhookEvent) error {
	return s.handleFunc(ctx, event)
}

func TestPaymentsHandler_ValidEvent(t *testing.T) {
	var handled *billing.WebhookEvent

	provider := billing.NewMockProvider()
	provider.VerifyWebhookFunc = func(payload []byte, signature string) (*billing.WebhookEvent, error) {
		assert.Equal(t, "t=123,v1=sig", signature)
		return &billing.WebhookEvent{ID: "evt_1", Type: "payment_intent.succeeded", Data: payload}, nil
	}
	checkout := &stubCheckout{handleFunc: func(_ context.Context, event *billing.WebhookEvent) error {
		handled = event
		return nil
	}}

	h := NewPaymentsHandler(provider, checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=123,v1=sig")
	w := httptest.NewRecorder()
	h.Handle(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, handled)
	assert.Equal(t, "evt_1", handled.ID)
}

func TestPaymentsHandler_MissingSignature(t *testing.T) {
	h := NewPaymentsHandler(billing.NewMockProvider(), &stubCheckout{})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Handle(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentsHandler_BadSignature(t *testing.T) {
	provider := billing.NewMockProvider()
	provider.VerifyWebhookFunc = func([]byte, string) (*billing.WebhookEvent, error) {
		return nil, errors.New("signature mismatch")
	}
	h := NewPaymentsHandler(provider, &stubCheckout{})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=123,v1=forged")
	w := httptest.NewRecorder()
	h.Handle(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentsHandler_ProcessingFailureIs5xx(t *testing.T) {
	provider := billing.NewMockProvider()
	provider.VerifyWebhookFunc = func(payload []byte, _ string) (*billing.WebhookEvent, error) {
		return &billing.WebhookEvent{ID: "evt_2", Type: "payment_intent.succeeded", Data: payload}, nil
	}
	checkout := &stubCheckout{handleFunc: func(context.Context, *billing.WebhookEvent) error {
		return errors.New("db down")
	}}
	h := NewPaymentsHandler(provider, checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=s")
	w := httptest.NewRecorder()
	h.Handle(w, req)

	// Gateway retries on 5xx, so processing failures must not be 4xx.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type recordingNotifications struct {
	updates map[string]domain.NotificationStatus
	err     error
}

func (r *recordingNotifications) Append(context.Context, *domain.Notification) error { return nil }

func (r *recordingNotifications) UpdateStatusByProviderID(_ context.Context, providerID string, status domain.NotificationStatus) error {
	if r.err != nil {
		return r.err
	}
	if r.updates == nil {
		r.updates = make(map[string]domain.NotificationStatus)
	}
	r.updates[providerID] = status
	return nil
}

func signMSG91(key string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestMSG91Handler_Delivered(t *testing.T) {
	notifications := &recordingNotifications{}
	h := NewMSG91Handler("shared-key", notifications)

	payload := []byte(`{"requestId":"msg-42","status":"delivered"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/msg91", strings.NewReader(string(payload)))
	req.Header.Set("X-MSG91-Signature", signMSG91("shared-key", payload))
	w := httptest.NewRecorder()
	h.Handle(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.NotificationDelivered, notifications.updates["msg-42"])
}

func TestMSG91Handler_FailedStatuses(t *testing.T) {
	for _, status := range []string{"failed", "rejected", "blocked"} {
		notifications := &recordingNotifications{}
		h := NewMSG91Handler("shared-key", notifications)

		payload := []byte(`{"requestId":"msg-7","status":"` + status + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/msg91", strings.NewReader(string(payload)))
		req.Header.Set("X-MSG91-Signature", signMSG91("shared-key", payload))
		w := httptest.NewRecorder()
		h.Handle(w, req)

		require.Equal(t, http.StatusOK, w.Code, status)
		assert.Equal(t, domain.NotificationFailed, notifications.updates["msg-7"], status)
	}
}

func TestMSG91Handler_IntermediateStatusIgnored(t *testing.T) {
	notifications := &recordingNotifications{}
	h := NewMSG91Handler("shared-key", notifications)

	payload := []byte(`{"requestId":"msg-9","status":"queued"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/msg91", strings.NewReader(string(payload)))
	req.Header.Set("X-MSG91-Signature", signMSG91("shared-key", payload))
	w := httptest.NewRecorder()
	h.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, notifications.updates)
}

func TestMSG91Handler_BadSignature(t *testing.T) {
	h := NewMSG91Handler("shared-key", &recordingNotifications{})

	payload := []byte(`{"requestId":"msg-1","status":"delivered"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/msg91", strings.NewReader(string(payload)))
	req.Header.Set("X-MSG91-Signature", signMSG91("other-key", payload))
	w := httptest.NewRecorder()
	h.Handle(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unsigned requests are rejected too.
	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/msg91", strings.NewReader(string(payload)))
	w = httptest.NewRecorder()
	h.Handle(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

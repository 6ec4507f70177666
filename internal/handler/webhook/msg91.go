package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
	"github.com/atelierhq/atelier/internal/middleware"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// MSG91Handler records delivery receipts on the notification log.
type MSG91Handler struct {
	webhookKey    string
	notifications domain.NotificationStore
}

func NewMSG91Handler(webhookKey string, notifications domain.NotificationStore) *MSG91Handler {
	return &MSG91Handler{webhookKey: webhookKey, notifications: notifications}
}

// msg91Receipt is the delivery report payload. RequestID is the provider
// message ID returned at send time.
type msg91Receipt struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

// Handle processes POST /api/webhooks/msg91. The body is authenticated with
// an HMAC-SHA256 of the payload under the shared webhook key.
func (h *MSG91Handler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.msg91", "Failed to read payload"))
		return
	}

	if !h.verifySignature(payload, r.Header.Get("X-MSG91-Signature")) {
		telemetry.RecordWebhook("msg91", false)
		handler.ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "webhook.msg91", "Invalid signature"))
		return
	}

	var receipt msg91Receipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.msg91", "Invalid payload"))
		return
	}
	if receipt.RequestID == "" {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.msg91", "Missing requestId"))
		return
	}

	status, tracked := deliveryStatus(receipt.Status)
	if !tracked {
		// Intermediate states (queued, submitted) are acknowledged and dropped.
		logger.Info("ignoring delivery receipt", "request_id", receipt.RequestID, "status", receipt.Status)
		handler.RespondData(w, http.StatusOK, map[string]string{"received": receipt.RequestID})
		return
	}

	if err := h.notifications.UpdateStatusByProviderID(r.Context(), receipt.RequestID, status); err != nil {
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINTERNAL, "webhook.msg91", "Failed to record receipt"))
		return
	}

	telemetry.RecordWebhook("msg91", true)
	logger.Info("recorded delivery receipt", "request_id", receipt.RequestID, "status", status)
	handler.RespondData(w, http.StatusOK, map[string]string{"received": receipt.RequestID})
}

func (h *MSG91Handler) verifySignature(payload []byte, signature string) bool {
	if h.webhookKey == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// deliveryStatus maps provider statuses onto the notification log states.
func deliveryStatus(raw string) (domain.NotificationStatus, bool) {
	switch raw {
	case "delivered":
		return domain.NotificationDelivered, true
	case "failed", "rejected", "blocked":
		return domain.NotificationFailed, true
	default:
		return "", false
	}
}

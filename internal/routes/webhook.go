package routes

import (
	"github.com/atelierhq/atelier/internal/router"
)

// RegisterWebhookRoutes registers the inbound provider callbacks.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Post("/api/webhooks/payments", deps.PaymentsHandler.Handle)
	r.Post("/api/webhooks/msg91", deps.MSG91Handler.Handle)
}

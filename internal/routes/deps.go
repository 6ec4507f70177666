// Package routes wires handlers onto the router by surface: storefront API,
// admin API and webhooks.
package routes

import (
	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler/admin"
	"github.com/atelierhq/atelier/internal/handler/api"
	"github.com/atelierhq/atelier/internal/handler/webhook"
)

// APIDeps contains the public storefront handlers.
type APIDeps struct {
	ProductHandler *api.ProductHandler
	CartHandler    *api.CartHandler
	OrderHandler   *api.OrderHandler
	PaymentHandler *api.PaymentHandler
	PromoHandler   *api.PromoHandler
	StylistHandler *api.StylistHandler
}

// AdminDeps contains the back-office handlers plus what the auth
// middleware needs to verify tokens.
type AdminDeps struct {
	Tokens    *auth.TokenManager
	TeamStore domain.TeamStore

	AuthHandler      *admin.AuthHandler
	ProductHandler   *admin.ProductHandler
	InventoryHandler *admin.InventoryHandler
	OrderHandler     *admin.OrderHandler
	CustomerHandler  *admin.CustomerHandler
	TeamHandler      *admin.TeamHandler
	SettingsHandler  *admin.SettingsHandler
	UploadHandler    *admin.UploadHandler
	AuditHandler     *admin.AuditHandler
}

// WebhookDeps contains the inbound callback handlers. Webhook routes carry
// no auth middleware; each handler verifies its own signature.
type WebhookDeps struct {
	PaymentsHandler *webhook.PaymentsHandler
	MSG91Handler    *webhook.MSG91Handler
}

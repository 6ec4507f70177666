package routes

import (
	"github.com/atelierhq/atelier/internal/middleware"
	"github.com/atelierhq/atelier/internal/router"
)

// RegisterAdminRoutes registers the back-office endpoints. Login is public
// behind a strict rate limit; everything else requires a valid token, and
// team/settings additionally require a managing role.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	r.Post("/api/admin/login", deps.AuthHandler.Login,
		middleware.RateLimit(middleware.LoginRateLimiterConfig()),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize))

	authed := r.Group(middleware.RequireAdmin(deps.Tokens, deps.TeamStore))

	// Uploads carry their own, larger body cap.
	authed.Post("/api/admin/uploads", deps.UploadHandler.Upload,
		middleware.MaxBodySize(middleware.UploadMaxBodySize))

	admin := authed.Group(middleware.MaxBodySize(middleware.DefaultMaxBodySize))

	admin.Get("/api/admin/products", deps.ProductHandler.List)
	admin.Post("/api/admin/products", deps.ProductHandler.Create)
	admin.Get("/api/admin/products/{id}", deps.ProductHandler.Get)
	admin.Put("/api/admin/products/{id}", deps.ProductHandler.Update)
	admin.Delete("/api/admin/products/{id}", deps.ProductHandler.Delete)

	admin.Get("/api/admin/inventory", deps.InventoryHandler.List)
	admin.Get("/api/admin/inventory/stats", deps.InventoryHandler.Stats)
	admin.Patch("/api/admin/inventory/{variantID}", deps.InventoryHandler.UpdateStock)

	admin.Get("/api/admin/orders", deps.OrderHandler.List)
	admin.Get("/api/admin/orders/{id}", deps.OrderHandler.Get)
	admin.Patch("/api/admin/orders/{id}", deps.OrderHandler.UpdateStatus)

	admin.Get("/api/admin/customers", deps.CustomerHandler.List)
	admin.Get("/api/admin/customers/{id}", deps.CustomerHandler.Get)

	admin.Get("/api/admin/audit", deps.AuditHandler.List)

	// Any staff member can read the roster and settings.
	admin.Get("/api/admin/team", deps.TeamHandler.List)
	admin.Get("/api/admin/settings", deps.SettingsHandler.Get)

	// Team and settings mutations are owner/admin only.
	manage := admin.Group(middleware.RequireTeamManagement)

	manage.Post("/api/admin/team", deps.TeamHandler.Create)
	manage.Put("/api/admin/team/{id}", deps.TeamHandler.Update)
	manage.Delete("/api/admin/team/{id}", deps.TeamHandler.Delete)

	manage.Put("/api/admin/settings", deps.SettingsHandler.Update)
}

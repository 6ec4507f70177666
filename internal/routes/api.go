package routes

import (
	"github.com/atelierhq/atelier/internal/middleware"
	"github.com/atelierhq/atelier/internal/router"
)

// RegisterAPIRoutes registers the public storefront endpoints.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	public := r.Group(
		middleware.RateLimit(middleware.DefaultRateLimiterConfig()),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
	)

	public.Get("/api/products", deps.ProductHandler.List)
	public.Get("/api/products/{id}", deps.ProductHandler.Get)
	public.Get("/api/categories", deps.ProductHandler.Categories)

	public.Post("/api/cart", deps.CartHandler.Create)
	public.Get("/api/cart/{cartID}", deps.CartHandler.Get)
	public.Post("/api/cart/{cartID}/items", deps.CartHandler.AddItem)
	public.Patch("/api/cart/{cartID}/items/{itemID}", deps.CartHandler.UpdateItem)
	public.Delete("/api/cart/{cartID}/items/{itemID}", deps.CartHandler.RemoveItem)

	public.Post("/api/orders", deps.OrderHandler.Create)
	public.Get("/api/orders/{id}", deps.OrderHandler.Get)
	public.Post("/api/orders/{id}/cancel", deps.OrderHandler.Cancel)

	public.Post("/api/payments/create", deps.PaymentHandler.Create)
	public.Post("/api/payments/verify", deps.PaymentHandler.Verify)

	public.Post("/api/promo/validate", deps.PromoHandler.Validate)

	public.Post("/api/stylist/chat", deps.StylistHandler.Chat)
}

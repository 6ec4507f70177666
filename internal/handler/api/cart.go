package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// CartHandler serves the anonymous storefront cart. The client holds the
// cart ID and sends it on every call.
type CartHandler struct {
	carts domain.CartService
}

func NewCartHandler(carts domain.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Create handles POST /api/cart
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetCart(r.Context(), nil)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusCreated, handler.NewCartView(cart))
}

// Get handles GET /api/cart/{cartID}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID, err := handler.PathUUID(r, "cartID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.GetCart(r.Context(), &cartID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewCartView(cart))
}

type addItemRequest struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int32     `json:"quantity"`
}

// AddItem handles POST /api/cart/{cartID}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := handler.PathUUID(r, "cartID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.VariantID == uuid.Nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "variant_id is required"))
		return
	}

	cart, err := h.carts.AddItem(r.Context(), cartID, req.VariantID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewCartView(cart))
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

// UpdateItem handles PATCH /api/cart/{cartID}/items/{itemID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := handler.PathUUID(r, "cartID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	itemID, err := handler.PathUUID(r, "itemID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), cartID, itemID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewCartView(cart))
}

// RemoveItem handles DELETE /api/cart/{cartID}/items/{itemID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := handler.PathUUID(r, "cartID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	itemID, err := handler.PathUUID(r, "itemID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), cartID, itemID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewCartView(cart))
}

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// OrderHandler serves storefront order placement and lookup.
type OrderHandler struct {
	orders domain.OrderService
}

func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type addressRequest struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type createOrderRequest struct {
	CartID          uuid.UUID      `json:"cart_id"`
	Email           string         `json:"email"`
	ShippingAddress addressRequest `json:"shipping_address"`
	PromoCode       string         `json:"promo_code"`
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.CartID == uuid.Nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "cart_id is required"))
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), domain.CreateOrderParams{
		CartID: req.CartID,
		Email:  req.Email,
		ShippingAddress: domain.Address{
			Name:       req.ShippingAddress.Name,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			Phone:      req.ShippingAddress.Phone,
		},
		PromoCode: req.PromoCode,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusCreated, handler.NewOrderView(order))
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewOrderView(order))
}

// Cancel handles POST /api/orders/{id}/cancel, the compensating cancel used
// when the customer dismisses the payment modal.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.orders.CancelOrder(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondNoContent(w)
}

package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// OrderHandler serves the back-office order views.
type OrderHandler struct {
	orders domain.OrderService
}

func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.OrderFilter{}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.Valid() {
			handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "Invalid status"))
			return
		}
		filter.Status = &status
	}
	if email := q.Get("email"); email != "" {
		filter.Email = &email
	}

	result, err := h.orders.ListOrders(r.Context(), filter, offsetPage(q.Get("offset"), q.Get("limit")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, map[string]any{
		"items":  handler.NewOrderViews(result.Items),
		"total":  result.Total,
		"offset": result.Offset,
		"limit":  result.Limit,
	})
}

// Get handles GET /api/admin/orders/{id}
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

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/orders/{id}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateOrderStatusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewOrderView(order))
}

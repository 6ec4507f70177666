package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// CustomerHandler serves the back-office customer views.
type CustomerHandler struct {
	customers domain.CustomerService
}

func NewCustomerHandler(customers domain.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List handles GET /api/admin/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.CustomerFilter{}
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}

	result, err := h.customers.ListCustomers(r.Context(), filter, offsetPage(q.Get("offset"), q.Get("limit")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items := make([]handler.CustomerView, len(result.Items))
	for i := range result.Items {
		items[i] = handler.NewCustomerView(&result.Items[i])
	}
	handler.RespondData(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  result.Total,
		"offset": result.Offset,
		"limit":  result.Limit,
	})
}

// Get handles GET /api/admin/customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	customer, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewCustomerView(customer))
}

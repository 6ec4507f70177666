// Package api contains the public storefront JSON handlers.
package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// ProductHandler serves the storefront catalog.
type ProductHandler struct {
	products domain.ProductService
}

func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{}
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "Invalid category"))
			return
		}
		filter.CategoryID = &id
	}
	if raw := q.Get("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}

	sort := domain.ProductSort{
		Field: q.Get("sort"),
		Desc:  q.Get("order") == "desc",
	}

	page := domain.CursorPage{
		Cursor: q.Get("cursor"),
		Limit:  parseLimit(q.Get("limit")),
	}

	result, err := h.products.ListProducts(r.Context(), filter, sort, page)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, map[string]any{
		"items":       handler.NewProductListItemViews(result.Items),
		"next_cursor": result.NextCursor,
		"has_more":    result.HasMore,
	})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, handler.NewProductView(product))
}

// Categories handles GET /api/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	views := make([]handler.CategoryView, len(categories))
	for i, c := range categories {
		views[i] = handler.CategoryView{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
	}
	handler.RespondData(w, http.StatusOK, views)
}

func parseLimit(raw string) int32 {
	if raw == "" {
		return domain.DefaultPageLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return domain.DefaultPageLimit
	}
	if limit > int(domain.MaxPageLimit) {
		return domain.MaxPageLimit
	}
	return int32(limit)
}

package admin

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// ProductHandler serves the back-office catalog CRUD.
type ProductHandler struct {
	products domain.ProductService
}

func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{}
	if raw := q.Get("status"); raw != "" {
		status := domain.ProductStatus(raw)
		if !status.Valid() {
			handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "Invalid status"))
			return
		}
		filter.Status = &status
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

	result, err := h.products.ListProductsAdmin(r.Context(), filter, sort, offsetPage(q.Get("offset"), q.Get("limit")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, map[string]any{
		"items":  handler.NewProductListItemViews(result.Items),
		"total":  result.Total,
		"offset": result.Offset,
		"limit":  result.Limit,
	})
}

// Get handles GET /api/admin/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.GetProductAdmin(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewProductView(product))
}

type variantRequest struct {
	ID                 *uuid.UUID `json:"id"`
	SKU                string     `json:"sku"`
	Color              string     `json:"color"`
	Size               string     `json:"size"`
	PriceOverrideCents *int64     `json:"price_override_cents"`
	IsActive           bool       `json:"is_active"`
	Stock              int32      `json:"stock"`
	LowStockThreshold  int32      `json:"low_stock_threshold"`
}

type imageRequest struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	AltText      string `json:"alt_text"`
}

type productRequest struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	BasePriceCents    int64            `json:"base_price_cents"`
	Status            string           `json:"status"`
	Featured          bool             `json:"featured"`
	CategoryIDs       []uuid.UUID      `json:"category_ids"`
	Variants          []variantRequest `json:"variants"`
	Images            []imageRequest   `json:"images"`
	PrimaryImageIndex int              `json:"primary_image_index"`
}

func (req productRequest) variants() []domain.VariantInput {
	variants := make([]domain.VariantInput, len(req.Variants))
	for i, v := range req.Variants {
		variants[i] = domain.VariantInput{
			ID:                 v.ID,
			SKU:                v.SKU,
			Color:              v.Color,
			Size:               v.Size,
			PriceOverrideCents: v.PriceOverrideCents,
			IsActive:           v.IsActive,
			Stock:              v.Stock,
			LowStockThreshold:  v.LowStockThreshold,
		}
	}
	return variants
}

func (req productRequest) images() []domain.ImageInput {
	images := make([]domain.ImageInput, len(req.Images))
	for i, img := range req.Images {
		images[i] = domain.ImageInput{
			URL:          img.URL,
			ThumbnailURL: img.ThumbnailURL,
			AltText:      img.AltText,
		}
	}
	return images
}

// Create handles POST /api/admin/products. A client-supplied Idempotency-Key
// header makes retries return the originally created product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), domain.CreateProductParams{
		Name:              req.Name,
		Description:       req.Description,
		BasePriceCents:    req.BasePriceCents,
		Status:            domain.ProductStatus(req.Status),
		Featured:          req.Featured,
		CategoryIDs:       req.CategoryIDs,
		Variants:          req.variants(),
		Images:            req.images(),
		PrimaryImageIndex: req.PrimaryImageIndex,
		IdempotencyKey:    r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusCreated, handler.NewProductView(product))
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req productRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, domain.UpdateProductParams{
		Name:              req.Name,
		Description:       req.Description,
		BasePriceCents:    req.BasePriceCents,
		Status:            domain.ProductStatus(req.Status),
		Featured:          req.Featured,
		CategoryIDs:       req.CategoryIDs,
		Variants:          req.variants(),
		Images:            req.images(),
		PrimaryImageIndex: req.PrimaryImageIndex,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewProductView(product))
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondNoContent(w)
}

// offsetPage parses offset/limit query parameters with admin defaults.
func offsetPage(rawOffset, rawLimit string) domain.OffsetPage {
	page := domain.OffsetPage{Limit: 50}
	if offset, err := strconv.Atoi(rawOffset); err == nil && offset > 0 {
		page.Offset = int32(offset)
	}
	if limit, err := strconv.Atoi(rawLimit); err == nil && limit > 0 && limit <= 200 {
		page.Limit = int32(limit)
	}
	return page
}

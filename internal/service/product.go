package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

const (
	// skuMaxAttempts caps the collision-retry loop before falling back to a
	// timestamp suffix.
	skuMaxAttempts = 100

	idempotencyTTL = 24 * time.Hour

	// listCacheKey holds the default storefront landing page. The TTL is
	// short because stock counts on the page drift with sales.
	listCacheKey = "products:list:first"
	listCacheTTL = 5 * time.Minute
)

// Cache is the redis surface the catalog uses: idempotency-key reservation
// for create, and a cache-aside read on the default storefront listing.
// Nil disables both.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Reserve(ctx context.Context, key string, value any, ttl time.Duration, existing any) (bool, error)
	Delete(ctx context.Context, key string) error
}

type productService struct {
	store  domain.ProductStore
	cache  Cache
	audit  *auditTrail
	logger *slog.Logger
}

// NewProductService creates the product catalog service.
func NewProductService(store domain.ProductStore, cache Cache, audit domain.AuditStore, logger *slog.Logger) domain.ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &productService{
		store:  store,
		cache:  cache,
		audit:  newAuditTrail(audit, logger),
		logger: logger,
	}
}

func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error) {
	// The storefront only ever sees live products.
	live := domain.ProductStatusLive
	filter.Status = &live

	if !s.listCacheable(filter, sort, page) {
		return s.store.ListByCursor(ctx, filter, sort, page)
	}

	var cached domain.ProductPage
	if hit, err := s.cache.Get(ctx, listCacheKey, &cached); err != nil {
		s.logger.Warn("product list cache read failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	result, err := s.store.ListByCursor(ctx, filter, sort, page)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWithTTL(ctx, listCacheKey, result, listCacheTTL); err != nil {
		s.logger.Warn("product list cache write failed", "error", err)
	}
	return result, nil
}

// listCacheable limits caching to the one request every visitor makes: the
// unfiltered, default-sorted first page.
func (s *productService) listCacheable(filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) bool {
	return s.cache != nil &&
		filter.CategoryID == nil && filter.Featured == nil && filter.Search == nil &&
		sort == (domain.ProductSort{}) &&
		page.Cursor == "" && page.Limit == domain.DefaultPageLimit
}

func (s *productService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("product list cache invalidation failed", "error", err)
	}
}

func (s *productService) ListProductsAdmin(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.OffsetPage) (*domain.AdminProductPage, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.Invalid("product.list", fmt.Sprintf("unknown status %q", *filter.Status))
	}
	return s.store.ListAdmin(ctx, filter, sort, page)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Status != domain.ProductStatusLive {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *productService) GetProductAdmin(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.GetByID(ctx, id)
}

func (s *productService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	const op = "product.create"

	if err := validateProductPayload(op, params.Name, params.BasePriceCents, params.Status, params.Variants, params.Images, params.PrimaryImageIndex); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(params.Name),
		Description:    params.Description,
		BasePriceCents: params.BasePriceCents,
		Status:         params.Status,
		Featured:       params.Featured,
	}

	// A retried request returns the product created by the first attempt.
	if params.IdempotencyKey != "" && s.cache != nil {
		var existingID uuid.UUID
		won, err := s.cache.Reserve(ctx, "product:create:"+params.IdempotencyKey, product.ID, idempotencyTTL, &existingID)
		if err != nil {
			s.logger.Warn("idempotency reservation failed, proceeding without it", "error", err)
		} else if !won {
			return s.store.GetByID(ctx, existingID)
		}
	}

	if err := s.buildVariants(ctx, product, params.Variants); err != nil {
		s.releaseIdempotencyKey(ctx, params.IdempotencyKey)
		return nil, err
	}
	product.Images = buildImages(product.ID, params.Images, params.PrimaryImageIndex)
	product.Categories = categoryRefs(params.CategoryIDs)

	if err := s.store.Create(ctx, product); err != nil {
		s.releaseIdempotencyKey(ctx, params.IdempotencyKey)
		return nil, err
	}

	s.invalidateListCache(ctx)
	s.audit.record(ctx, "product.create", "product", product.ID, map[string]any{
		"name":     product.Name,
		"status":   string(product.Status),
		"variants": len(product.Variants),
	})

	return s.store.GetByID(ctx, product.ID)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	const op = "product.update"

	if err := validateProductPayload(op, params.Name, params.BasePriceCents, params.Status, params.Variants, params.Images, params.PrimaryImageIndex); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]domain.ProductVariant, len(existing.Variants))
	for _, v := range existing.Variants {
		known[v.ID] = v
	}

	product := &domain.Product{
		ID:             id,
		Name:           strings.TrimSpace(params.Name),
		Description:    params.Description,
		BasePriceCents: params.BasePriceCents,
		Status:         params.Status,
		Featured:       params.Featured,
	}

	// Reconcile variants by ID: known IDs update, nil IDs create, and
	// variants omitted from the payload are deleted.
	seen := make(map[uuid.UUID]bool, len(params.Variants))
	taken := takenSKUs(existing.Variants)
	for _, input := range params.Variants {
		variant := domain.ProductVariant{
			ProductID:          id,
			SKU:                strings.TrimSpace(input.SKU),
			Color:              input.Color,
			Size:               input.Size,
			PriceOverrideCents: input.PriceOverrideCents,
			IsActive:           input.IsActive,
			Inventory: &domain.Inventory{
				Stock:             input.Stock,
				LowStockThreshold: input.LowStockThreshold,
			},
		}
		if input.ID != nil {
			prior, ok := known[*input.ID]
			if !ok {
				return nil, domain.ErrVariantNotFound
			}
			variant.ID = *input.ID
			if variant.SKU == "" {
				variant.SKU = prior.SKU
			}
			seen[*input.ID] = true
		} else {
			variant.ID = uuid.New()
			if variant.SKU == "" {
				sku, err := s.generateSKU(ctx, product.Name, input.Color, input.Size, taken)
				if err != nil {
					return nil, err
				}
				variant.SKU = sku
			}
		}
		variant.Inventory.VariantID = variant.ID
		taken[variant.SKU] = true
		product.Variants = append(product.Variants, variant)
	}

	var variantsToDelete []uuid.UUID
	for _, v := range existing.Variants {
		if !seen[v.ID] {
			variantsToDelete = append(variantsToDelete, v.ID)
		}
	}

	product.Images = buildImages(id, params.Images, params.PrimaryImageIndex)
	product.Categories = categoryRefs(params.CategoryIDs)

	if err := s.store.Update(ctx, product, variantsToDelete); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	s.audit.record(ctx, "product.update", "product", id, map[string]any{
		"name":             product.Name,
		"status":           string(product.Status),
		"variants":         len(product.Variants),
		"variants_deleted": len(variantsToDelete),
	})

	return s.store.GetByID(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	cartRefs, orderRefs, err := s.store.ReferenceCounts(ctx, id)
	if err != nil {
		return err
	}
	if cartRefs > 0 || orderRefs > 0 {
		return domain.ErrProductInUse
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	s.audit.record(ctx, "product.delete", "product", id, map[string]any{
		"name": product.Name,
	})
	return nil
}

func (s *productService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *productService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" || s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "product:create:"+key); err != nil {
		s.logger.Warn("failed to release idempotency key", "error", err)
	}
}

// buildVariants resolves SKUs and attaches inventory rows for a create.
func (s *productService) buildVariants(ctx context.Context, product *domain.Product, inputs []domain.VariantInput) error {
	taken := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		sku := strings.TrimSpace(input.SKU)
		if sku == "" {
			generated, err := s.generateSKU(ctx, product.Name, input.Color, input.Size, taken)
			if err != nil {
				return err
			}
			sku = generated
		}
		taken[sku] = true

		variantID := uuid.New()
		product.Variants = append(product.Variants, domain.ProductVariant{
			ID:                 variantID,
			ProductID:          product.ID,
			SKU:                sku,
			Color:              input.Color,
			Size:               input.Size,
			PriceOverrideCents: input.PriceOverrideCents,
			IsActive:           input.IsActive,
			Inventory: &domain.Inventory{
				VariantID:         variantID,
				Stock:             input.Stock,
				LowStockThreshold: input.LowStockThreshold,
			},
		})
	}
	return nil
}

// generateSKU derives a base SKU from name/color/size, then resolves
// collisions with -2, -3, ... suffixes. After skuMaxAttempts it falls back to
// a timestamp suffix, which cannot realistically collide.
func (s *productService) generateSKU(ctx context.Context, name, color, size string, taken map[string]bool) (string, error) {
	base := skuBase(name, color, size)

	candidate := base
	for attempt := 2; attempt <= skuMaxAttempts+1; attempt++ {
		if !taken[candidate] {
			exists, err := s.store.SKUExists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !exists {
				return candidate, nil
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()), nil
}

// skuBase builds an uppercase alphanumeric code like LINEN-WRAP-SAG-M.
func skuBase(name, color, size string) string {
	parts := make([]string, 0, 3)
	if p := skuToken(name, 10); p != "" {
		parts = append(parts, p)
	}
	if p := skuToken(color, 3); p != "" {
		parts = append(parts, p)
	}
	if p := skuToken(size, 4); p != "" {
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "SKU"
	}
	return strings.Join(parts, "-")
}

func skuToken(s string, max int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= max {
				break
			}
		}
	}
	return b.String()
}

// buildImages assigns display orders with the primary image at zero.
func buildImages(productID uuid.UUID, inputs []domain.ImageInput, primaryIndex int) []domain.ProductImage {
	images := make([]domain.ProductImage, 0, len(inputs))
	order := int32(1)
	for i, input := range inputs {
		img := domain.ProductImage{
			ID:           uuid.New(),
			ProductID:    productID,
			URL:          input.URL,
			ThumbnailURL: input.ThumbnailURL,
			AltText:      input.AltText,
		}
		if i == primaryIndex {
			img.DisplayOrder = 0
		} else {
			img.DisplayOrder = order
			order++
		}
		images = append(images, img)
	}
	return images
}

func categoryRefs(ids []uuid.UUID) []domain.Category {
	categories := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		categories = append(categories, domain.Category{ID: id})
	}
	return categories
}

func takenSKUs(variants []domain.ProductVariant) map[string]bool {
	taken := make(map[string]bool, len(variants))
	for _, v := range variants {
		taken[v.SKU] = true
	}
	return taken
}

func validateProductPayload(op, name string, basePriceCents int64, status domain.ProductStatus, variants []domain.VariantInput, images []domain.ImageInput, primaryIndex int) error {
	var err error
	if strings.TrimSpace(name) == "" {
		err = domain.AddFieldError(err, "name", "Name is required")
	}
	if basePriceCents < 0 {
		err = domain.AddFieldError(err, "base_price_cents", "Base price cannot be negative")
	}
	if !status.Valid() {
		err = domain.AddFieldError(err, "status", fmt.Sprintf("Status must be %q or %q", domain.ProductStatusDraft, domain.ProductStatusLive))
	}
	for i, v := range variants {
		if v.Stock < 0 {
			err = domain.AddFieldError(err, fmt.Sprintf("variants[%d].stock", i), "Stock cannot be negative")
		}
		if v.LowStockThreshold < 0 {
			err = domain.AddFieldError(err, fmt.Sprintf("variants[%d].low_stock_threshold", i), "Threshold cannot be negative")
		}
	}
	if len(images) == 0 {
		err = domain.AddFieldError(err, "images", "add at least one image")
	} else if primaryIndex < 0 || primaryIndex >= len(images) {
		err = domain.AddFieldError(err, "primary_image_index", "Primary image index is out of range")
	}
	if err != nil {
		if ve, ok := err.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return err
	}
	return nil
}

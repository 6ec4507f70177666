package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/domain"
)

func TestProductService_ListProducts_ForcesLiveStatus(t *testing.T) {
	var gotFilter domain.ProductFilter
	store := &mockProductStore{
		ListByCursorFunc: func(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error) {
			gotFilter = filter
			return &domain.ProductPage{}, nil
		},
	}
	svc := NewProductService(store, nil, nil, nil)

	draft := domain.ProductStatusDraft
	_, err := svc.ListProducts(context.Background(), domain.ProductFilter{Status: &draft}, domain.ProductSort{}, domain.CursorPage{})
	require.NoError(t, err)

	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, domain.ProductStatusLive, *gotFilter.Status)
}

func TestProductService_GetProduct_HidesDrafts(t *testing.T) {
	id := uuid.New()
	store := &mockProductStore{
		GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*domain.Product, error) {
			return &domain.Product{ID: gotID, Status: domain.ProductStatusDraft}, nil
		},
	}
	svc := NewProductService(store, nil, nil, nil)

	_, err := svc.GetProduct(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	product, err := svc.GetProductAdmin(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusDraft, product.Status)
}

func createParams() domain.CreateProductParams {
	return domain.CreateProductParams{
		Name:           "Linen Wrap Dress",
		BasePriceCents: 8400,
		Status:         domain.ProductStatusLive,
		Variants: []domain.VariantInput{
			{Color: "Sage", Size: "M", IsActive: true, Stock: 10, LowStockThreshold: 3},
			{Color: "Sage", Size: "L", IsActive: true, Stock: 4, LowStockThreshold: 3},
		},
		Images: []domain.ImageInput{
			{URL: "https://cdn.example.com/a.jpg"},
			{URL: "https://cdn.example.com/b.jpg"},
		},
		PrimaryImageIndex: 1,
	}
}

func TestProductService_ListProducts_CachesDefaultPage(t *testing.T) {
	var listCalls int
	store := &mockProductStore{
		ListByCursorFunc: func(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, page domain.CursorPage) (*domain.ProductPage, error) {
			listCalls++
			return &domain.ProductPage{
				Items: []domain.ProductListItem{{Name: "Linen Wrap Dress"}},
			}, nil
		},
	}
	cache := &fakeListCache{}
	svc := NewProductService(store, cache, nil, nil)

	page := domain.CursorPage{Limit: domain.DefaultPageLimit}

	first, err := svc.ListProducts(context.Background(), domain.ProductFilter{}, domain.ProductSort{}, page)
	require.NoError(t, err)

	second, err := svc.ListProducts(context.Background(), domain.ProductFilter{}, domain.ProductSort{}, page)
	require.NoError(t, err)

	assert.Equal(t, 1, listCalls, "second read comes from the cache")
	assert.Equal(t, first.Items, second.Items)

	// Filtered, sorted, cursored or resized requests go to the store.
	search := "dress"
	_, err = svc.ListProducts(context.Background(), domain.ProductFilter{Search: &search}, domain.ProductSort{}, page)
	require.NoError(t, err)
	_, err = svc.ListProducts(context.Background(), domain.ProductFilter{}, domain.ProductSort{Field: "price"}, page)
	require.NoError(t, err)
	_, err = svc.ListProducts(context.Background(), domain.ProductFilter{}, domain.ProductSort{}, domain.CursorPage{Cursor: "abc", Limit: domain.DefaultPageLimit})
	require.NoError(t, err)
	assert.Equal(t, 4, listCalls)
}

func TestProductService_MutationsInvalidateListCache(t *testing.T) {
	productID := uuid.New()
	store := &mockProductStore{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
			return &domain.Product{ID: productID, Name: "Dress"}, nil
		},
		ReferenceCountsFunc: func(ctx context.Context, id uuid.UUID) (int64, int64, error) {
			return 0, 0, nil
		},
		DeleteFunc: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	cache := &fakeListCache{
		pages: map[string]domain.ProductPage{
			"products:list:first": {Items: []domain.ProductListItem{{Name: "Dress"}}},
		},
	}
	svc := NewProductService(store, cache, nil, nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), productID))
	assert.Contains(t, cache.deletes, "products:list:first")
	assert.Empty(t, cache.pages)
}

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("builds the aggregate with SKUs, inventory and primary image", func(t *testing.T) {
		var created *domain.Product
		store := &mockProductStore{
			SKUExistsFunc: func(ctx context.Context, sku string) (bool, error) { return false, nil },
			CreateFunc: func(ctx context.Context, product *domain.Product) error {
				created = product
				return nil
			},
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return created, nil
			},
		}
		audit := &mockAuditStore{}
		svc := NewProductService(store, nil, audit, nil)

		product, err := svc.CreateProduct(context.Background(), createParams())
		require.NoError(t, err)

		require.Len(t, product.Variants, 2)
		assert.Equal(t, "LINENWRAPD-SAG-M", product.Variants[0].SKU)
		assert.Equal(t, "LINENWRAPD-SAG-L", product.Variants[1].SKU)
		require.NotNil(t, product.Variants[0].Inventory)
		assert.Equal(t, int32(10), product.Variants[0].Inventory.Stock)
		assert.Equal(t, product.Variants[0].ID, product.Variants[0].Inventory.VariantID)

		require.Len(t, product.Images, 2)
		assert.Equal(t, int32(1), product.Images[0].DisplayOrder)
		assert.Equal(t, int32(0), product.Images[1].DisplayOrder)

		require.Len(t, audit.entries, 1)
		assert.Equal(t, "product.create", audit.entries[0].Action)
		assert.Equal(t, product.ID, audit.entries[0].EntityID)
	})

	t.Run("SKU collisions get numeric suffixes", func(t *testing.T) {
		taken := map[string]bool{"LINENWRAPD-SAG-M": true, "LINENWRAPD-SAG-M-2": true}
		store := &mockProductStore{
			SKUExistsFunc: func(ctx context.Context, sku string) (bool, error) {
				return taken[sku], nil
			},
			CreateFunc: func(ctx context.Context, product *domain.Product) error { return nil },
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return &domain.Product{ID: id}, nil
			},
		}
		svc := NewProductService(store, nil, nil, nil)

		params := createParams()
		params.Variants = params.Variants[:1]

		var created *domain.Product
		store.CreateFunc = func(ctx context.Context, product *domain.Product) error {
			created = product
			return nil
		}
		_, err := svc.CreateProduct(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "LINENWRAPD-SAG-M-3", created.Variants[0].SKU)
	})

	t.Run("retried idempotency key returns the original product", func(t *testing.T) {
		var createCalls int
		var createdID uuid.UUID
		store := &mockProductStore{
			SKUExistsFunc: func(ctx context.Context, sku string) (bool, error) { return false, nil },
			CreateFunc: func(ctx context.Context, product *domain.Product) error {
				createCalls++
				createdID = product.ID
				return nil
			},
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return &domain.Product{ID: id, Status: domain.ProductStatusLive}, nil
			},
		}
		svc := NewProductService(store, &fakeIdemStore{}, nil, nil)

		params := createParams()
		params.IdempotencyKey = "req-abc123"

		first, err := svc.CreateProduct(context.Background(), params)
		require.NoError(t, err)

		second, err := svc.CreateProduct(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, 1, createCalls)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, createdID, second.ID)
	})

	t.Run("rejects a product without images", func(t *testing.T) {
		var createCalls int
		store := &mockProductStore{
			SKUExistsFunc: func(ctx context.Context, sku string) (bool, error) { return false, nil },
			CreateFunc: func(ctx context.Context, product *domain.Product) error {
				createCalls++
				return nil
			},
		}
		svc := NewProductService(store, nil, nil, nil)

		params := createParams()
		params.Images = nil
		params.PrimaryImageIndex = 0

		_, err := svc.CreateProduct(context.Background(), params)
		require.Error(t, err)
		require.True(t, domain.IsValidationError(err))
		assert.Equal(t, "add at least one image", domain.GetValidationFields(err)["images"])
		assert.Zero(t, createCalls)
	})

	t.Run("validation failures carry field errors", func(t *testing.T) {
		svc := NewProductService(&mockProductStore{}, nil, nil, nil)

		params := createParams()
		params.Name = ""
		params.BasePriceCents = -1
		params.PrimaryImageIndex = 5

		_, err := svc.CreateProduct(context.Background(), params)
		require.Error(t, err)
		fields := domain.GetValidationFields(err)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "base_price_cents")
		assert.Contains(t, fields, "primary_image_index")
	})
}

func TestProductService_UpdateProduct_ReconcilesVariants(t *testing.T) {
	productID := uuid.New()
	keepID := uuid.New()
	dropID := uuid.New()

	existing := &domain.Product{
		ID:     productID,
		Name:   "Linen Wrap Dress",
		Status: domain.ProductStatusLive,
		Variants: []domain.ProductVariant{
			{ID: keepID, ProductID: productID, SKU: "LINENWRAPD-SAG-M"},
			{ID: dropID, ProductID: productID, SKU: "LINENWRAPD-SAG-L"},
		},
	}

	var gotProduct *domain.Product
	var gotDeletes []uuid.UUID
	store := &mockProductStore{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
			if gotProduct != nil {
				return gotProduct, nil
			}
			return existing, nil
		},
		SKUExistsFunc: func(ctx context.Context, sku string) (bool, error) { return false, nil },
		UpdateFunc: func(ctx context.Context, product *domain.Product, variantsToDelete []uuid.UUID) error {
			gotProduct = product
			gotDeletes = variantsToDelete
			return nil
		},
	}
	audit := &mockAuditStore{}
	svc := NewProductService(store, nil, audit, nil)

	params := domain.UpdateProductParams{
		Name:           "Linen Wrap Dress",
		BasePriceCents: 8900,
		Status:         domain.ProductStatusLive,
		Variants: []domain.VariantInput{
			{ID: &keepID, Color: "Sage", Size: "M", IsActive: true, Stock: 8},
			{Color: "Navy", Size: "M", IsActive: true, Stock: 5},
		},
		Images: []domain.ImageInput{
			{URL: "https://cdn.example.com/a.jpg"},
		},
	}

	_, err := svc.UpdateProduct(context.Background(), productID, params)
	require.NoError(t, err)

	require.Len(t, gotProduct.Variants, 2)
	assert.Equal(t, keepID, gotProduct.Variants[0].ID)
	assert.Equal(t, "LINENWRAPD-SAG-M", gotProduct.Variants[0].SKU, "kept variant keeps its SKU")
	assert.NotEqual(t, uuid.Nil, gotProduct.Variants[1].ID)
	assert.Equal(t, "LINENWRAPD-NAV-M", gotProduct.Variants[1].SKU)

	assert.Equal(t, []uuid.UUID{dropID}, gotDeletes)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "product.update", audit.entries[0].Action)
}

func TestProductService_UpdateProduct_UnknownVariantID(t *testing.T) {
	productID := uuid.New()
	store := &mockProductStore{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
			return &domain.Product{ID: productID, Status: domain.ProductStatusLive}, nil
		},
	}
	svc := NewProductService(store, nil, nil, nil)

	stray := uuid.New()
	_, err := svc.UpdateProduct(context.Background(), productID, domain.UpdateProductParams{
		Name:   "Dress",
		Status: domain.ProductStatusLive,
		Variants: []domain.VariantInput{
			{ID: &stray, Color: "Sage", Size: "M"},
		},
		Images: []domain.ImageInput{
			{URL: "https://cdn.example.com/a.jpg"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productID := uuid.New()

	newStore := func(cartRefs, orderRefs int64) (*mockProductStore, *bool) {
		deleted := false
		return &mockProductStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return &domain.Product{ID: productID, Name: "Dress"}, nil
			},
			ReferenceCountsFunc: func(ctx context.Context, id uuid.UUID) (int64, int64, error) {
				return cartRefs, orderRefs, nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				deleted = true
				return nil
			},
		}, &deleted
	}

	t.Run("blocked by active cart references", func(t *testing.T) {
		store, deleted := newStore(2, 0)
		svc := NewProductService(store, nil, nil, nil)
		err := svc.DeleteProduct(context.Background(), productID)
		assert.ErrorIs(t, err, domain.ErrProductInUse)
		assert.False(t, *deleted)
	})

	t.Run("blocked by open order references", func(t *testing.T) {
		store, deleted := newStore(0, 1)
		svc := NewProductService(store, nil, nil, nil)
		err := svc.DeleteProduct(context.Background(), productID)
		assert.ErrorIs(t, err, domain.ErrProductInUse)
		assert.False(t, *deleted)
	})

	t.Run("unreferenced products delete with an audit row", func(t *testing.T) {
		store, deleted := newStore(0, 0)
		audit := &mockAuditStore{}
		svc := NewProductService(store, nil, audit, nil)
		require.NoError(t, svc.DeleteProduct(context.Background(), productID))
		assert.True(t, *deleted)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, "product.delete", audit.entries[0].Action)
	})
}

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/storage"
)

func TestAuthHandler_Login(t *testing.T) {
	member := &domain.TeamMember{
		ID:       uuid.New(),
		Email:    "ava@atelier.test",
		Name:     "Ava",
		Role:     domain.TeamRoleOwner,
		IsActive: true,
	}

	team := &mockTeamService{
		AuthenticateFunc: func(_ context.Context, email, password string) (string, *domain.TeamMember, error) {
			assert.Equal(t, "ava@atelier.test", email)
			assert.Equal(t, "correct horse", password)
			return "signed.jwt.token", member, nil
		},
	}
	h := NewAuthHandler(team)

	payload := `{"email":"ava@atelier.test","password":"correct horse"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Token  string `json:"token"`
			Member struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"member"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "signed.jwt.token", body.Data.Token)
	assert.Equal(t, "owner", body.Data.Member.Role)

	// The hash must never appear in the response.
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	team := &mockTeamService{
		AuthenticateFunc: func(context.Context, string, string) (string, *domain.TeamMember, error) {
			return "", nil, domain.ErrBadCredentials
		},
	}
	h := NewAuthHandler(team)

	payload := `{"email":"ava@atelier.test","password":"wrong"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(payload)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductHandler_Create_ForwardsIdempotencyKey(t *testing.T) {
	var got domain.CreateProductParams
	products := &mockProductService{
		CreateProductFunc: func(_ context.Context, params domain.CreateProductParams) (*domain.Product, error) {
			got = params
			return &domain.Product{ID: uuid.New(), Name: params.Name, Status: params.Status}, nil
		},
	}
	h := NewProductHandler(products)

	payload := `{
		"name": "Linen Wrap Dress",
		"base_price_cents": 8400,
		"status": "live",
		"variants": [{"color": "Sage", "size": "M", "is_active": true, "stock": 10, "low_stock_threshold": 5}],
		"images": [{"url": "https://cdn.atelier.test/a.jpg"}],
		"primary_image_index": 0
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(payload))
	req.Header.Set("Idempotency-Key", "create-attempt-7")
	w := httptest.NewRecorder()
	h.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "create-attempt-7", got.IdempotencyKey)
	assert.Equal(t, "Linen Wrap Dress", got.Name)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, int32(10), got.Variants[0].Stock)
}

func TestProductHandler_Delete_InUse(t *testing.T) {
	products := &mockProductService{
		DeleteProductFunc: func(context.Context, uuid.UUID) error {
			return domain.ErrProductInUse
		},
	}
	h := NewProductHandler(products)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInventoryHandler_UpdateStock(t *testing.T) {
	variantID := uuid.New()
	inventory := &mockInventoryService{
		UpdateStockFunc: func(_ context.Context, id uuid.UUID, params domain.UpdateStockParams) (*domain.InventoryItem, error) {
			assert.Equal(t, variantID, id)
			assert.Equal(t, domain.StockActionSubtract, params.Action)
			assert.Equal(t, int32(15), params.Quantity)
			return &domain.InventoryItem{
				VariantID: variantID,
				SKU:       "LINENWRAPD-SAG-M",
				Stock:     0,
				Status:    domain.StockStatusOutOfStock,
			}, nil
		},
	}
	h := NewInventoryHandler(inventory)

	payload := `{"action":"subtract","quantity":15}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/inventory/"+variantID.String(), strings.NewReader(payload))
	req.SetPathValue("variantID", variantID.String())
	w := httptest.NewRecorder()
	h.UpdateStock(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Stock  int32  `json:"stock"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int32(0), body.Data.Stock)
	assert.Equal(t, "out_of_stock", body.Data.Status)
}

func TestUploadHandler_Upload(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:3000/uploads")
	require.NoError(t, err)
	h := NewUploadHandler(store)

	// A real PNG so decode and thumbnailing run end to end.
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for x := 0; x < 400; x++ {
		for y := 0; y < 300; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 140, B: 110, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("image", "dress.png")
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Upload(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Data["url"], "http://localhost:3000/uploads/products/")
	assert.Contains(t, body.Data["thumbnail_url"], "_thumb.jpg")
}

func TestUploadHandler_Upload_UnsupportedFormat(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:3000/uploads")
	require.NoError(t, err)
	h := NewUploadHandler(store)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("image", "dress.gif")
	require.NoError(t, err)
	_, err = part.Write([]byte("GIF89a not really"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

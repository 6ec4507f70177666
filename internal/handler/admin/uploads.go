package admin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
	"github.com/atelierhq/atelier/internal/imaging"
	"github.com/atelierhq/atelier/internal/storage"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// maxUploadBytes bounds the multipart form held in memory.
const maxUploadBytes = 10 << 20

// UploadHandler stores product images and their thumbnails.
type UploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{storage: store}
}

// Upload handles POST /api/admin/uploads. The multipart field is "image";
// the original and a generated thumbnail are stored side by side.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "upload.image", "Invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "upload.image", "Missing image file"))
		return
	}
	defer file.Close()

	// Buffer the upload so it can be decoded and stored from the same bytes.
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINTERNAL, "upload.image", "Failed to read upload"))
		return
	}
	if len(data) > maxUploadBytes {
		handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "upload.image", "Image exceeds the 10MB limit"))
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data), header.Filename)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "upload.image", "Only JPEG and PNG images are supported"))
			return
		}
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "upload.image", "Could not decode image"))
		return
	}

	thumb, err := imaging.Thumbnail(img)
	if err != nil {
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINTERNAL, "upload.image", "Failed to generate thumbnail"))
		return
	}

	key := uploadKey(header.Filename)
	url, err := h.storage.Put(r.Context(), key, bytes.NewReader(data), contentTypeFor(header.Filename))
	if err != nil {
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINTERNAL, "upload.image", "Failed to store image"))
		return
	}

	thumbKey := strings.TrimSuffix(key, filepath.Ext(key)) + "_thumb.jpg"
	thumbURL, err := h.storage.Put(r.Context(), thumbKey, bytes.NewReader(thumb), "image/jpeg")
	if err != nil {
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINTERNAL, "upload.image", "Failed to store thumbnail"))
		return
	}

	telemetry.RecordUpload()

	handler.RespondData(w, http.StatusCreated, map[string]string{
		"url":           url,
		"thumbnail_url": thumbURL,
	})
}

func uploadKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("products/%s%s", uuid.New(), ext)
}

func contentTypeFor(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

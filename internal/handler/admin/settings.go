package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// SettingsHandler serves the singleton store settings.
type SettingsHandler struct {
	settings domain.SettingsService
}

func NewSettingsHandler(settings domain.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /api/admin/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSettings(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewSettingsView(settings))
}

type updateSettingsRequest struct {
	StoreName            *string `json:"store_name"`
	SupportEmail         *string `json:"support_email"`
	CurrencyCode         *string `json:"currency_code"`
	FlatShippingCents    *int64  `json:"flat_shipping_cents"`
	FreeShippingMinCents *int64  `json:"free_shipping_min_cents"`
	StylistEnabled       *bool   `json:"stylist_enabled"`
}

// Update handles PUT /api/admin/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	settings, err := h.settings.UpdateSettings(r.Context(), domain.UpdateSettingsParams{
		StoreName:            req.StoreName,
		SupportEmail:         req.SupportEmail,
		CurrencyCode:         req.CurrencyCode,
		FlatShippingCents:    req.FlatShippingCents,
		FreeShippingMinCents: req.FreeShippingMinCents,
		StylistEnabled:       req.StylistEnabled,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewSettingsView(settings))
}

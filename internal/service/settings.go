package service

import (
	"context"
	"strings"

	"github.com/atelierhq/atelier/internal/domain"
)

type settingsService struct {
	store domain.SettingsStore
}

// NewSettingsService creates the store settings service.
func NewSettingsService(store domain.SettingsStore) domain.SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) GetSettings(ctx context.Context) (*domain.StoreSettings, error) {
	return s.store.Get(ctx)
}

func (s *settingsService) UpdateSettings(ctx context.Context, params domain.UpdateSettingsParams) (*domain.StoreSettings, error) {
	const op = "settings.update"

	var verr error
	if params.StoreName != nil && strings.TrimSpace(*params.StoreName) == "" {
		verr = domain.AddFieldError(verr, "store_name", "Store name cannot be empty")
	}
	if params.SupportEmail != nil && !strings.Contains(*params.SupportEmail, "@") {
		verr = domain.AddFieldError(verr, "support_email", "A valid email is required")
	}
	if params.CurrencyCode != nil && len(*params.CurrencyCode) != 3 {
		verr = domain.AddFieldError(verr, "currency_code", "Currency must be a 3-letter ISO code")
	}
	if params.FlatShippingCents != nil && *params.FlatShippingCents < 0 {
		verr = domain.AddFieldError(verr, "flat_shipping_cents", "Shipping cost cannot be negative")
	}
	if params.FreeShippingMinCents != nil && *params.FreeShippingMinCents < 0 {
		verr = domain.AddFieldError(verr, "free_shipping_min_cents", "Threshold cannot be negative")
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return nil, verr
	}

	settings, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	if params.StoreName != nil {
		settings.StoreName = strings.TrimSpace(*params.StoreName)
	}
	if params.SupportEmail != nil {
		settings.SupportEmail = strings.TrimSpace(*params.SupportEmail)
	}
	if params.CurrencyCode != nil {
		settings.CurrencyCode = strings.ToLower(*params.CurrencyCode)
	}
	if params.FlatShippingCents != nil {
		settings.FlatShippingCents = *params.FlatShippingCents
	}
	if params.FreeShippingMinCents != nil {
		settings.FreeShippingMinCents = *params.FreeShippingMinCents
	}
	if params.StylistEnabled != nil {
		settings.StylistEnabled = *params.StylistEnabled
	}

	if err := s.store.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

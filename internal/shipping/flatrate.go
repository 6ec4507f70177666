package shipping

import (
	"context"

	"github.com/atelierhq/atelier/internal/domain"
)

// SettingsSource supplies the current store settings; satisfied by the
// settings service.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*domain.StoreSettings, error)
}

// FlatRateProvider quotes the store's configured flat rate, with free
// shipping above the configured minimum subtotal.
type FlatRateProvider struct {
	settings SettingsSource
}

var _ Provider = (*FlatRateProvider)(nil)

// NewFlatRateProvider creates a flat-rate shipping provider.
func NewFlatRateProvider(settings SettingsSource) *FlatRateProvider {
	return &FlatRateProvider{settings: settings}
}

// GetRates returns the single flat-rate option.
func (p *FlatRateProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if params.Destination.Line1 == "" || params.Destination.PostalCode == "" {
		return nil, ErrNoDestination
	}
	if params.ItemCount == 0 {
		return nil, ErrNoItems
	}

	settings, err := p.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	cost := settings.FlatShippingCents
	if settings.FreeShippingMinCents > 0 && params.SubtotalCents >= settings.FreeShippingMinCents {
		cost = 0
	}

	return []Rate{{
		Carrier:     "Flat Rate",
		ServiceName: "Standard Shipping",
		ServiceCode: "flat_standard",
		CostCents:   cost,
		DaysMin:     3,
		DaysMax:     7,
	}}, nil
}

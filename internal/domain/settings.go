package domain

import (
	"context"
	"time"
)

// StoreSettings is the singleton settings row for the shop.
type StoreSettings struct {
	StoreName            string
	SupportEmail         string
	CurrencyCode         string // ISO 4217, lowercase (e.g. "usd")
	FlatShippingCents    int64
	FreeShippingMinCents int64 // 0 disables free shipping
	StylistEnabled       bool
	UpdatedAt            time.Time
}

// UpdateSettingsParams updates the settings row. Nil fields are unchanged.
type UpdateSettingsParams struct {
	StoreName            *string
	SupportEmail         *string
	CurrencyCode         *string
	FlatShippingCents    *int64
	FreeShippingMinCents *int64
	StylistEnabled       *bool
}

// SettingsService reads and updates store settings.
type SettingsService interface {
	GetSettings(ctx context.Context) (*StoreSettings, error)
	UpdateSettings(ctx context.Context, params UpdateSettingsParams) (*StoreSettings, error)
}

// SettingsStore is the persistence contract for settings.
type SettingsStore interface {
	Get(ctx context.Context) (*StoreSettings, error)
	Update(ctx context.Context, settings *StoreSettings) error
}

package postgres

import (
	"context"

	"github.com/atelierhq/atelier/internal/domain"
)

// SettingsStore implements domain.SettingsStore on PostgreSQL. The settings
// table holds a single row keyed by a constant.
type SettingsStore struct {
	db *DB
}

var _ domain.SettingsStore = (*SettingsStore)(nil)

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context) (*domain.StoreSettings, error) {
	const op = "settings.get"

	var settings domain.StoreSettings
	err := s.db.pool.QueryRow(ctx, `
SELECT store_name, support_email, currency_code, flat_shipping_cents,
       free_shipping_min_cents, stylist_enabled, updated_at
FROM store_settings
WHERE id = TRUE`).Scan(
		&settings.StoreName, &settings.SupportEmail, &settings.CurrencyCode,
		&settings.FlatShippingCents, &settings.FreeShippingMinCents,
		&settings.StylistEnabled, &settings.UpdatedAt,
	)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to get store settings")
	}
	return &settings, nil
}

func (s *SettingsStore) Update(ctx context.Context, settings *domain.StoreSettings) error {
	const op = "settings.update"

	err := s.db.pool.QueryRow(ctx, `
UPDATE store_settings
SET store_name = $1, support_email = $2, currency_code = $3,
    flat_shipping_cents = $4, free_shipping_min_cents = $5,
    stylist_enabled = $6, updated_at = now()
WHERE id = TRUE
RETURNING updated_at`,
		settings.StoreName, settings.SupportEmail, settings.CurrencyCode,
		settings.FlatShippingCents, settings.FreeShippingMinCents, settings.StylistEnabled,
	).Scan(&settings.UpdatedAt)
	if err != nil {
		return wrapQueryError(err, op, "failed to update store settings")
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// PromoStore implements domain.PromoStore on PostgreSQL.
type PromoStore struct {
	db *DB
}

var _ domain.PromoStore = (*PromoStore)(nil)

func NewPromoStore(db *DB) *PromoStore {
	return &PromoStore{db: db}
}

func (s *PromoStore) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	const op = "promo.get"

	var (
		pid              pgtype.UUID
		kind             string
		startsAt, endsAt pgtype.Timestamptz
		promo            domain.PromoCode
	)
	err := s.db.pool.QueryRow(ctx, `
SELECT id, code, kind, value, min_subtotal_cents, max_uses, used_count,
       starts_at, ends_at, is_active, created_at
FROM promo_codes
WHERE upper(code) = upper($1)`, strings.TrimSpace(code)).Scan(
		&pid, &promo.Code, &kind, &promo.Value, &promo.MinSubtotalCents,
		&promo.MaxUses, &promo.UsedCount, &startsAt, &endsAt, &promo.IsActive, &promo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get promo code")
	}
	promo.ID = fromPgUUID(pid)
	promo.Kind = domain.PromoKind(kind)
	promo.StartsAt = fromPgTimePtr(startsAt)
	promo.EndsAt = fromPgTimePtr(endsAt)
	return &promo, nil
}

func (s *PromoStore) IncrementUsage(ctx context.Context, code string) error {
	const op = "promo.increment_usage"

	tag, err := s.db.pool.Exec(ctx,
		`UPDATE promo_codes SET used_count = used_count + 1 WHERE upper(code) = upper($1)`,
		strings.TrimSpace(code))
	if err != nil {
		return wrapQueryError(err, op, "failed to increment promo usage")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromoNotFound
	}
	return nil
}

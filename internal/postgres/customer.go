package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// CustomerStore implements domain.CustomerStore on PostgreSQL.
type CustomerStore struct {
	db *DB
}

var _ domain.CustomerStore = (*CustomerStore)(nil)

func NewCustomerStore(db *DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) List(ctx context.Context, filter domain.CustomerFilter, page domain.OffsetPage) (*domain.CustomerPage, error) {
	const op = "customer.list"

	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	var args []any
	whereClause := ""
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		whereClause = "WHERE (c.email ILIKE $1 OR c.name ILIKE $1)"
	}

	query := fmt.Sprintf(`
SELECT c.id, c.email, c.name, c.phone, c.created_at,
       (SELECT COUNT(*) FROM orders o WHERE o.customer_id = c.id) AS order_count,
       COUNT(*) OVER () AS total
FROM customers c
%s
ORDER BY c.created_at DESC, c.id DESC
LIMIT %d OFFSET %d`, whereClause, limit, offset)

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list customers")
	}
	defer rows.Close()

	result := &domain.CustomerPage{Offset: offset, Limit: limit}
	for rows.Next() {
		var (
			cid pgtype.UUID
			c   domain.Customer
		)
		if err := rows.Scan(&cid, &c.Email, &c.Name, &c.Phone, &c.CreatedAt, &c.OrderCount, &result.Total); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan customer")
		}
		c.ID = fromPgUUID(cid)
		result.Items = append(result.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to list customers")
	}
	return result, nil
}

func (s *CustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	const op = "customer.get"

	var (
		cid pgtype.UUID
		c   domain.Customer
	)
	err := s.db.pool.QueryRow(ctx, `
SELECT c.id, c.email, c.name, c.phone, c.created_at,
       (SELECT COUNT(*) FROM orders o WHERE o.customer_id = c.id)
FROM customers c
WHERE c.id = $1`, pgUUID(id)).Scan(&cid, &c.Email, &c.Name, &c.Phone, &c.CreatedAt, &c.OrderCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get customer")
	}
	c.ID = fromPgUUID(cid)
	return &c, nil
}

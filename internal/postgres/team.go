package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// TeamStore implements domain.TeamStore on PostgreSQL.
type TeamStore struct {
	db *DB
}

var _ domain.TeamStore = (*TeamStore)(nil)

func NewTeamStore(db *DB) *TeamStore {
	return &TeamStore{db: db}
}

const teamColumns = `id, email, name, role, password_hash, is_active, created_at, updated_at`

func scanTeamMember(row pgx.Row) (*domain.TeamMember, error) {
	var (
		mid    pgtype.UUID
		role   string
		member domain.TeamMember
	)
	err := row.Scan(&mid, &member.Email, &member.Name, &role, &member.PasswordHash,
		&member.IsActive, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return nil, err
	}
	member.ID = fromPgUUID(mid)
	member.Role = domain.TeamRole(role)
	return &member, nil
}

func (s *TeamStore) GetByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	const op = "team.get_by_email"

	member, err := scanTeamMember(s.db.pool.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM team_members WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamMemberNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get team member")
	}
	return member, nil
}

func (s *TeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMember, error) {
	const op = "team.get"

	member, err := scanTeamMember(s.db.pool.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM team_members WHERE id = $1`, pgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamMemberNotFound
		}
		return nil, wrapQueryError(err, op, "failed to get team member")
	}
	return member, nil
}

func (s *TeamStore) List(ctx context.Context) ([]domain.TeamMember, error) {
	const op = "team.list"

	rows, err := s.db.pool.Query(ctx,
		`SELECT `+teamColumns+` FROM team_members ORDER BY created_at, id`)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list team members")
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var (
			mid    pgtype.UUID
			role   string
			member domain.TeamMember
		)
		if err := rows.Scan(&mid, &member.Email, &member.Name, &role, &member.PasswordHash,
			&member.IsActive, &member.CreatedAt, &member.UpdatedAt); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan team member")
		}
		member.ID = fromPgUUID(mid)
		member.Role = domain.TeamRole(role)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to list team members")
	}
	return members, nil
}

func (s *TeamStore) Create(ctx context.Context, member *domain.TeamMember) error {
	const op = "team.create"

	err := s.db.pool.QueryRow(ctx, `
INSERT INTO team_members (id, email, name, role, password_hash, is_active)
VALUES ($1, lower($2), $3, $4, $5, $6)
RETURNING created_at, updated_at`,
		pgUUID(member.ID), member.Email, member.Name, string(member.Role),
		member.PasswordHash, member.IsActive,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return wrapQueryError(err, op, "failed to create team member")
	}
	return nil
}

func (s *TeamStore) Update(ctx context.Context, member *domain.TeamMember) error {
	const op = "team.update"

	err := s.db.pool.QueryRow(ctx, `
UPDATE team_members
SET name = $2, role = $3, password_hash = $4, is_active = $5, updated_at = now()
WHERE id = $1
RETURNING updated_at`,
		pgUUID(member.ID), member.Name, string(member.Role),
		member.PasswordHash, member.IsActive,
	).Scan(&member.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTeamMemberNotFound
		}
		return wrapQueryError(err, op, "failed to update team member")
	}
	return nil
}

func (s *TeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "team.delete"

	tag, err := s.db.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, pgUUID(id))
	if err != nil {
		return wrapQueryError(err, op, "failed to delete team member")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}

func (s *TeamStore) CountActiveOwners(ctx context.Context) (int64, error) {
	const op = "team.count_owners"

	var count int64
	err := s.db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM team_members WHERE role = 'owner' AND is_active`).Scan(&count)
	if err != nil {
		return 0, wrapQueryError(err, op, "failed to count owners")
	}
	return count, nil
}

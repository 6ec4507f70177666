package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/domain"
)

type teamService struct {
	store  domain.TeamStore
	tokens *auth.TokenManager
}

// NewTeamService creates the team management service.
func NewTeamService(store domain.TeamStore, tokens *auth.TokenManager) domain.TeamService {
	return &teamService{store: store, tokens: tokens}
}

func (s *teamService) Authenticate(ctx context.Context, email, password string) (string, *domain.TeamMember, error) {
	member, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrTeamMemberNotFound) {
			// Burn a hash comparison anyway so lookups take the same time
			// for unknown and known emails.
			_ = auth.VerifyPassword("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva", password)
			return "", nil, domain.ErrBadCredentials
		}
		return "", nil, err
	}
	if !member.IsActive {
		return "", nil, domain.ErrBadCredentials
	}
	if err := auth.VerifyPassword(member.PasswordHash, password); err != nil {
		return "", nil, domain.ErrBadCredentials
	}

	token, err := s.tokens.Generate(member)
	if err != nil {
		return "", nil, domain.Internal(err, "team.authenticate", "failed to issue token")
	}
	return token, member, nil
}

func (s *teamService) ListMembers(ctx context.Context) ([]domain.TeamMember, error) {
	return s.store.List(ctx)
}

func (s *teamService) CreateMember(ctx context.Context, params domain.CreateTeamMemberParams) (*domain.TeamMember, error) {
	const op = "team.create"

	var verr error
	if !strings.Contains(params.Email, "@") {
		verr = domain.AddFieldError(verr, "email", "A valid email is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		verr = domain.AddFieldError(verr, "name", "Name is required")
	}
	if !params.Role.Valid() {
		verr = domain.AddFieldError(verr, "role", fmt.Sprintf("Role must be one of %q, %q, %q", domain.TeamRoleOwner, domain.TeamRoleAdmin, domain.TeamRoleStaff))
	}
	if len(params.Password) < auth.MinPasswordLength {
		verr = domain.AddFieldError(verr, "password", fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return nil, verr
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	member := &domain.TeamMember{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		Name:         strings.TrimSpace(params.Name),
		Role:         params.Role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamService) UpdateMember(ctx context.Context, id uuid.UUID, params domain.UpdateTeamMemberParams) (*domain.TeamMember, error) {
	const op = "team.update"

	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	demoting := params.Role != nil && *params.Role != domain.TeamRoleOwner
	deactivating := params.IsActive != nil && !*params.IsActive
	if member.Role == domain.TeamRoleOwner && member.IsActive && (demoting || deactivating) {
		if err := s.guardLastOwner(ctx); err != nil {
			return nil, err
		}
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, domain.Invalid(op, "Name cannot be empty")
		}
		member.Name = strings.TrimSpace(*params.Name)
	}
	if params.Role != nil {
		if !params.Role.Valid() {
			return nil, domain.Invalid(op, fmt.Sprintf("unknown role %q", *params.Role))
		}
		member.Role = *params.Role
	}
	if params.IsActive != nil {
		member.IsActive = *params.IsActive
	}
	if params.Password != nil {
		if len(*params.Password) < auth.MinPasswordLength {
			return nil, domain.Invalid(op, fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
		}
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to hash password")
		}
		member.PasswordHash = hash
	}

	if err := s.store.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if member.Role == domain.TeamRoleOwner && member.IsActive {
		if err := s.guardLastOwner(ctx); err != nil {
			return err
		}
	}

	return s.store.Delete(ctx, id)
}

func (s *teamService) guardLastOwner(ctx context.Context) error {
	owners, err := s.store.CountActiveOwners(ctx)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return domain.ErrLastOwner
	}
	return nil
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/domain"
)

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-test-secret-test-secret")
}

func TestTeamService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)

	member := &domain.TeamMember{
		ID: uuid.New(), Email: "ops@atelier.example", Name: "Ops",
		Role: domain.TeamRoleAdmin, PasswordHash: hash, IsActive: true,
	}

	newSvc := func(m *domain.TeamMember) domain.TeamService {
		return NewTeamService(&mockTeamStore{
			GetByEmailFunc: func(ctx context.Context, email string) (*domain.TeamMember, error) {
				if m == nil {
					return nil, domain.ErrTeamMemberNotFound
				}
				return m, nil
			},
		}, testTokens())
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		token, got, err := newSvc(member).Authenticate(context.Background(), "ops@atelier.example", "correct horse battery")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, member.ID, got.ID)

		claims, err := testTokens().Parse(token)
		require.NoError(t, err)
		assert.Equal(t, member.ID, claims.MemberID)
		assert.Equal(t, domain.TeamRoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := newSvc(member).Authenticate(context.Background(), "ops@atelier.example", "wrong")
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := newSvc(nil).Authenticate(context.Background(), "nobody@atelier.example", "whatever")
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})

	t.Run("deactivated member", func(t *testing.T) {
		inactive := *member
		inactive.IsActive = false
		_, _, err := newSvc(&inactive).Authenticate(context.Background(), "ops@atelier.example", "correct horse battery")
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})
}

func TestTeamService_CreateMember_Validation(t *testing.T) {
	svc := NewTeamService(&mockTeamStore{}, testTokens())

	_, err := svc.CreateMember(context.Background(), domain.CreateTeamMemberParams{
		Email: "bad", Name: "", Role: "superuser", Password: "short",
	})
	require.Error(t, err)
	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "password")
}

func TestTeamService_CreateMember_HashesPassword(t *testing.T) {
	var created *domain.TeamMember
	store := &mockTeamStore{
		CreateFunc: func(ctx context.Context, member *domain.TeamMember) error {
			created = member
			return nil
		},
	}
	svc := NewTeamService(store, testTokens())

	member, err := svc.CreateMember(context.Background(), domain.CreateTeamMemberParams{
		Email: "Staff@Atelier.Example", Name: "Sam", Role: domain.TeamRoleStaff, Password: "a long password",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff@atelier.example", created.Email)
	assert.True(t, member.IsActive)
	assert.NotEqual(t, "a long password", created.PasswordHash)
	assert.NoError(t, auth.VerifyPassword(created.PasswordHash, "a long password"))
}

func TestTeamService_LastOwnerProtection(t *testing.T) {
	ownerID := uuid.New()
	owner := &domain.TeamMember{
		ID: ownerID, Email: "owner@atelier.example", Role: domain.TeamRoleOwner, IsActive: true,
	}

	newSvc := func(activeOwners int64) (domain.TeamService, *bool) {
		mutated := false
		store := &mockTeamStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.TeamMember, error) {
				copied := *owner
				return &copied, nil
			},
			CountActiveOwnersFunc: func(ctx context.Context) (int64, error) {
				return activeOwners, nil
			},
			UpdateFunc: func(ctx context.Context, member *domain.TeamMember) error {
				mutated = true
				return nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				mutated = true
				return nil
			},
		}
		return NewTeamService(store, testTokens()), &mutated
	}

	staff := domain.TeamRoleStaff
	inactive := false

	t.Run("last owner cannot be demoted", func(t *testing.T) {
		svc, mutated := newSvc(1)
		_, err := svc.UpdateMember(context.Background(), ownerID, domain.UpdateTeamMemberParams{Role: &staff})
		assert.ErrorIs(t, err, domain.ErrLastOwner)
		assert.False(t, *mutated)
	})

	t.Run("last owner cannot be deactivated", func(t *testing.T) {
		svc, mutated := newSvc(1)
		_, err := svc.UpdateMember(context.Background(), ownerID, domain.UpdateTeamMemberParams{IsActive: &inactive})
		assert.ErrorIs(t, err, domain.ErrLastOwner)
		assert.False(t, *mutated)
	})

	t.Run("last owner cannot be deleted", func(t *testing.T) {
		svc, mutated := newSvc(1)
		err := svc.DeleteMember(context.Background(), ownerID)
		assert.ErrorIs(t, err, domain.ErrLastOwner)
		assert.False(t, *mutated)
	})

	t.Run("demotion is allowed with another active owner", func(t *testing.T) {
		svc, mutated := newSvc(2)
		member, err := svc.UpdateMember(context.Background(), ownerID, domain.UpdateTeamMemberParams{Role: &staff})
		require.NoError(t, err)
		assert.True(t, *mutated)
		assert.Equal(t, domain.TeamRoleStaff, member.Role)
	})
}

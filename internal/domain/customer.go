package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer identity is owned by the hosted auth provider; this row mirrors
// the profile for orders and the admin customer list.
type Customer struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Phone      string
	CreatedAt  time.Time
	OrderCount int64 // populated by listing queries
}

// CustomerFilter narrows the admin customer listing.
type CustomerFilter struct {
	Search *string // matches email and name, case-insensitive
}

// CustomerPage is one page of customers with the filtered total.
type CustomerPage struct {
	Items  []Customer
	Total  int64
	Offset int32
	Limit  int32
}

// CustomerService provides the admin customer views.
type CustomerService interface {
	ListCustomers(ctx context.Context, filter CustomerFilter, page OffsetPage) (*CustomerPage, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
}

// CustomerStore is the persistence contract for customers.
type CustomerStore interface {
	List(ctx context.Context, filter CustomerFilter, page OffsetPage) (*CustomerPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
}

var ErrCustomerNotFound = &Error{Code: ENOTFOUND, Message: "Customer not found"}

// =============================================================================
// TEAM MEMBERS
// =============================================================================

// TeamRole controls what a back-office user may do.
type TeamRole string

const (
	TeamRoleOwner TeamRole = "owner"
	TeamRoleAdmin TeamRole = "admin"
	TeamRoleStaff TeamRole = "staff"
)

// Valid reports whether r is a known role.
func (r TeamRole) Valid() bool {
	return r == TeamRoleOwner || r == TeamRoleAdmin || r == TeamRoleStaff
}

// CanManageTeam reports whether the role may mutate team members or settings.
func (r TeamRole) CanManageTeam() bool {
	return r == TeamRoleOwner || r == TeamRoleAdmin
}

// TeamMember is a back-office user. PasswordHash never leaves the server.
type TeamMember struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         TeamRole
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateTeamMemberParams creates a back-office user.
type CreateTeamMemberParams struct {
	Email    string
	Name     string
	Role     TeamRole
	Password string
}

// UpdateTeamMemberParams updates a back-office user. Nil fields are unchanged.
type UpdateTeamMemberParams struct {
	Name     *string
	Role     *TeamRole
	Password *string
	IsActive *bool
}

// TeamService provides admin login and team management.
type TeamService interface {
	// Authenticate verifies credentials and returns a signed API token.
	Authenticate(ctx context.Context, email, password string) (token string, member *TeamMember, err error)

	ListMembers(ctx context.Context) ([]TeamMember, error)
	CreateMember(ctx context.Context, params CreateTeamMemberParams) (*TeamMember, error)

	// UpdateMember applies changes; the last active owner cannot be demoted
	// or deactivated.
	UpdateMember(ctx context.Context, id uuid.UUID, params UpdateTeamMemberParams) (*TeamMember, error)

	// DeleteMember removes a member; the last active owner cannot be deleted.
	DeleteMember(ctx context.Context, id uuid.UUID) error
}

// TeamStore is the persistence contract for team members.
type TeamStore interface {
	GetByEmail(ctx context.Context, email string) (*TeamMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TeamMember, error)
	List(ctx context.Context) ([]TeamMember, error)
	Create(ctx context.Context, member *TeamMember) error
	Update(ctx context.Context, member *TeamMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveOwners(ctx context.Context) (int64, error)
}

var (
	ErrTeamMemberNotFound = &Error{Code: ENOTFOUND, Message: "Team member not found"}
	ErrDuplicateEmail     = &Error{Code: ECONFLICT, Message: "A team member with this email already exists"}
	ErrLastOwner          = &Error{Code: ECONFLICT, Message: "The last owner cannot be removed or demoted"}
	ErrBadCredentials     = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
)

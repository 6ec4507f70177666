package auth

import (
	"context"

	"github.com/atelierhq/atelier/internal/domain"
)

type contextKey string

const memberContextKey contextKey = "team_member"

// ContextWithMember stores the authenticated team member on the context.
// Set by the admin auth middleware after token verification.
func ContextWithMember(ctx context.Context, member *domain.TeamMember) context.Context {
	return context.WithValue(ctx, memberContextKey, member)
}

// MemberFromContext returns the authenticated team member, or nil outside
// an authenticated admin request.
func MemberFromContext(ctx context.Context) *domain.TeamMember {
	member, _ := ctx.Value(memberContextKey).(*domain.TeamMember)
	return member
}

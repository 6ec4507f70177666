package middleware

import (
	"net/http"
	"strings"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/domain"
)

// RequireAdmin authenticates back-office requests with a bearer token.
// The verified team member is loaded from the store so revoked or
// deactivated accounts are rejected even while their token is unexpired.
func RequireAdmin(tokens *auth.TokenManager, store domain.TeamStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				respondUnauthorized(w, r)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				respondUnauthorized(w, r)
				return
			}

			member, err := store.GetByID(r.Context(), claims.MemberID)
			if err != nil {
				respondUnauthorized(w, r)
				return
			}
			if !member.IsActive {
				respondUnauthorized(w, r)
				return
			}

			ctx := auth.ContextWithMember(r.Context(), member)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTeamManagement restricts a route to roles that may manage the team
// and store settings. It must run after RequireAdmin.
func RequireTeamManagement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member := auth.MemberFromContext(r.Context())
		if member == nil {
			respondUnauthorized(w, r)
			return
		}
		if !member.Role.CanManageTeam() {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

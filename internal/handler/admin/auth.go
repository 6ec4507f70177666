// Package admin contains the JWT-protected back-office JSON handlers.
package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// AuthHandler serves admin login.
type AuthHandler struct {
	team domain.TeamService
}

func NewAuthHandler(team domain.TeamService) *AuthHandler {
	return &AuthHandler{team: team}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "email and password are required"))
		return
	}

	token, member, err := h.team.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, map[string]any{
		"token":  token,
		"member": handler.NewTeamMemberView(member),
	})
}

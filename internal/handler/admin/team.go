package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// TeamHandler serves team member management. The roster is readable by any
// staff member; mutations are mounted behind RequireTeamManagement.
type TeamHandler struct {
	team domain.TeamService
}

func NewTeamHandler(team domain.TeamService) *TeamHandler {
	return &TeamHandler{team: team}
}

// List handles GET /api/admin/team
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.team.ListMembers(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	views := make([]handler.TeamMemberView, len(members))
	for i := range members {
		views[i] = handler.NewTeamMemberView(&members[i])
	}
	handler.RespondData(w, http.StatusOK, views)
}

type createMemberRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Create handles POST /api/admin/team
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	member, err := h.team.CreateMember(r.Context(), domain.CreateTeamMemberParams{
		Email:    req.Email,
		Name:     req.Name,
		Role:     domain.TeamRole(req.Role),
		Password: req.Password,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusCreated, handler.NewTeamMemberView(member))
}

type updateMemberRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
}

// Update handles PUT /api/admin/team/{id}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateMemberRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	params := domain.UpdateTeamMemberParams{
		Name:     req.Name,
		Password: req.Password,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.TeamRole(*req.Role)
		params.Role = &role
	}

	member, err := h.team.UpdateMember(r.Context(), id, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewTeamMemberView(member))
}

// Delete handles DELETE /api/admin/team/{id}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.team.DeleteMember(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondNoContent(w)
}

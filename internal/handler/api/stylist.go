package api

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// StylistHandler serves the stylist assistant chat.
type StylistHandler struct {
	stylist domain.StylistService
}

func NewStylistHandler(stylist domain.StylistService) *StylistHandler {
	return &StylistHandler{stylist: stylist}
}

type stylistChatRequest struct {
	SessionID string               `json:"session_id"`
	Messages  []domain.ChatMessage `json:"messages"`
}

// Chat handles POST /api/stylist/chat
func (h *StylistHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req stylistChatRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	reply, err := h.stylist.Chat(r.Context(), domain.StylistRequest{
		SessionID: req.SessionID,
		Messages:  req.Messages,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, map[string]any{
		"message": reply.Message,
	})
}

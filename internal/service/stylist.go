package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/stylist"
	"github.com/atelierhq/atelier/internal/telemetry"
)

const (
	stylistMaxTurns         = 20
	stylistMaxMessageLength = 2000

	stylistSystemPrompt = "You are a friendly personal stylist for an online clothing " +
		"boutique. Suggest outfits and pieces from a typical boutique catalog " +
		"(dresses, tops, pants, accessories), keep answers short and concrete, " +
		"and ask one clarifying question when the request is vague. Never " +
		"discuss topics unrelated to clothing and styling."
)

type stylistService struct {
	client      *stylist.Client
	transcripts domain.TranscriptStore
	settings    domain.SettingsStore
	logger      *slog.Logger
}

// NewStylistService creates the styling assistant service. A nil client
// leaves the assistant permanently unavailable.
func NewStylistService(client *stylist.Client, transcripts domain.TranscriptStore, settings domain.SettingsStore, logger *slog.Logger) domain.StylistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &stylistService{
		client:      client,
		transcripts: transcripts,
		settings:    settings,
		logger:      logger,
	}
}

func (s *stylistService) Chat(ctx context.Context, req domain.StylistRequest) (*domain.StylistReply, error) {
	const op = "stylist.chat"

	if s.client == nil {
		return nil, domain.ErrStylistDisabled
	}
	if settings, err := s.settings.Get(ctx); err == nil && !settings.StylistEnabled {
		return nil, domain.ErrStylistDisabled
	}

	if err := validateChat(op, req); err != nil {
		return nil, err
	}

	content, err := s.client.Complete(ctx, stylistSystemPrompt, req.Messages)
	if err != nil {
		return nil, domain.Unavailable(err, op, "The stylist assistant is not available right now")
	}

	reply := domain.ChatMessage{Role: "assistant", Content: content}

	// Persist the latest exchange; losing a transcript row is not worth
	// failing the chat.
	last := req.Messages[len(req.Messages)-1]
	if err := s.transcripts.Append(ctx, req.SessionID, []domain.ChatMessage{last, reply}); err != nil {
		s.logger.Error("failed to persist stylist transcript", "session_id", req.SessionID, "error", err)
	}

	telemetry.RecordStylistChat()

	return &domain.StylistReply{Message: reply}, nil
}

func validateChat(op string, req domain.StylistRequest) error {
	if strings.TrimSpace(req.SessionID) == "" {
		return domain.Invalid(op, "session ID is required")
	}
	if len(req.Messages) == 0 {
		return domain.Invalid(op, "at least one message is required")
	}
	if len(req.Messages) > stylistMaxTurns {
		return domain.Invalid(op, "conversation is too long")
	}
	for _, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return domain.Invalid(op, "message roles must be user or assistant")
		}
		if strings.TrimSpace(m.Content) == "" {
			return domain.Invalid(op, "messages cannot be empty")
		}
		if len(m.Content) > stylistMaxMessageLength {
			return domain.Invalid(op, "messages are limited to 2000 characters")
		}
	}
	if req.Messages[len(req.Messages)-1].Role != "user" {
		return domain.Invalid(op, "the last message must be from the user")
	}
	return nil
}

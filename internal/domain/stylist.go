package domain

import "context"

// ChatMessage is one turn of a stylist conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// StylistRequest carries the conversation so far. SessionID groups turns for
// the persisted transcript; the client invents it.
type StylistRequest struct {
	SessionID string
	Messages  []ChatMessage
}

// StylistReply is the assistant's next turn.
type StylistReply struct {
	Message ChatMessage
}

// StylistService answers styling questions with product-aware suggestions.
type StylistService interface {
	// Chat forwards the conversation to the completion API and persists the
	// exchange. Returns EUNAVAILABLE when the assistant is disabled or the
	// upstream API is unreachable.
	Chat(ctx context.Context, req StylistRequest) (*StylistReply, error)
}

// TranscriptStore persists stylist conversations for later review.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msgs []ChatMessage) error
}

var ErrStylistDisabled = &Error{Code: EUNAVAILABLE, Message: "The stylist assistant is not available right now"}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/stylist"
)

func stylistSettings(enabled bool) *mockSettingsStore {
	return &mockSettingsStore{
		GetFunc: func(ctx context.Context) (*domain.StoreSettings, error) {
			return &domain.StoreSettings{StylistEnabled: enabled}, nil
		},
	}
}

func chatRequestFixture() domain.StylistRequest {
	return domain.StylistRequest{
		SessionID: "sess-1",
		Messages: []domain.ChatMessage{
			{Role: "user", Content: "What goes with linen pants?"},
		},
	}
}

func TestStylistService_Chat(t *testing.T) {
	t.Run("forwards, persists and replies", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "A silk camisole."}},
				},
			})
		}))
		defer server.Close()

		transcripts := &mockTranscriptStore{}
		client := stylist.NewClient("sk-test", server.URL, "gpt-4o-mini")
		svc := NewStylistService(client, transcripts, stylistSettings(true), nil)

		reply, err := svc.Chat(context.Background(), chatRequestFixture())
		require.NoError(t, err)
		assert.Equal(t, "assistant", reply.Message.Role)
		assert.Equal(t, "A silk camisole.", reply.Message.Content)

		require.Len(t, transcripts.sessions["sess-1"], 2)
		assert.Equal(t, "user", transcripts.sessions["sess-1"][0].Role)
		assert.Equal(t, "assistant", transcripts.sessions["sess-1"][1].Role)
	})

	t.Run("unconfigured client degrades with EUNAVAILABLE", func(t *testing.T) {
		svc := NewStylistService(nil, &mockTranscriptStore{}, stylistSettings(true), nil)
		_, err := svc.Chat(context.Background(), chatRequestFixture())
		require.Error(t, err)
		assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
	})

	t.Run("disabled in settings", func(t *testing.T) {
		client := stylist.NewClient("sk-test", "http://127.0.0.1:1", "gpt-4o-mini")
		svc := NewStylistService(client, &mockTranscriptStore{}, stylistSettings(false), nil)
		_, err := svc.Chat(context.Background(), chatRequestFixture())
		assert.ErrorIs(t, err, domain.ErrStylistDisabled)
	})

	t.Run("upstream outage degrades with EUNAVAILABLE", func(t *testing.T) {
		client := stylist.NewClient("sk-test", "http://127.0.0.1:1", "gpt-4o-mini")
		svc := NewStylistService(client, &mockTranscriptStore{}, stylistSettings(true), nil)
		_, err := svc.Chat(context.Background(), chatRequestFixture())
		require.Error(t, err)
		assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
	})

	t.Run("validation", func(t *testing.T) {
		client := stylist.NewClient("sk-test", "http://127.0.0.1:1", "gpt-4o-mini")
		svc := NewStylistService(client, &mockTranscriptStore{}, stylistSettings(true), nil)

		req := chatRequestFixture()
		req.Messages = nil
		_, err := svc.Chat(context.Background(), req)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

		req = chatRequestFixture()
		req.Messages[0].Role = "system"
		_, err = svc.Chat(context.Background(), req)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

		req = chatRequestFixture()
		req.Messages = append(req.Messages, domain.ChatMessage{Role: "assistant", Content: "Sure."})
		_, err = svc.Chat(context.Background(), req)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err), "last message must be from the user")
	})
}

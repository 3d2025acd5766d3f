package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseServer fakes an OpenAI-compatible streaming endpoint emitting the given
// content deltas. The request body is captured for assertions.
func sseServer(t *testing.T, deltas []string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range deltas {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewClient()
	assert.Error(t, err)

	_, err = NewClient(WithAPIKey("sk-test"))
	assert.NoError(t, err)
}

func TestStream_DeliversDeltasInOrder(t *testing.T) {
	var captured map[string]any
	srv := sseServer(t, []string{"Olá", ", ", "tudo bem?"}, &captured)
	defer srv.Close()

	client, err := NewClient(WithAPIKey("sk-test"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	var chunks []string
	full, err := client.Stream(context.Background(), models.ChatRequest{Message: "oi"}, func(delta string) {
		chunks = append(chunks, delta)
	})
	require.NoError(t, err)
	assert.Equal(t, "Olá, tudo bem?", full)
	assert.Equal(t, []string{"Olá", ", ", "tudo bem?"}, chunks)
	assert.Equal(t, DefaultModel, captured["model"])
}

func TestStream_SendsHistoryAndOverrides(t *testing.T) {
	var captured map[string]any
	srv := sseServer(t, []string{"ok"}, &captured)
	defer srv.Close()

	temp := 0.2
	client, err := NewClient(WithAPIKey("sk-test"), WithBaseURL(srv.URL), WithModel("gpt-4o"))
	require.NoError(t, err)

	_, err = client.Stream(context.Background(), models.ChatRequest{
		Message: "continue",
		ConversationHistory: []models.ConversationMessage{
			{Role: "user", Content: "primeira"},
			{Role: "assistant", Content: "resposta"},
		},
		Model:       "gpt-4o-mini",
		Temperature: &temp,
		MaxTokens:   128,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", captured["model"], "request model overrides client default")
	assert.Equal(t, 0.2, captured["temperature"])
	assert.Equal(t, float64(128), captured["max_tokens"])

	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "primeira", first["content"])
	last := msgs[2].(map[string]any)
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "continue", last["content"])
}

func TestStream_EmptyMessage(t *testing.T) {
	client, err := NewClient(WithAPIKey("sk-test"))
	require.NoError(t, err)

	_, err = client.Stream(context.Background(), models.ChatRequest{}, nil)
	assert.ErrorIs(t, err, models.ErrEmptyMessage)
}

func TestStream_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(WithAPIKey("sk-test"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Stream(context.Background(), models.ChatRequest{Message: "oi"}, nil)
	assert.Error(t, err)
}

func TestStreamWithoutChunkCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"pronto\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client, err := NewClient(WithAPIKey("sk-test"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := client.Stream(context.Background(), models.ChatRequest{Message: "diga pronto"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pronto", out)
}

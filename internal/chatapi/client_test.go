package chatapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_StreamsAccumulatedText(t *testing.T) {
	var captured models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, part := range []string{"Olá", ", tudo", " bem?"} {
			fmt.Fprint(w, part)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	var streamed []string
	var finished []string
	err := c.Send(context.Background(), models.ChatRequest{
		Message: "oi",
		ConversationHistory: []models.ConversationMessage{
			{Role: "user", Content: "anterior"},
		},
	}, func(text string) {
		streamed = append(streamed, text)
	}, func(text string) {
		finished = append(finished, text)
	})
	require.NoError(t, err)

	assert.Equal(t, "oi", captured.Message)
	require.Len(t, captured.ConversationHistory, 1)

	// Every onStream call extends the previous text; the last equals the final.
	require.NotEmpty(t, streamed)
	for i := 1; i < len(streamed); i++ {
		assert.True(t, strings.HasPrefix(streamed[i], streamed[i-1]),
			"accumulated text must grow monotonically")
	}
	assert.Equal(t, "Olá, tudo bem?", streamed[len(streamed)-1])

	require.Len(t, finished, 1, "onFinish fires exactly once")
	assert.Equal(t, "Olá, tudo bem?", finished[0])
}

func TestSend_EmptyMessage(t *testing.T) {
	c := NewClient("http://unused.example", nil)
	err := c.Send(context.Background(), models.ChatRequest{}, nil, nil)
	assert.ErrorIs(t, err, models.ErrEmptyMessage)
}

func TestSend_ErrorBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"limite de requisições atingido"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.Send(context.Background(), models.ChatRequest{Message: "oi"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limite de requisições atingido")
}

func TestSend_GenericErrorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.Send(context.Background(), models.ChatRequest{Message: "oi"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), genericSendError)
}

func TestSend_NoCallbacksOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	called := false
	err := c.Send(context.Background(), models.ChatRequest{Message: "oi"},
		func(string) { called = true },
		func(string) { called = true })
	require.Error(t, err)
	assert.False(t, called, "callbacks must not fire on failed requests")
}

func TestSend_EmptyBodyStillFinishes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	finishCount := 0
	err := c.Send(context.Background(), models.ChatRequest{Message: "oi"}, nil, func(text string) {
		finishCount++
		assert.Empty(t, text)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, finishCount)
}

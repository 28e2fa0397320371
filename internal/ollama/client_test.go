// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&ClientConfig{BaseURL: srv.URL})
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, Message{Role: "system", Content: "be brief"}, NewSystemMessage("be brief"))
	assert.Equal(t, Message{Role: "user", Content: "hi"}, NewUserMessage("hi"))
	assert.Equal(t, Message{Role: "assistant", Content: "hello"}, NewAssistantMessage("hello"))
}

func TestCheckRunning(t *testing.T) {
	ok := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, ok.CheckRunning(context.Background()))

	down := NewClient(&ClientConfig{BaseURL: "http://127.0.0.1:1"})
	err := down.CheckRunning(context.Background())
	assert.True(t, IsNotRunning(err), "got %v", err)
}

func TestChat(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "llama3.2", req.Model)
		require.NotEmpty(t, req.Messages)

		json.NewEncoder(w).Encode(ChatResponse{
			Model:   req.Model,
			Message: NewAssistantMessage("Hello back"),
			Done:    true,
		})
	})

	resp, err := client.Chat(context.Background(), "", []Message{NewUserMessage("Hello")})
	require.NoError(t, err)
	assert.Equal(t, "Hello back", resp.Message.Content)
	assert.True(t, resp.Done)
}

func TestChatModelNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := client.Chat(context.Background(), "missing", []Message{NewUserMessage("hi")})
	assert.True(t, IsModelNotFound(err), "got %v", err)
}

func TestChatServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(APIError{Error: "out of memory"})
	})
	_, err := client.Chat(context.Background(), "", []Message{NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestListModels(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(ListModelsResponse{
			Models: []ModelInfo{{Name: "llama3.2"}, {Name: "mistral"}},
		})
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3.2", models[0].Name)
}

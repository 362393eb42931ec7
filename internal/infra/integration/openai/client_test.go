package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteSendsExpectedRequest(t *testing.T) {
	var captured chatCompletionRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&captured)

		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []chatCompletionChoice{
				{Message: Message{Role: "assistant", Content: "We serve Central Georgia."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "prompt"},
		{Role: "user", Content: "Where do you operate?"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "We serve Central Georgia.", reply)
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 512, captured.MaxTokens)
	assert.Len(t, captured.Messages, 2)
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteEmptyChoicesFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse{})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	reply, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	assert.NoError(t, err)
	assert.Equal(t, "I couldn't generate a response. Please try again.", reply)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/horizonenergysouth/horizon-crm/internal/infra/integration/openai"
	"github.com/horizonenergysouth/horizon-crm/internal/usecase"
)

// MockCompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []openai.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func chatBody(content string) []byte {
	body, _ := json.Marshal(usecase.ChatInput{Messages: []usecase.ChatMessage{
		{Role: "user", Content: content},
	}})
	return body
}

func TestChatHandlerSuccess(t *testing.T) {
	mockClient := new(MockCompletionClient)
	mockClient.On("Complete", mock.Anything, mock.Anything).Return("Happy to help!", nil)

	handler := NewChatHandler(usecase.NewChatUseCase(mockClient))

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(chatBody("hello")))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response usecase.ChatOutput
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "Happy to help!", response.Message)
}

func TestChatHandlerNotConfigured(t *testing.T) {
	handler := NewChatHandler(usecase.NewChatUseCase(nil))

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(chatBody("hello")))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "NOT_CONFIGURED", errResponse["error"])
}

func TestChatHandlerInvalidJSON(t *testing.T) {
	mockClient := new(MockCompletionClient)
	handler := NewChatHandler(usecase.NewChatUseCase(mockClient))

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockClient.AssertNotCalled(t, "Complete")
}

func TestChatHandlerEmptyConversation(t *testing.T) {
	mockClient := new(MockCompletionClient)
	handler := NewChatHandler(usecase.NewChatUseCase(mockClient))

	body, _ := json.Marshal(usecase.ChatInput{})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "EMPTY_CONVERSATION", errResponse["error"])
}

func TestChatHandlerUpstreamFailure(t *testing.T) {
	mockClient := new(MockCompletionClient)
	mockClient.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	handler := NewChatHandler(usecase.NewChatUseCase(mockClient))

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(chatBody("hello")))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "UPSTREAM_ERROR", errResponse["error"])
	assert.Contains(t, errResponse["message"], usecase.FallbackPhone)
}

func TestChatHandlerRateLimitsPerAddress(t *testing.T) {
	mockClient := new(MockCompletionClient)
	mockClient.On("Complete", mock.Anything, mock.Anything).Return("ok", nil)

	handler := NewChatHandler(usecase.NewChatUseCase(mockClient))

	for i := 0; i < chatRateLimit; i++ {
		req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(chatBody("hello")))
		req.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		handler.Handle(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(chatBody("hello")))
	req.RemoteAddr = "203.0.113.7:4000"
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "RATE_LIMITED", errResponse["error"])

	// A different address is unaffected.
	req = httptest.NewRequest("POST", "/api/chat", bytes.NewReader(chatBody("hello")))
	req.RemoteAddr = "198.51.100.1:4000"
	w = httptest.NewRecorder()
	handler.Handle(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	time.Sleep(60 * time.Millisecond)

	// Fresh window, full allowance again.
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiterIsolatesAddresses(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.False(t, rl.Allow("10.0.0.0"))
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/chat", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "10.0.0.1:1234", getClientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")
	assert.Equal(t, "198.51.100.2", getClientIP(req))
}

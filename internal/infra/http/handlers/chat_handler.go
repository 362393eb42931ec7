package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/horizonenergysouth/horizon-crm/internal/infra/http/middleware"
	"github.com/horizonenergysouth/horizon-crm/internal/usecase"
)

const (
	chatRateLimit  = 20
	chatRateWindow = time.Minute
)

// ChatHandler fronts the hosted completion service. It never shares state
// with the lead data model; its only job is validation, rate limiting, and
// forwarding.
type ChatHandler struct {
	UC          *usecase.ChatUseCase
	rateLimiter *RateLimiter
}

func NewChatHandler(uc *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		UC:          uc,
		rateLimiter: NewRateLimiter(chatRateLimit, chatRateWindow),
	}
}

func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.UC == nil || h.UC.Client == nil {
		middleware.RecordChatRequest("unconfigured")
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED",
			"Chat is not configured. Add OPENAI_API_KEY to the environment.")
		return
	}

	ip := getClientIP(r)
	if !h.rateLimiter.Allow(ip) {
		middleware.RecordChatRequest("rate_limited")
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
			"Too many requests. Please wait a moment and try again.")
		return
	}

	var input usecase.ChatInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RecordChatRequest("invalid")
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	output, err := h.UC.Execute(r.Context(), input)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			middleware.RecordChatRequest("invalid")
			writeError(w, http.StatusBadRequest, de.Code, de.Message)
			return
		}
		middleware.RecordChatRequest("upstream_error")
		middleware.RecordIntegrationError("openai")
		writeError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", err.Error())
		return
	}

	middleware.RecordChatRequest("ok")
	writeJSON(w, http.StatusOK, output)
}

// getClientIP prefers the first proxy-forwarded address, since the service
// runs behind a load balancer in production.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			xff = xff[:idx]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// RateLimiter is a fixed-window counter per client address: the window
// starts at a client's first request and resets when it elapses, as opposed
// to a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

// cleanup evicts addresses whose window expired long ago so the map doesn't
// grow with every visitor the site ever sees.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

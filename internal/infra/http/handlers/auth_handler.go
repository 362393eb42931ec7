package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/session"
)

type contextKey string

const sessionContextKey contextKey = "admin_session"

// AuthHandler is the admin session gate: one shared secret, compared as-is.
// This is a deliberate low-security placeholder, not a credential system;
// the store's access rules are the real boundary.
type AuthHandler struct {
	Password string
	Sessions *session.Store
}

func NewAuthHandler(password string, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		Password: password,
		Sessions: sessions,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Password == "" {
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED",
			"Admin access is not configured. Set ADMIN_PASSWORD.")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if req.Password != h.Password {
		// Deliberately vague: the login form shows a single generic error.
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	sess := h.Sessions.Create()
	writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFromRequest(r); token != "" {
		h.Sessions.Delete(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Middleware guards admin routes. The validated session travels in the
// request context as an explicit object, not a global flag.
func (h *AuthHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session token")
			return
		}

		sess, ok := h.Sessions.Validate(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionFromContext(ctx context.Context) (*entity.AdminSession, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*entity.AdminSession)
	return sess, ok
}

// tokenFromRequest reads the bearer token, falling back to a query parameter
// for the WebSocket feed where headers aren't practical.
func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/transport"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*User, string, error)
	ResolveSession(token string) (*User, error)
	Sessions() *SessionManager
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookie  CookieConfig
}

func NewHandler(svc ServiceAPI, cookie CookieConfig) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Cookie:      cookie,
	}
}

// Login verifies credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err, "username", dto.Username)

		switch {
		case err == ErrInvalidCredentials:
			err = internal.NewUnauthorizedError("invalid credentials", internal.ErrCodeInvalidCredentials)
		default:
			if ve, ok := err.(ValidationError); ok {
				err = internal.NewValidationError(ve.Msg, internal.ErrCodeValidationFailed)
			}
		}
		h.HandleServiceError(w, err)
		return
	}

	h.SetSessionCookie(w, h.Cookie.Name, token, h.Service.Sessions().Duration(), h.Cookie.Secure)
	h.WriteJSON(w, http.StatusOK, u)
}

// Logout clears the session cookie. The token itself simply expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.ClearSessionCookie(w, h.Cookie.Name, h.Cookie.Secure)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// Middleware validates the session cookie and attaches the principal to the
// request context. No process-global state is involved; each request is
// resolved independently.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.SessionTokenFromRequest(r, h.Cookie.Name)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing session")
			return
		}

		u, err := h.Service.ResolveSession(token)
		if err != nil {
			h.Logger.Warn("session validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
	})
}

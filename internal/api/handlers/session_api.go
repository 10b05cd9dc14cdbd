package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/nav"
	"github.com/baechuer/expense-web/internal/session"
)

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	Name          string     `json:"name,omitempty"`
	Roles         []string   `json:"roles,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func describe(s *session.Session) sessionResponse {
	if s == nil || !s.IsAuthenticated() {
		return sessionResponse{}
	}
	claims, err := s.CurrentUser()
	if err != nil {
		return sessionResponse{}
	}
	exp := claims.ExpiresTime()
	return sessionResponse{
		Authenticated: true,
		Subject:       claims.Subject,
		Name:          displayName(s),
		Roles:         claims.Role.Roles(),
		ExpiresAt:     &exp,
	}
}

// SessionInfo reports the current session. It never fails: no session,
// an expired one and a malformed token all read as unauthenticated.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	render.JSON(w, r, describe(s))
}

// SessionLogin is the JSON form of Login for browser-side widgets.
func (h *Handler) SessionLogin(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	var form loginForm
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		sendError(w, r, "invalid_json", "invalid request body", http.StatusBadRequest)
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	if errs := h.check(form); errs != nil {
		loginAttemptsTotal.WithLabelValues("invalid").Inc()
		msgs := make([]string, 0, len(errs))
		for _, m := range errs {
			msgs = append(msgs, m)
		}
		slices.Sort(msgs)
		sendError(w, r, "invalid_input", strings.Join(msgs, "; "), http.StatusUnprocessableEntity)
		return
	}

	if err := s.Login(r.Context(), form.Username, form.Password); err != nil {
		loginAttemptsTotal.WithLabelValues("failed").Inc()
		logger.Ctx(r.Context()).Warn().Err(err).Str("username", form.Username).Msg("login_failed")
		// scripts can retry on transport failures, so those keep their own code
		if errors.Is(err, downstream.ErrTimeout) || errors.Is(err, downstream.ErrUnavailable) {
			handleDownstreamError(w, r, err, "authentication service unavailable")
			return
		}
		sendError(w, r, "invalid_credentials", msgBadCredentials, http.StatusUnauthorized)
		return
	}

	loginAttemptsTotal.WithLabelValues("success").Inc()
	render.JSON(w, r, describe(s))
}

func (h *Handler) SessionLogout(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := s.Logout(); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("logout_failed")
	}
	render.NoContent(w, r)
}

// Menu returns the sidebar filtered by the caller's roles.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	render.JSON(w, r, nav.Visible(s))
}

// RequireAPISession answers 401 in the JSON envelope instead of
// redirecting, for routes called from scripts.
func RequireAPISession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok || !s.IsAuthenticated() {
			sendError(w, r, "unauthenticated", "login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

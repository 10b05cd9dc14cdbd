package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/internal/views"
	"github.com/baechuer/expense-web/middleware"
)

func sendError(w http.ResponseWriter, r *http.Request, code string, message string, status int) {
	resp := domain.APIError{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.RequestID = middleware.GetRequestID(r.Context())

	render.Status(r, status)
	render.JSON(w, r, resp)
}

func handleDownstreamError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	var se *downstream.StatusError
	if errors.As(err, &se) {
		sendError(w, r, se.Code, se.Message, se.StatusCode)
		return
	}
	switch {
	case errors.Is(err, downstream.ErrTimeout):
		sendError(w, r, "upstream_timeout", defaultMsg, http.StatusGatewayTimeout)
	default:
		sendError(w, r, "upstream_unavailable", defaultMsg, http.StatusBadGateway)
	}
}

// upstreamStatus is the status a page answers with after a failed call.
func upstreamStatus(err error) int {
	var se *downstream.StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
		return se.StatusCode
	}
	if errors.Is(err, downstream.ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p *views.Page) {
	if err := h.views.Render(w, status, name, p); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Str("page", name).Msg("render_failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// requireSession fetches the request session or answers 500; the router
// always installs one before any handler here.
func requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		logger.Ctx(r.Context()).Error().Str("path", r.URL.Path).Msg("session_missing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return s, ok
}

// loadFailed logs a failed read and turns it into a page notification.
// The page still renders, without the data.
func loadFailed(r *http.Request, err error, what string) *views.Flash {
	logger.Ctx(r.Context()).Warn().Err(err).Str("resource", what).Msg("load_failed")
	return &views.Flash{Kind: views.FlashError, Message: downstream.Message(err, "Error al cargar "+what)}
}

func actionFailed(r *http.Request, err error, fallback string) *views.Flash {
	logger.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("action_failed")
	return &views.Flash{Kind: views.FlashError, Message: downstream.Message(err, fallback)}
}

func success(msg string) *views.Flash {
	return &views.Flash{Kind: views.FlashSuccess, Message: msg}
}

func warning(msg string) *views.Flash {
	return &views.Flash{Kind: views.FlashWarning, Message: msg}
}

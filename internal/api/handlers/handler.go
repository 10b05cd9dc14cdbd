package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/baechuer/expense-web/internal/nav"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/internal/views"
)

// Handler serves the screens and the session JSON API. Per-request state
// (session, bound API client) comes from the request context.
type Handler struct {
	views    *views.Renderer
	validate *validator.Validate
	now      func() time.Time
}

func New(v *views.Renderer) *Handler {
	return &Handler{
		views:    v,
		validate: newValidator(),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for default periods and dates.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

type clientKey struct{}

// WithClient stores the request's API client.
func WithClient(ctx context.Context, c *downstream.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the request's API client, or nil.
func ClientFrom(ctx context.Context) *downstream.Client {
	c, _ := ctx.Value(clientKey{}).(*downstream.Client)
	return c
}

func displayName(s *session.Session) string {
	claims, err := s.CurrentUser()
	if err != nil {
		return views.FallbackName
	}
	if name := claims.DisplayName(); name != "" {
		return name
	}
	return views.FallbackName
}

// page builds the shell for the protected screen at path.
func (h *Handler) page(r *http.Request, path string, data any) *views.Page {
	p := &views.Page{Current: path, Data: data}
	if route, ok := nav.RouteFor(path); ok {
		p.Title = route.Title
	}
	h.fillShell(r, p)
	return p
}

func (h *Handler) fillShell(r *http.Request, p *views.Page) {
	s, ok := session.FromContext(r.Context())
	if !ok || !s.IsAuthenticated() {
		return
	}
	p.User = displayName(s)
	p.Menu = nav.Visible(s)

	q := r.URL.Query()
	if _, set := q["open"]; set {
		p.Open = q.Get("open")
	} else {
		p.Open = nav.SectionOf(p.Current)
	}
}

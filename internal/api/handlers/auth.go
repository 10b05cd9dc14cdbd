package handlers

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baechuer/expense-web/internal/guard"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/views"
)

const msgBadCredentials = "Credenciales inválidas"

var loginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by result",
	},
	[]string{"result"},
)

type loginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func loginPage(from, username string, errs map[string]string, flash *views.Flash) *views.Page {
	return &views.Page{
		Title:  "Iniciar Sesión",
		Errors: errs,
		Flash:  flash,
		Data:   views.LoginData{Username: username, From: from},
	}
}

// LoginPage renders the form. The return context arrives as ?from= from
// the guard and is posted back with the form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", loginPage(r.URL.Query().Get(guard.FromParam), "", nil, nil))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	from := r.PostFormValue(guard.FromParam)

	if errs := h.check(form); errs != nil {
		loginAttemptsTotal.WithLabelValues("invalid").Inc()
		h.render(w, r, http.StatusUnprocessableEntity, "login", loginPage(from, form.Username, errs, nil))
		return
	}

	if err := s.Login(r.Context(), form.Username, form.Password); err != nil {
		loginAttemptsTotal.WithLabelValues("failed").Inc()
		// bad credentials and an unreachable API look the same to the user
		logger.Ctx(r.Context()).Warn().Err(err).Str("username", form.Username).Msg("login_failed")
		flash := &views.Flash{Kind: views.FlashError, Message: msgBadCredentials}
		h.render(w, r, http.StatusUnauthorized, "login", loginPage(from, form.Username, nil, flash))
		return
	}

	loginAttemptsTotal.WithLabelValues("success").Inc()
	logger.Ctx(r.Context()).Info().Str("username", form.Username).Msg("login_succeeded")
	http.Redirect(w, r, guard.ReturnPath(from), http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := s.Logout(); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("logout_failed")
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

// Unauthorized is where role failures land. Authenticated users keep the
// sidebar so they can navigate away.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	p := &views.Page{Title: "Acceso Denegado", Current: guard.ForbiddenPath}
	h.fillShell(r, p)
	h.render(w, r, http.StatusForbidden, "unauthorized", p)
}

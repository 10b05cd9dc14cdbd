package handlers

import (
	"net/http"
	"time"

	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/nav"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/internal/views"
)

var rangeReasons = map[string]string{
	"start_after_end": `La fecha "Desde" no puede ser mayor que la fecha "Hasta".`,
	"end_in_future":   `La fecha "Hasta" no puede ser posterior a hoy.`,
}

// dateRange reads ?from=&to= over the given default. A non-nil flash means
// the range must not be sent upstream.
func (h *Handler) dateRange(r *http.Request, def func(time.Time) domain.DateRange) (domain.DateRange, *views.Flash) {
	now := h.now()
	rng := def(now)
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := parseDate(v, now.Location())
		if err != nil {
			return rng, warning("Fecha inválida.")
		}
		rng.Start = t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDate(v, now.Location())
		if err != nil {
			return rng, warning("Fecha inválida.")
		}
		rng.End = t
	}

	if policy := domain.CheckRange(rng, now); !policy.CanSubmit {
		return rng, warning(rangeReasons[policy.Reason])
	}
	return rng, nil
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	var data views.HomeData
	if s, ok := session.FromContext(r.Context()); ok {
		data.Name = displayName(s)
		if claims, err := s.CurrentUser(); err == nil {
			data.Roles = claims.Role.Roles()
			data.ExpiresAt = claims.ExpiresTime()
		}
	}
	h.render(w, r, http.StatusOK, "home", h.page(r, nav.PathHome, data))
}

func (h *Handler) Movements(w http.ResponseWriter, r *http.Request) {
	h.movements(w, r, nav.PathMovements, false)
}

// AdminMovements is the global listing across users.
func (h *Handler) AdminMovements(w http.ResponseWriter, r *http.Request) {
	h.movements(w, r, nav.PathAdminMovements, true)
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request, path string, all bool) {
	rng, flash := h.dateRange(r, domain.CurrentMonthToDate)
	data := views.MovementsData{
		Action:   path,
		From:     rng.Start.Format(dateLayout),
		To:       rng.End.Format(dateLayout),
		ShowUser: all,
	}

	if flash == nil {
		client := ClientFrom(r.Context())
		var (
			list []domain.Movement
			err  error
		)
		if all {
			list, err = client.AllMovements(r.Context(), rng)
		} else {
			list, err = client.UserMovements(r.Context(), rng)
		}
		if err != nil {
			flash = loadFailed(r, err, "movimientos")
		}
		data.Movements = list
		for _, m := range list {
			switch m.MovementType {
			case domain.MovementDeposit:
				data.Deposits += m.Amount
			case domain.MovementExpense:
				data.Expenses += m.Amount
			}
		}
	}

	p := h.page(r, path, data)
	p.Flash = flash
	h.render(w, r, http.StatusOK, "movements", p)
}

func (h *Handler) BudgetExecution(w http.ResponseWriter, r *http.Request) {
	rng, flash := h.dateRange(r, domain.PreviousMonth)
	data := views.BudgetExecutionData{
		From: rng.Start.Format(dateLayout),
		To:   rng.End.Format(dateLayout),
	}

	if flash == nil {
		points, err := ClientFrom(r.Context()).BudgetExecution(r.Context(), rng)
		if err != nil {
			flash = loadFailed(r, err, "datos del gráfico")
		}
		data.Rows = views.ChartRows(points)
	}

	p := h.page(r, nav.PathBudgetExecution, data)
	p.Flash = flash
	h.render(w, r, http.StatusOK, "budget_execution", p)
}

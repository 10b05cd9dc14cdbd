package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/nav"
	"github.com/baechuer/expense-web/internal/views"
)

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// Funds

func (h *Handler) Funds(w http.ResponseWriter, r *http.Request) {
	h.renderFunds(w, r, http.StatusOK, domain.FundInput{}, nil, nil)
}

func (h *Handler) renderFunds(w http.ResponseWriter, r *http.Request, status int, form domain.FundInput, errs map[string]string, flash *views.Flash) {
	data := views.FundsData{Form: form}
	funds, err := ClientFrom(r.Context()).Funds(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "fondos")
	}
	data.Funds = funds

	p := h.page(r, nav.PathFunds, data)
	p.Errors = errs
	p.Flash = flash
	h.render(w, r, status, "funds", p)
}

func (h *Handler) CreateFund(w http.ResponseWriter, r *http.Request) {
	form := domain.FundInput{
		Name:           strings.TrimSpace(r.PostFormValue("name")),
		Description:    strings.TrimSpace(r.PostFormValue("description")),
		InitialBalance: formFloat(r, "initial_balance"),
	}
	if errs := h.check(form); errs != nil {
		h.renderFunds(w, r, http.StatusUnprocessableEntity, form, errs, warning("Por favor, corrija los errores del formulario."))
		return
	}

	if err := ClientFrom(r.Context()).CreateFund(r.Context(), form); err != nil {
		h.renderFunds(w, r, upstreamStatus(err), form, nil, actionFailed(r, err, "Error al crear fondo."))
		return
	}
	h.renderFunds(w, r, http.StatusOK, domain.FundInput{}, nil, success("Fondo creado con éxito"))
}

// UpdateFund edits a fund's name and description. The balance moves only
// through deposits and expenses.
func (h *Handler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := domain.FundInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	if errs := h.check(form); errs != nil {
		h.renderFunds(w, r, http.StatusUnprocessableEntity, domain.FundInput{}, errs, warning("Por favor, corrija los errores del formulario."))
		return
	}

	if err := ClientFrom(r.Context()).UpdateFund(r.Context(), id, form); err != nil {
		h.renderFunds(w, r, upstreamStatus(err), domain.FundInput{}, nil, actionFailed(r, err, "Error al actualizar fondo."))
		return
	}
	h.renderFunds(w, r, http.StatusOK, domain.FundInput{}, nil, success("Fondo actualizado con éxito"))
}

func (h *Handler) DeleteFund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := ClientFrom(r.Context()).DeleteFund(r.Context(), id); err != nil {
		h.renderFunds(w, r, upstreamStatus(err), domain.FundInput{}, nil, actionFailed(r, err, "Error al eliminar fondo."))
		return
	}
	h.renderFunds(w, r, http.StatusOK, domain.FundInput{}, nil, success("Fondo eliminado con éxito"))
}

// Expense types (Admin)

func (h *Handler) ExpenseTypes(w http.ResponseWriter, r *http.Request) {
	h.renderExpenseTypes(w, r, http.StatusOK, domain.ExpenseTypeInput{}, nil, nil)
}

func (h *Handler) renderExpenseTypes(w http.ResponseWriter, r *http.Request, status int, form domain.ExpenseTypeInput, errs map[string]string, flash *views.Flash) {
	data := views.ExpenseTypesData{Form: form}
	types, err := ClientFrom(r.Context()).ExpenseTypes(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "tipos de gasto")
	}
	data.Types = types

	p := h.page(r, nav.PathExpenseTypes, data)
	p.Errors = errs
	p.Flash = flash
	h.render(w, r, status, "expense_types", p)
}

func (h *Handler) CreateExpenseType(w http.ResponseWriter, r *http.Request) {
	form := domain.ExpenseTypeInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	if errs := h.check(form); errs != nil {
		h.renderExpenseTypes(w, r, http.StatusUnprocessableEntity, form, errs, nil)
		return
	}

	created, err := ClientFrom(r.Context()).CreateExpenseType(r.Context(), form)
	if err != nil {
		h.renderExpenseTypes(w, r, upstreamStatus(err), form, nil, actionFailed(r, err, "Error al crear tipo de gasto."))
		return
	}
	msg := "Tipo de gasto creado"
	if created.Code != "" {
		msg += " con código " + created.Code
	}
	h.renderExpenseTypes(w, r, http.StatusOK, domain.ExpenseTypeInput{}, nil, success(msg))
}

func (h *Handler) UpdateExpenseType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	form := domain.ExpenseTypeInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	if errs := h.check(form); errs != nil {
		h.renderExpenseTypes(w, r, http.StatusUnprocessableEntity, domain.ExpenseTypeInput{}, errs, nil)
		return
	}

	if err := ClientFrom(r.Context()).UpdateExpenseType(r.Context(), id, form); err != nil {
		h.renderExpenseTypes(w, r, upstreamStatus(err), domain.ExpenseTypeInput{}, nil, actionFailed(r, err, "Error al actualizar tipo de gasto."))
		return
	}
	h.renderExpenseTypes(w, r, http.StatusOK, domain.ExpenseTypeInput{}, nil, success("Tipo de gasto actualizado"))
}

func (h *Handler) DeleteExpenseType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := ClientFrom(r.Context()).DeleteExpenseType(r.Context(), id); err != nil {
		h.renderExpenseTypes(w, r, upstreamStatus(err), domain.ExpenseTypeInput{}, nil, actionFailed(r, err, "Error al eliminar tipo de gasto."))
		return
	}
	h.renderExpenseTypes(w, r, http.StatusOK, domain.ExpenseTypeInput{}, nil, success("Tipo de gasto eliminado"))
}

// Users (Admin)

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	client := ClientFrom(r.Context())
	var (
		data  views.UsersData
		flash *views.Flash
		err   error
	)
	if data.Roles, err = client.Roles(r.Context()); err != nil {
		flash = loadFailed(r, err, "roles")
	}
	if data.Users, err = client.Users(r.Context()); err != nil {
		flash = loadFailed(r, err, "usuarios")
	}

	p := h.page(r, nav.PathUsers, data)
	p.Flash = flash
	h.render(w, r, http.StatusOK, "users", p)
}

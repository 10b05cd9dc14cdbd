package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/nav"
	"github.com/baechuer/expense-web/internal/views"
)

var months = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// Budgets

// period reads month/year, defaulting to the current month.
func (h *Handler) period(get func(string) string) (int, int) {
	now := h.now()
	month, year := int(now.Month()), now.Year()
	if m, err := strconv.Atoi(get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	if y, err := strconv.Atoi(get("year")); err == nil && y >= 2000 && y <= 2100 {
		year = y
	}
	return month, year
}

func (h *Handler) Budgets(w http.ResponseWriter, r *http.Request) {
	month, year := h.period(r.URL.Query().Get)
	h.renderBudgets(w, r, http.StatusOK, month, year, nil, nil)
}

func (h *Handler) renderBudgets(w http.ResponseWriter, r *http.Request, status, month, year int, errs map[string]string, flash *views.Flash) {
	client := ClientFrom(r.Context())
	data := views.BudgetsData{Month: month, Year: year, Months: months}

	types, err := client.ExpenseTypes(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "tipos de gasto")
	}
	data.Types = types

	names := make(map[int]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	budgets, err := client.Budgets(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "presupuestos")
	}
	for _, b := range domain.FilterBudgets(budgets, month, year) {
		name, ok := names[b.ExpenseTypeID]
		if !ok {
			name = fmt.Sprintf("Tipo ID %d", b.ExpenseTypeID)
		}
		data.Rows = append(data.Rows, views.BudgetRow{Budget: b, TypeName: name})
		data.Total += b.Amount
	}

	p := h.page(r, nav.PathBudgets, data)
	p.Errors = errs
	p.Flash = flash
	h.render(w, r, status, "budgets", p)
}

// SaveBudget validates the posted period as submitted; only the listing
// shown next to the errors falls back to the current month.
func (h *Handler) SaveBudget(w http.ResponseWriter, r *http.Request) {
	form := domain.BudgetInput{
		ExpenseTypeID: formInt(r, "expense_type_id"),
		Month:         formInt(r, "month"),
		Year:          formInt(r, "year"),
		Amount:        formFloat(r, "amount"),
	}
	if errs := h.check(form); errs != nil {
		month, year := h.period(r.PostFormValue)
		h.renderBudgets(w, r, http.StatusUnprocessableEntity, month, year, errs, nil)
		return
	}
	month, year := form.Month, form.Year

	if err := ClientFrom(r.Context()).SaveBudget(r.Context(), form); err != nil {
		h.renderBudgets(w, r, upstreamStatus(err), month, year, nil, actionFailed(r, err, "Error al guardar presupuesto"))
		return
	}
	h.renderBudgets(w, r, http.StatusOK, month, year, nil, success("Presupuesto guardado"))
}

// Deposits

func (h *Handler) DepositForm(w http.ResponseWriter, r *http.Request) {
	form := views.DepositForm{Date: h.now().Format(dateLayout)}
	h.renderDeposits(w, r, http.StatusOK, form, nil, nil)
}

func (h *Handler) renderDeposits(w http.ResponseWriter, r *http.Request, status int, form views.DepositForm, errs map[string]string, flash *views.Flash) {
	data := views.DepositsData{Form: form}
	funds, err := ClientFrom(r.Context()).Funds(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "fondos")
	}
	data.Funds = funds

	p := h.page(r, nav.PathDeposits, data)
	p.Errors = errs
	p.Flash = flash
	h.render(w, r, status, "deposits", p)
}

func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	form := views.DepositForm{
		FundID: formInt(r, "fund_id"),
		Amount: strings.TrimSpace(r.PostFormValue("amount")),
		Date:   strings.TrimSpace(r.PostFormValue("date")),
	}
	deposit := domain.Deposit{
		FundID: form.FundID,
		Amount: parseAmount(form.Amount),
		Date:   formDate(r, "date", h.now().Location()),
	}
	if errs := h.check(deposit); errs != nil {
		h.renderDeposits(w, r, http.StatusUnprocessableEntity, form, errs, warning("Por favor, complete correctamente todos los campos requeridos."))
		return
	}

	if err := ClientFrom(r.Context()).CreateDeposit(r.Context(), deposit); err != nil {
		h.renderDeposits(w, r, upstreamStatus(err), form, nil, actionFailed(r, err, "Error al registrar el depósito."))
		return
	}
	fresh := views.DepositForm{Date: h.now().Format(dateLayout)}
	h.renderDeposits(w, r, http.StatusOK, fresh, nil, success("Depósito registrado con éxito"))
}

// Expenses

var expenseReasons = map[string]string{
	"header_incomplete": "Complete los campos del encabezado correctamente.",
	"no_details":        "Debe agregar al menos un detalle de gasto.",
	"invalid_details":   "Hay detalles con datos incompletos o inválidos (Tipo de Gasto y Monto numérico > 0 son requeridos).",
}

func (h *Handler) newExpenseForm() views.ExpenseForm {
	return views.ExpenseForm{
		Date:         h.now().Format(dateLayout),
		DocumentType: domain.DocumentInvoice,
		Lines:        []views.ExpenseLine{{}},
	}
}

func (h *Handler) ExpenseForm(w http.ResponseWriter, r *http.Request) {
	h.renderExpenses(w, r, http.StatusOK, h.newExpenseForm(), nil)
}

func (h *Handler) renderExpenses(w http.ResponseWriter, r *http.Request, status int, form views.ExpenseForm, flash *views.Flash) {
	client := ClientFrom(r.Context())
	data := views.ExpensesData{DocumentTypes: domain.DocumentTypes, Form: form}

	funds, err := client.Funds(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "los datos iniciales")
	}
	types, err := client.ExpenseTypes(r.Context())
	if err != nil {
		flash = loadFailed(r, err, "los datos iniciales")
	}
	data.Funds, data.Types = funds, types

	p := h.page(r, nav.PathExpenses, data)
	p.Flash = flash
	h.render(w, r, status, "expenses", p)
}

// readExpenseForm pairs the detail_type/detail_amount columns row by row.
func readExpenseForm(r *http.Request) views.ExpenseForm {
	form := views.ExpenseForm{
		Date:         strings.TrimSpace(r.PostFormValue("date")),
		FundID:       formInt(r, "fund_id"),
		Notes:        strings.TrimSpace(r.PostFormValue("notes")),
		BusinessName: strings.TrimSpace(r.PostFormValue("business_name")),
		DocumentType: r.PostFormValue("document_type"),
	}

	types, amounts := r.PostForm["detail_type"], r.PostForm["detail_amount"]
	n := max(len(types), len(amounts))
	for i := 0; i < n; i++ {
		var line views.ExpenseLine
		if i < len(types) {
			line.ExpenseTypeID, _ = strconv.Atoi(strings.TrimSpace(types[i]))
		}
		if i < len(amounts) {
			line.Amount = strings.TrimSpace(amounts[i])
		}
		form.Lines = append(form.Lines, line)
	}
	return form
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := readExpenseForm(r)

	if r.PostFormValue("action") == "add_line" {
		form.Lines = append(form.Lines, views.ExpenseLine{})
		h.renderExpenses(w, r, http.StatusOK, form, nil)
		return
	}

	expense := domain.Expense{
		Date:         formDate(r, "date", h.now().Location()),
		FundID:       form.FundID,
		Notes:        form.Notes,
		BusinessName: form.BusinessName,
		DocumentType: form.DocumentType,
	}
	for _, l := range form.Lines {
		if l.ExpenseTypeID == 0 && l.Amount == "" {
			continue
		}
		expense.Details = append(expense.Details, domain.ExpenseDetail{
			ExpenseTypeID: l.ExpenseTypeID,
			Amount:        parseAmount(l.Amount),
		})
	}

	if policy := domain.CheckExpense(expense); !policy.CanSubmit {
		if len(form.Lines) == 0 {
			form.Lines = []views.ExpenseLine{{}}
		}
		h.renderExpenses(w, r, http.StatusUnprocessableEntity, form, &views.Flash{Kind: views.FlashError, Message: expenseReasons[policy.Reason]})
		return
	}

	client := ClientFrom(r.Context())
	res, err := client.CreateExpense(r.Context(), expense)
	if err != nil {
		h.renderExpenses(w, r, upstreamStatus(err), form, actionFailed(r, err, "Error al registrar el gasto."))
		return
	}

	logger.Ctx(r.Context()).Info().
		Int("fund_id", expense.FundID).
		Int("lines", len(expense.Details)).
		Float64("total", expense.Total()).
		Int("overflows", len(res.Overflows)).
		Msg("expense_created")
	h.renderExpenses(w, r, http.StatusOK, h.newExpenseForm(), h.expenseOutcome(r, res))
}

// expenseOutcome summarises the stored expense; overflows become a warning
// with one line per expense type over budget.
func (h *Handler) expenseOutcome(r *http.Request, res *domain.ExpenseResult) *views.Flash {
	if len(res.Overflows) == 0 {
		msg := res.Message
		if msg == "" {
			msg = "Gasto registrado correctamente"
		}
		return success(msg)
	}

	names := map[int]string{}
	if types, err := ClientFrom(r.Context()).ExpenseTypes(r.Context()); err == nil {
		for _, t := range types {
			names[t.ID] = t.Name
		}
	}

	flash := warning("Gasto registrado con advertencias de presupuesto:")
	for _, o := range res.Overflows {
		name := names[o.ExpenseTypeID]
		if name == "" {
			name = o.ExpenseTypeName
		}
		if name == "" {
			name = fmt.Sprintf("Tipo ID %d", o.ExpenseTypeID)
		}
		flash.Lines = append(flash.Lines, fmt.Sprintf("%s: Presup. %.2f, Gasto %.2f, Exceso %.2f", name, o.BudgetAmount, o.NewExpense, o.OverflowAmount))
	}
	return flash
}

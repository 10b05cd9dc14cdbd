package domain

import (
	"errors"
	"net/url"
	"time"
)

var ErrInvalidRange = errors.New("invalid_date_range")

const RoleAdmin = "Admin"

// DocumentType values accepted by the expenses API.
const (
	DocumentInvoice = "Factura"
	DocumentReceipt = "Comprobante"
	DocumentOther   = "Otro"
)

var DocumentTypes = []string{DocumentInvoice, DocumentReceipt, DocumentOther}

type Fund struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	CurrentBalance float64 `json:"currentBalance"`
}

// FundInput is the create/update payload for /Funds.
type FundInput struct {
	Name           string  `json:"Name" form:"name" validate:"required,max=100"`
	Description    string  `json:"Description" form:"description" validate:"max=250"`
	InitialBalance float64 `json:"InitialBalance" form:"initial_balance" validate:"gte=0"`
}

type ExpenseType struct {
	ID          int    `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ExpenseTypeInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"max=250"`
}

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID             int        `json:"id"`
	Identification string     `json:"identification,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Address        string     `json:"address,omitempty"`
	Roles          []string   `json:"roles,omitempty"`
	RoleID         *int       `json:"roleId,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Budget struct {
	ID            int     `json:"id"`
	ExpenseTypeID int     `json:"expenseTypeId"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	Amount        float64 `json:"amount"`
}

// BudgetInput creates or replaces the budget of one expense type for a month.
type BudgetInput struct {
	ExpenseTypeID int     `json:"ExpenseTypeId" form:"expense_type_id" validate:"required,gt=0"`
	Month         int     `json:"Month" form:"month" validate:"required,min=1,max=12"`
	Year          int     `json:"Year" form:"year" validate:"required,min=2000,max=2100"`
	Amount        float64 `json:"Amount" form:"amount" validate:"gt=0"`
}

// FilterBudgets keeps the budgets of one calendar month. The API returns
// every budget of the caller, so the period filter is applied here.
func FilterBudgets(budgets []Budget, month, year int) []Budget {
	out := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out
}

type Deposit struct {
	FundID int       `json:"FundId" form:"fund_id" validate:"required,gt=0"`
	Amount float64   `json:"Amount" form:"amount" validate:"gt=0"`
	Date   time.Time `json:"Date" form:"date" validate:"required"`
}

type ExpenseDetail struct {
	ExpenseTypeID int     `json:"expenseTypeId"`
	Amount        float64 `json:"amount"`
}

// Expense is a header plus its detail lines; see CheckExpense.
type Expense struct {
	Date         time.Time       `json:"date"`
	FundID       int             `json:"fundId"`
	Notes        string          `json:"notes,omitempty"`
	BusinessName string          `json:"businessName"`
	DocumentType string          `json:"documentType"`
	Details      []ExpenseDetail `json:"details"`
}

func (e Expense) Total() float64 {
	var sum float64
	for _, d := range e.Details {
		sum += d.Amount
	}
	return sum
}

type BudgetOverflow struct {
	ExpenseTypeID   int     `json:"expenseTypeId"`
	ExpenseTypeName string  `json:"expenseTypeName,omitempty"`
	BudgetAmount    float64 `json:"budgetAmount"`
	CurrentExpenses float64 `json:"currentExpenses"`
	NewExpense      float64 `json:"newExpense"`
	OverflowAmount  float64 `json:"overflowAmount"`
}

// ExpenseResult is the /Expenses response. A non-empty Overflows means the
// expense was stored but went over budget.
type ExpenseResult struct {
	Success   *bool            `json:"success,omitempty"`
	Message   string           `json:"message,omitempty"`
	Overflows []BudgetOverflow `json:"overflows,omitempty"`
}

const (
	MovementDeposit = "Deposit"
	MovementExpense = "Expense"
)

type Movement struct {
	User         string    `json:"user,omitempty"`
	MovementType string    `json:"movementType"`
	Date         time.Time `json:"date"`
	Fund         string    `json:"fund"`
	Amount       float64   `json:"amount"`
	ExpenseType  *string   `json:"expenseType,omitempty"`
	Commerce     *string   `json:"commerce,omitempty"`
}

type ChartPoint struct {
	ExpenseType    string  `json:"expenseType"`
	BudgetedAmount float64 `json:"budgetedAmount"`
	ActualAmount   float64 `json:"actualAmount"`
}

// Difference is what is left of the budget; negative means overspent.
func (p ChartPoint) Difference() float64 {
	return p.BudgetedAmount - p.ActualAmount
}

// DateRange is an inclusive reporting period.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CurrentMonthToDate spans the first day of now's month to now.
func CurrentMonthToDate(now time.Time) DateRange {
	y, m, _ := now.Date()
	return DateRange{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// PreviousMonth spans the whole calendar month before now.
func PreviousMonth(now time.Time) DateRange {
	y, m, _ := now.Date()
	first := time.Date(y, m-1, 1, 0, 0, 0, 0, now.Location())
	last := time.Date(y, m, 0, 0, 0, 0, 0, now.Location())
	return DateRange{Start: first, End: last}
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if r.Start.After(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Query encodes the range the way the movements endpoints expect it.
func (r DateRange) Query() url.Values {
	return url.Values{
		"startDate": {r.Start.UTC().Format(time.RFC3339)},
		"endDate":   {r.End.UTC().Format(time.RFC3339)},
	}
}

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

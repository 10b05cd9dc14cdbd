package views

import (
	"time"

	"github.com/baechuer/expense-web/internal/domain"
)

type LoginData struct {
	Username string
	From     string
}

type HomeData struct {
	Name      string
	Roles     []string
	ExpiresAt time.Time
}

type FundsData struct {
	Funds []domain.Fund
	Form  domain.FundInput
}

type ExpenseTypesData struct {
	Types []domain.ExpenseType
	Form  domain.ExpenseTypeInput
}

type UsersData struct {
	Users []domain.User
	Roles []domain.Role
}

type BudgetRow struct {
	domain.Budget
	TypeName string
}

type BudgetsData struct {
	Month  int
	Year   int
	Months []int
	Rows   []BudgetRow
	Types  []domain.ExpenseType
	Total  float64
}

// DepositForm echoes the submitted values back on validation errors.
type DepositForm struct {
	FundID int
	Amount string
	Date   string
}

type DepositsData struct {
	Funds []domain.Fund
	Form  DepositForm
}

type ExpenseLine struct {
	ExpenseTypeID int
	Amount        string
}

type ExpenseForm struct {
	Date         string
	FundID       int
	Notes        string
	BusinessName string
	DocumentType string
	Lines        []ExpenseLine
}

type ExpensesData struct {
	Funds         []domain.Fund
	Types         []domain.ExpenseType
	DocumentTypes []string
	Form          ExpenseForm
}

type MovementsData struct {
	Action    string
	From      string
	To        string
	ShowUser  bool
	Movements []domain.Movement
	Deposits  float64
	Expenses  float64
}

type ChartRow struct {
	domain.ChartPoint
	BudgetPct int
	ActualPct int
}

type BudgetExecutionData struct {
	From string
	To   string
	Rows []ChartRow
}

// ChartRows scales points so the largest amount spans the full bar.
func ChartRows(points []domain.ChartPoint) []ChartRow {
	var max float64
	for _, p := range points {
		if p.BudgetedAmount > max {
			max = p.BudgetedAmount
		}
		if p.ActualAmount > max {
			max = p.ActualAmount
		}
	}

	rows := make([]ChartRow, 0, len(points))
	for _, p := range points {
		row := ChartRow{ChartPoint: p}
		if max > 0 {
			row.BudgetPct = int(p.BudgetedAmount / max * 100)
			row.ActualPct = int(p.ActualAmount / max * 100)
		}
		rows = append(rows, row)
	}
	return rows
}

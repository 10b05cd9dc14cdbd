package downstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/baechuer/expense-web/internal/domain"
)

// Resources are thin typed calls over Client. Business rules (balances,
// overflow, persistence) stay in the API.

func (c *Client) Funds(ctx context.Context) ([]domain.Fund, error) {
	return getJSON[[]domain.Fund](ctx, c, "/Funds", nil)
}

func (c *Client) CreateFund(ctx context.Context, in domain.FundInput) error {
	return c.send(ctx, http.MethodPost, "/Funds", nil, in, nil)
}

// UpdateFund renames a fund; the balance is not editable.
func (c *Client) UpdateFund(ctx context.Context, id int, in domain.FundInput) error {
	body := struct {
		Name        string `json:"Name"`
		Description string `json:"Description"`
	}{in.Name, in.Description}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/Funds/%d", id), nil, body, nil)
}

func (c *Client) DeleteFund(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/Funds/%d", id), nil, nil, nil)
}

func (c *Client) ExpenseTypes(ctx context.Context) ([]domain.ExpenseType, error) {
	return getJSON[[]domain.ExpenseType](ctx, c, "/ExpenseTypes", nil)
}

func (c *Client) CreateExpenseType(ctx context.Context, in domain.ExpenseTypeInput) (*domain.ExpenseType, error) {
	var out domain.ExpenseType
	if err := c.send(ctx, http.MethodPost, "/ExpenseTypes", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExpenseType renames an expense type; its code stays.
func (c *Client) UpdateExpenseType(ctx context.Context, id int, in domain.ExpenseTypeInput) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/ExpenseTypes/%d", id), nil, in, nil)
}

func (c *Client) DeleteExpenseType(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/ExpenseTypes/%d", id), nil, nil, nil)
}

func (c *Client) Budgets(ctx context.Context) ([]domain.Budget, error) {
	return getJSON[[]domain.Budget](ctx, c, "/Budgets", nil)
}

// SaveBudget creates or replaces the budget for in's expense type and month.
func (c *Client) SaveBudget(ctx context.Context, in domain.BudgetInput) error {
	return c.send(ctx, http.MethodPost, "/Budgets", nil, in, nil)
}

func (c *Client) CreateDeposit(ctx context.Context, d domain.Deposit) error {
	return c.send(ctx, http.MethodPost, "/Deposits", nil, d, nil)
}

func (c *Client) CreateExpense(ctx context.Context, e domain.Expense) (*domain.ExpenseResult, error) {
	var out domain.ExpenseResult
	if err := c.send(ctx, http.MethodPost, "/Expenses", nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserMovements lists the caller's deposits and expenses within r.
func (c *Client) UserMovements(ctx context.Context, r domain.DateRange) ([]domain.Movement, error) {
	return getJSON[[]domain.Movement](ctx, c, "/Movements/movimientos-usuario", r.Query())
}

// AllMovements lists every user's movements within r. Admin only upstream.
func (c *Client) AllMovements(ctx context.Context, r domain.DateRange) ([]domain.Movement, error) {
	return getJSON[[]domain.Movement](ctx, c, "/Movements/movimientos-todos", r.Query())
}

func (c *Client) BudgetExecution(ctx context.Context, r domain.DateRange) ([]domain.ChartPoint, error) {
	return getJSON[[]domain.ChartPoint](ctx, c, "/Movements/budget-execution-chart", r.Query())
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	return getJSON[[]domain.User](ctx, c, "/UserManagement/users", nil)
}

func (c *Client) Roles(ctx context.Context) ([]domain.Role, error) {
	return getJSON[[]domain.Role](ctx, c, "/UserManagement/roles", nil)
}

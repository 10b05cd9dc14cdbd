package downstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"username": "ana", "password": "s3cret"}, body)

			w.Write([]byte(`{"token":"abc.def.ghi"}`))
		})

		token, err := downstream.NewAuthClient(c).Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("Bad Credentials", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := downstream.NewAuthClient(c).Login(context.Background(), "ana", "nope")
		assert.ErrorIs(t, err, downstream.ErrUnauthorized)
	})

	t.Run("Empty Token", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"token":""}`))
		})
		_, err := downstream.NewAuthClient(c).Login(context.Background(), "ana", "s3cret")
		assert.ErrorIs(t, err, downstream.ErrEmptyToken)
	})
}

func TestClient_MovementsQuery(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Movements/movimientos-usuario", r.URL.Path)
		assert.Equal(t, "2024-06-01T00:00:00Z", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-06-15T00:00:00Z", r.URL.Query().Get("endDate"))
		w.Write([]byte(`[{"movementType":"Expense","date":"2024-06-03T00:00:00Z","fund":"Caja","amount":12.5,"expenseType":"Comida","commerce":"Mercado"}]`))
	})

	r := domain.DateRange{
		Start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
	got, err := c.UserMovements(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.MovementExpense, got[0].MovementType)
	require.NotNil(t, got[0].Commerce)
	assert.Equal(t, "Mercado", *got[0].Commerce)
}

func TestClient_CreateExpense(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Expenses", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var e domain.Expense
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		assert.Equal(t, 3, e.FundID)
		assert.Len(t, e.Details, 2)

		w.Write([]byte(`{"overflows":[{"expenseTypeId":2,"budgetAmount":100,"currentExpenses":90,"newExpense":30,"overflowAmount":20}]}`))
	})

	res, err := c.CreateExpense(context.Background(), domain.Expense{
		Date:         time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		FundID:       3,
		BusinessName: "Ferretería",
		DocumentType: domain.DocumentInvoice,
		Details:      []domain.ExpenseDetail{{ExpenseTypeID: 1, Amount: 5}, {ExpenseTypeID: 2, Amount: 30}},
	})
	require.NoError(t, err)
	require.Len(t, res.Overflows, 1)
	assert.InDelta(t, 20.0, res.Overflows[0].OverflowAmount, 0.001)
}

func TestClient_WritesWithoutBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Deposits", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.CreateDeposit(context.Background(), domain.Deposit{FundID: 1, Amount: 10, Date: time.Now()})
	assert.NoError(t, err)
}

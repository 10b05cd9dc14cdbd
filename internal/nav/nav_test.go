package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roles []string

func (rs roles) HasRole(role string) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

func titles(sections []Section) map[string][]string {
	out := map[string][]string{}
	for _, s := range sections {
		for _, it := range s.Items {
			out[s.Key] = append(out[s.Key], it.Title)
		}
	}
	return out
}

func TestVisible_Admin(t *testing.T) {
	got := titles(Visible(roles{"Admin"}))

	assert.Equal(t, []string{"Tipos de Gasto", "Usuarios", "Fondos Monetarios"}, got["mantenimientos"])
	assert.Equal(t, []string{"Presupuestos", "Registro de Gastos", "Depósitos"}, got["movimientos"])
	assert.Equal(t, []string{"Listado de Movimientos", "Consulta General (Admin)", "Gráficos Comparativos"}, got["reportes"])
}

func TestVisible_RegularUser(t *testing.T) {
	got := titles(Visible(roles{"User"}))

	assert.Equal(t, []string{"Fondos Monetarios"}, got["mantenimientos"])
	assert.Equal(t, []string{"Presupuestos", "Registro de Gastos", "Depósitos"}, got["movimientos"])
	assert.Equal(t, []string{"Listado de Movimientos", "Gráficos Comparativos"}, got["reportes"])
}

func TestVisible_DoesNotMutateMenu(t *testing.T) {
	Visible(roles{})
	require.Len(t, Menu[0].Items, 3)
	Visible(nil)
	assert.Len(t, Menu[2].Items, 3)
}

func TestToggle(t *testing.T) {
	assert.Equal(t, "movimientos", Toggle("", "movimientos"))
	assert.Equal(t, "", Toggle("movimientos", "movimientos"))
	assert.Equal(t, "reportes", Toggle("movimientos", "reportes"))
}

func TestRoutes(t *testing.T) {
	want := map[string]bool{
		PathHome:            false,
		PathExpenseTypes:    true,
		PathUsers:           true,
		PathFunds:           false,
		PathBudgets:         false,
		PathDeposits:        false,
		PathExpenses:        false,
		PathMovements:       false,
		PathAdminMovements:  true,
		PathBudgetExecution: false,
	}
	require.Len(t, Routes, len(want))
	for path, adminOnly := range want {
		r, ok := RouteFor(path)
		require.True(t, ok, path)
		assert.Equal(t, adminOnly, len(r.Roles) > 0, path)
	}

	_, ok := RouteFor("/nope")
	assert.False(t, ok)
}

func TestSectionOf(t *testing.T) {
	assert.Equal(t, "movimientos", SectionOf(PathDeposits))
	assert.Equal(t, "reportes", SectionOf(PathAdminMovements))
	assert.Equal(t, "", SectionOf(PathHome))
}

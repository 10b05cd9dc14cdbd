// Package nav holds the sidebar hierarchy and the protected route table it
// links to. Visibility of admin-only items is navigation UX; the API
// re-checks every request.
package nav

import "github.com/baechuer/expense-web/internal/domain"

// RoleChecker is the part of the authorization policy the menu needs.
type RoleChecker interface {
	HasRole(role string) bool
}

const (
	PathHome            = "/"
	PathExpenseTypes    = "/configuracion/tipos-gasto"
	PathUsers           = "/configuracion/usuarios"
	PathFunds           = "/configuracion/fondos"
	PathBudgets         = "/movimientos/presupuestos"
	PathDeposits        = "/movimientos/depositos"
	PathExpenses        = "/movimientos/registro-gastos"
	PathMovements       = "/reportes/listado-movimientos"
	PathAdminMovements  = "/reportes/consulta-general-admin"
	PathBudgetExecution = "/reportes/graficos-comparativos"
)

// Route is one protected screen and the roles it requires (any of).
type Route struct {
	Path  string
	Title string
	Roles []string
}

var admin = []string{domain.RoleAdmin}

// Routes is the authoritative protected path table.
var Routes = []Route{
	{Path: PathHome, Title: "Inicio"},
	{Path: PathExpenseTypes, Title: "Tipos de Gasto", Roles: admin},
	{Path: PathUsers, Title: "Usuarios", Roles: admin},
	{Path: PathFunds, Title: "Fondos Monetarios"},
	{Path: PathBudgets, Title: "Presupuestos"},
	{Path: PathDeposits, Title: "Depósitos"},
	{Path: PathExpenses, Title: "Registro de Gastos"},
	{Path: PathMovements, Title: "Listado de Movimientos"},
	{Path: PathAdminMovements, Title: "Consulta General (Admin)", Roles: admin},
	{Path: PathBudgetExecution, Title: "Gráficos Comparativos"},
}

// RouteFor returns the table entry for path.
func RouteFor(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

type Item struct {
	Title string   `json:"title"`
	Path  string   `json:"path"`
	Icon  string   `json:"icon,omitempty"`
	Roles []string `json:"-"`
}

type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	Items []Item `json:"items"`
}

func item(path, icon string) Item {
	r, _ := RouteFor(path)
	return Item{Title: r.Title, Path: r.Path, Icon: icon, Roles: r.Roles}
}

// Menu is the full hierarchy, in display order.
var Menu = []Section{
	{
		Key: "mantenimientos", Title: "Mantenimientos", Icon: "settings",
		Items: []Item{
			item(PathExpenseTypes, "tags"),
			item(PathUsers, "group"),
			item(PathFunds, "money"),
		},
	},
	{
		Key: "movimientos", Title: "Movimientos", Icon: "datatransfer",
		Items: []Item{
			item(PathBudgets, "bulletlist"),
			item(PathExpenses, "cart"),
			item(PathDeposits, "arrowup"),
		},
	},
	{
		Key: "reportes", Title: "Consultas y Reportes", Icon: "file",
		Items: []Item{
			item(PathMovements, "orderedlist"),
			item(PathAdminMovements, "find"),
			item(PathBudgetExecution, "chart"),
		},
	},
}

// Visible returns the menu with the items authz may not see removed.
// Sections left without items are dropped.
func Visible(authz RoleChecker) []Section {
	out := make([]Section, 0, len(Menu))
	for _, s := range Menu {
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if allowed(authz, it.Roles) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		s.Items = items
		out = append(out, s)
	}
	return out
}

func allowed(authz RoleChecker, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	if authz == nil {
		return false
	}
	for _, r := range roles {
		if authz.HasRole(r) {
			return true
		}
	}
	return false
}

// Toggle returns the open section after a click on key. At most one section
// is open; clicking the open one closes it.
func Toggle(active, key string) string {
	if active == key {
		return ""
	}
	return key
}

// SectionOf returns the key of the section linking to path, so the shell can
// open it on first render.
func SectionOf(path string) string {
	for _, s := range Menu {
		for _, it := range s.Items {
			if it.Path == path {
				return s.Key
			}
		}
	}
	return ""
}

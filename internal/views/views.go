// Package views renders the server-side screens of the web shell.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/expense-web/internal/nav"
)

//go:embed templates/*.html
var templatesFS embed.FS

// FallbackName is shown in the user panel when the token carries no name.
const FallbackName = "Usuario"

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown above the page content.
type Flash struct {
	Kind    FlashKind
	Message string
	Lines   []string
}

// Page is what every template receives. Data is page specific.
type Page struct {
	Title   string
	User    string
	Current string
	Open    string
	Menu    []nav.Section
	Flash   *Flash
	Errors  map[string]string
	Data    any
}

// HasMenu reports whether the page is rendered inside the shell.
func (p *Page) HasMenu() bool { return p.Menu != nil }

var funcs = template.FuncMap{
	"money":    formatMoney,
	"date":     formatDate,
	"isodate":  formatISODate,
	"month":    monthName,
	"deref":    deref,
	"toggle":   nav.Toggle,
	"join":     strings.Join,
	"negative": func(f float64) bool { return f < 0 },
}

func formatMoney(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var monthNames = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")
		if base == "layout" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[base] = t
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, p *Page) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Pages lists the page names the renderer knows.
func (r *Renderer) Pages() []string {
	out := make([]string, 0, len(r.pages))
	for name := range r.pages {
		out = append(out, name)
	}
	return out
}

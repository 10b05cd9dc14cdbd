package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// fieldMessages maps "<form field>.<failed tag>" to the text shown next to
// the field.
var fieldMessages = map[string]string{
	"username.required":        "Usuario es requerido",
	"password.required":        "Contraseña es requerida",
	"name.required":            "El nombre es requerido",
	"name.max":                 "El nombre es demasiado largo",
	"description.max":          "La descripción es demasiado larga",
	"initial_balance.gte":      "El saldo inicial no puede ser negativo",
	"expense_type_id.required": "Seleccione un tipo de gasto",
	"expense_type_id.gt":       "Seleccione un tipo de gasto",
	"fund_id.required":         "Seleccione un fondo",
	"fund_id.gt":               "Seleccione un fondo",
	"amount.gt":                "El monto debe ser mayor a cero",
	"date.required":            "La fecha es requerida",
	"month.required":           "Mes inválido",
	"month.min":                "Mes inválido",
	"month.max":                "Mes inválido",
	"year.required":            "Año inválido",
	"year.min":                 "Año inválido",
	"year.max":                 "Año inválido",
}

func newValidator() *validator.Validate {
	v := validator.New()
	// report errors under the form field name so templates can look them up
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates v and returns one message per failing field, or nil.
func (h *Handler) check(v any) map[string]string {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"_": "Datos inválidos"}
	}

	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
			out[field] = msg
		} else {
			out[field] = "Valor inválido"
		}
	}
	return out
}

func formInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(key)))
	if err != nil {
		return 0
	}
	return n
}

func formFloat(r *http.Request, key string) float64 {
	return parseAmount(r.PostFormValue(key))
}

// parseAmount accepts "12.50" and "12,50"; anything unparsable is 0.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
}

func formDate(r *http.Request, key string, loc *time.Location) time.Time {
	t, err := parseDate(r.PostFormValue(key), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

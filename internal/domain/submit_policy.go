package domain

import (
	"math"
	"strings"
	"time"
)

// SubmitPolicy tells a form whether its data may be sent upstream and,
// if not, why.
type SubmitPolicy struct {
	CanSubmit bool   `json:"can_submit"`
	Reason    string `json:"reason,omitempty"`
}

func allow() SubmitPolicy { return SubmitPolicy{CanSubmit: true} }
func deny(reason string) SubmitPolicy { return SubmitPolicy{Reason: reason} }

// CheckExpense applies the client-side rules of the expense form. Budget
// overflow is not checked here; the API reports it after storing.
func CheckExpense(e Expense) SubmitPolicy {
	// 1. Header
	if e.Date.IsZero() || e.FundID <= 0 || strings.TrimSpace(e.BusinessName) == "" {
		return deny("header_incomplete")
	}
	if !validDocumentType(e.DocumentType) {
		return deny("header_incomplete")
	}

	// 2. Lines
	if len(e.Details) == 0 {
		return deny("no_details")
	}
	for _, d := range e.Details {
		if d.ExpenseTypeID <= 0 || !positive(d.Amount) {
			return deny("invalid_details")
		}
	}
	return allow()
}

// CheckRange rejects a reporting period that starts after it ends or that
// reaches into the future.
func CheckRange(r DateRange, now time.Time) SubmitPolicy {
	if err := r.Validate(); err != nil {
		return deny("start_after_end")
	}
	if r.End.After(now) {
		return deny("end_in_future")
	}
	return allow()
}

func validDocumentType(t string) bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

func positive(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

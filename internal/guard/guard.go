// Package guard decides, per navigation, whether a protected view renders
// or the user is sent to the login or forbidden page.
package guard

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

const (
	LoginPath     = "/login"
	ForbiddenPath = "/unauthorized"
	// FromParam carries the originally requested path to the login page.
	FromParam = "from"
)

var (
	ErrLoginRequired = errors.New("login_required")
	ErrForbidden     = errors.New("forbidden")
)

// Authorizer is the read side of a session.
type Authorizer interface {
	IsAuthenticated() bool
	HasRole(role string) bool
}

type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case RedirectForbidden:
		return "redirect_forbidden"
	default:
		return "unknown"
	}
}

// Decision is the terminal state of one navigation attempt.
type Decision struct {
	Outcome  Outcome
	Location string
	// From is the requested path, set only for RedirectLogin.
	From string
}

// Decide resolves a navigation in a single synchronous pass. An empty roles
// set means any authenticated user; otherwise one matching role suffices.
// A nil Authorizer is treated as no session.
func Decide(a Authorizer, requested string, roles []string) Decision {
	if a == nil || !a.IsAuthenticated() {
		return Decision{Outcome: RedirectLogin, Location: LoginPath, From: requested}
	}
	if len(roles) > 0 && !slices.ContainsFunc(roles, a.HasRole) {
		return Decision{Outcome: RedirectForbidden, Location: ForbiddenPath}
	}
	return Decision{Outcome: Render}
}

// RedirectURL is the target for redirect outcomes, with the return context
// encoded as a query parameter on the login path.
func (d Decision) RedirectURL() string {
	if d.Outcome == RedirectLogin && d.From != "" {
		return d.Location + "?" + url.Values{FromParam: {d.From}}.Encode()
	}
	return d.Location
}

// Err maps redirect outcomes to errors for callers without redirects.
func (d Decision) Err() error {
	switch d.Outcome {
	case RedirectLogin:
		return ErrLoginRequired
	case RedirectForbidden:
		return ErrForbidden
	default:
		return nil
	}
}

// ReturnPath validates a return context before it is used as a redirect
// target. Only local absolute paths are accepted; anything else yields "/".
func ReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, `/\`) {
		return "/"
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	if u.Path == LoginPath {
		return "/"
	}
	return from
}

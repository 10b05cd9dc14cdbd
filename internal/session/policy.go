package session

import (
	"errors"
	"time"
)

// Policy answers authentication and role questions from the token store.
// Nothing is cached: every call re-reads and re-decodes the stored token,
// so a login or logout is visible to the very next check.
type Policy struct {
	store   TokenStore
	decoder *Decoder
	now     func() time.Time
}

type PolicyOption func(*Policy)

// WithClock overrides the wall clock used for expiry checks.
func WithClock(now func() time.Time) PolicyOption {
	return func(p *Policy) { p.now = now }
}

func NewPolicy(store TokenStore, decoder *Decoder, opts ...PolicyOption) *Policy {
	p := &Policy{store: store, decoder: decoder, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CurrentUser decodes the stored token. It returns ErrNoSession when no
// token is stored and ErrMalformedToken when the stored value is not a token.
func (p *Policy) CurrentUser() (*Claims, error) {
	token, ok := p.store.Get()
	if !ok {
		return nil, ErrNoSession
	}
	return p.decoder.Decode(token)
}

// IsAuthenticated is true iff a well-formed token is stored and its expiry
// lies strictly after now. A token expiring at exactly now is invalid.
func (p *Policy) IsAuthenticated() bool {
	claims, err := p.CurrentUser()
	if err != nil {
		return false
	}
	return claims.ExpiresAt*1000 > float64(p.now().UnixMilli())
}

// HasRole reports role membership regardless of whether the token carried
// one role or a list. It does not look at expiry.
func (p *Policy) HasRole(role string) bool {
	claims, err := p.CurrentUser()
	if err != nil {
		return false
	}
	return claims.Role.Contains(role)
}

// IsMalformed reports whether a token is stored but cannot be decoded.
func (p *Policy) IsMalformed() bool {
	_, err := p.CurrentUser()
	return errors.Is(err, ErrMalformedToken)
}

package session

import (
	"context"
	"errors"
	"fmt"
)

var ErrLoginFailed = errors.New("login_failed")

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// CredentialBinder is the request-issuing side that must carry the token.
type CredentialBinder interface {
	SetBearer(token string)
	ClearBearer()
}

// Session ties a token store to the API client binding and the policy
// that reads it. Build one with New before mounting guards or views.
type Session struct {
	store  TokenStore
	binder CredentialBinder
	auth   Authenticator
	policy *Policy
}

// New hydrates the binder from any token already in store, so a restart
// (or a fresh page load) keeps the previous login.
func New(store TokenStore, binder CredentialBinder, auth Authenticator, opts ...PolicyOption) *Session {
	s := &Session{
		store:  store,
		binder: binder,
		auth:   auth,
		policy: NewPolicy(store, NewDecoder(), opts...),
	}
	if token, ok := store.Get(); ok {
		binder.SetBearer(token)
	}
	return s
}

// Login stores the issued token and rebinds the client immediately.
// Any failure from the authenticator is reported as ErrLoginFailed.
func (s *Session) Login(ctx context.Context, username, password string) error {
	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if err := s.store.Set(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.binder.SetBearer(token)
	return nil
}

// Logout drops the token and the bearer header. The header is removed even
// if the store fails to clear.
func (s *Session) Logout() error {
	err := s.store.Clear()
	s.binder.ClearBearer()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Session) Policy() *Policy { return s.policy }

func (s *Session) CurrentUser() (*Claims, error) { return s.policy.CurrentUser() }

func (s *Session) IsAuthenticated() bool { return s.policy.IsAuthenticated() }

func (s *Session) HasRole(role string) bool { return s.policy.HasRole(role) }

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

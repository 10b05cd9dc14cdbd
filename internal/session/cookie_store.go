package session

import (
	"net/http"
	"time"
)

// CookieOptions controls the attributes of the token cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// CookieStore keeps the token in the browser as an HttpOnly cookie.
// It is bound to a single request: writes go out as Set-Cookie headers and
// are also remembered, so a later Get in the same request sees them.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	written bool
	token   string
	ok      bool
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{w: w, r: r, opts: opts}
}

func (s *CookieStore) Get() (string, bool) {
	if s.written {
		return s.token, s.ok
	}
	c, err := s.r.Cookie(TokenKey)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Set(token string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenKey,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.opts.MaxAge.Seconds()),
	})
	s.written, s.token, s.ok = true, token, true
	return nil
}

func (s *CookieStore) Clear() error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenKey,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	s.written, s.token, s.ok = true, "", false
	return nil
}

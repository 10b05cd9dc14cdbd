package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storesUnderTest(t *testing.T) map[string]TokenStore {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return map[string]TokenStore{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "expensectl")),
		"cookie": NewCookieStore(httptest.NewRecorder(), req, CookieOptions{MaxAge: time.Hour}),
	}
}

func TestTokenStore_RoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := store.Get()
			assert.False(t, ok)

			require.NoError(t, store.Set("not-even-a-jwt"))
			got, ok := store.Get()
			assert.True(t, ok)
			assert.Equal(t, "not-even-a-jwt", got)

			require.NoError(t, store.Set("second"))
			got, _ = store.Get()
			assert.Equal(t, "second", got)
		})
	}
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("abc"))

			require.NoError(t, store.Clear())
			_, ok := store.Get()
			assert.False(t, ok)

			require.NoError(t, store.Clear())
			_, ok = store.Get()
			assert.False(t, ok)
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewFileStore(dir).Set("tok123"))

	got, ok := NewFileStore(dir).Get()
	assert.True(t, ok)
	assert.Equal(t, "tok123", got)

	info, err := os.Stat(filepath.Join(dir, TokenKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCookieStore_ReadsRequestCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenKey, Value: "from-browser"})

	s := NewCookieStore(httptest.NewRecorder(), req, CookieOptions{})
	got, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "from-browser", got)
}

func TestCookieStore_SetWritesCookieAttributes(t *testing.T) {
	rr := httptest.NewRecorder()
	s := NewCookieStore(rr, httptest.NewRequest(http.MethodGet, "/", nil), CookieOptions{Secure: true, MaxAge: 10 * time.Minute})

	require.NoError(t, s.Set("tok"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, TokenKey, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 600, c.MaxAge)
}

func TestCookieStore_ClearExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenKey, Value: "old"})
	rr := httptest.NewRecorder()
	s := NewCookieStore(rr, req, CookieOptions{})

	require.NoError(t, s.Clear())

	_, ok := s.Get()
	assert.False(t, ok, "cleared token must not be read back from the request cookie")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/guard"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/internal/session/sessiontest"
)

type fakeAPI struct {
	*httptest.Server
	token string

	mu       sync.Mutex
	lastAuth string
	lastPath string
}

func (f *fakeAPI) last() (path, auth string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath, f.lastAuth
}

func newFakeAPI(t *testing.T, token string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{token: token}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.lastPath = r.URL.Path
		f.mu.Unlock()
		switch r.URL.Path {
		case "/api/auth/login":
			var body struct{ Password string }
			json.NewDecoder(r.Body).Decode(&body)
			if body.Password != "correct" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"token": f.token})
		case "/api/Funds":
			w.Write([]byte(`[{"id":7,"name":"Caja Chica","currentBalance":99.5}]`))
		case "/api/Movements/movimientos-usuario", "/api/Movements/movimientos-todos":
			w.Write([]byte(`[
				{"user":"ana","movementType":"Deposit","date":"2024-06-03T00:00:00Z","fund":"Caja Chica","amount":100},
				{"user":"luis","movementType":"Expense","date":"2024-06-04T00:00:00Z","fund":"Caja Chica","amount":40,"expenseType":"Transporte"}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

type result struct {
	out string
	err error
}

func run(t *testing.T, api *fakeAPI, dir, stdin string, args ...string) result {
	t.Helper()
	cmd := NewRoot()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api", api.URL + "/api", "--token-dir", dir}, args...))
	err := cmd.Execute()
	return result{out: out.String(), err: err}
}

func assertNoCall(t *testing.T, api *fakeAPI) {
	t.Helper()
	path, _ := api.last()
	assert.Empty(t, path, "no request should reach the API")
}

func storeToken(t *testing.T, dir, token string) {
	t.Helper()
	require.NoError(t, session.NewFileStore(dir).Set(token))
}

func TestLogin_PersistsToken(t *testing.T) {
	token := sessiontest.UserToken(t, "luis", "User", time.Hour)
	api := newFakeAPI(t, token)
	dir := t.TempDir()

	res := run(t, api, dir, "", "login", "luis", "-p", "correct")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Sesión iniciada como Test luis")

	b, err := os.ReadFile(filepath.Join(dir, session.TokenKey))
	require.NoError(t, err)
	assert.Equal(t, token, string(b))
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	api := newFakeAPI(t, sessiontest.UserToken(t, "luis", "User", time.Hour))
	res := run(t, api, t.TempDir(), "correct\n", "login", "luis")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Sesión iniciada")
}

func TestLogin_BadCredentials(t *testing.T) {
	api := newFakeAPI(t, "unused")
	dir := t.TempDir()

	res := run(t, api, dir, "", "login", "luis", "-p", "wrong")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, session.ErrLoginFailed)

	_, err := os.Stat(filepath.Join(dir, session.TokenKey))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGuardedCommands_RequireLogin(t *testing.T) {
	api := newFakeAPI(t, "unused")
	for _, name := range []string{"funds", "whoami", "movements"} {
		t.Run(name, func(t *testing.T) {
			res := run(t, api, t.TempDir(), "", name)
			require.Error(t, res.err)
			assert.ErrorIs(t, res.err, guard.ErrLoginRequired)
			assert.Contains(t, res.err.Error(), "expensectl "+name)
			assertNoCall(t, api)
		})
	}
}

func TestExpiredToken_IsNoSession(t *testing.T) {
	api := newFakeAPI(t, "unused")
	dir := t.TempDir()
	storeToken(t, dir, sessiontest.UserToken(t, "luis", "User", -time.Minute))

	res := run(t, api, dir, "", "funds")
	assert.ErrorIs(t, res.err, guard.ErrLoginRequired)
}

func TestFunds_SendsStoredBearer(t *testing.T) {
	token := sessiontest.UserToken(t, "luis", "User", time.Hour)
	api := newFakeAPI(t, token)
	dir := t.TempDir()
	storeToken(t, dir, token)

	res := run(t, api, dir, "", "funds")
	require.NoError(t, res.err)
	_, auth := api.last()
	assert.Equal(t, "Bearer "+token, auth)
	assert.Contains(t, res.out, "Caja Chica")
	assert.Contains(t, res.out, "99.50")
}

func TestWhoami(t *testing.T) {
	api := newFakeAPI(t, "unused")
	dir := t.TempDir()
	storeToken(t, dir, sessiontest.UserToken(t, "ana", []string{"Admin", "User"}, time.Hour))

	res := run(t, api, dir, "", "whoami")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "ana")
	assert.Contains(t, res.out, "Admin, User")
}

func TestMovements(t *testing.T) {
	t.Run("own listing", func(t *testing.T) {
		api := newFakeAPI(t, "unused")
		dir := t.TempDir()
		storeToken(t, dir, sessiontest.UserToken(t, "luis", "User", time.Hour))

		res := run(t, api, dir, "", "movements", "--from", "2024-06-01", "--to", "2024-06-30")
		require.NoError(t, res.err)
		path, _ := api.last()
		assert.Equal(t, "/api/Movements/movimientos-usuario", path)
		assert.Contains(t, res.out, "Transporte")
		assert.Contains(t, res.out, "Depósitos: 100.00  Gastos: 40.00  Movimientos: 2")
		assert.NotContains(t, res.out, "USUARIO")
	})

	t.Run("all requires admin", func(t *testing.T) {
		api := newFakeAPI(t, "unused")
		dir := t.TempDir()
		storeToken(t, dir, sessiontest.UserToken(t, "luis", "User", time.Hour))

		res := run(t, api, dir, "", "movements", "--all")
		assert.ErrorIs(t, res.err, guard.ErrForbidden)
		assert.Contains(t, res.err.Error(), "--all")
		assertNoCall(t, api)
	})

	t.Run("all for admin", func(t *testing.T) {
		api := newFakeAPI(t, "unused")
		dir := t.TempDir()
		storeToken(t, dir, sessiontest.UserToken(t, "ana", "Admin", time.Hour))

		res := run(t, api, dir, "", "movements", "--all", "--from", "2024-06-01", "--to", "2024-06-30")
		require.NoError(t, res.err)
		path, _ := api.last()
		assert.Equal(t, "/api/Movements/movimientos-todos", path)
		assert.Contains(t, res.out, "USUARIO")
	})

	t.Run("inverted range stays local", func(t *testing.T) {
		api := newFakeAPI(t, "unused")
		dir := t.TempDir()
		storeToken(t, dir, sessiontest.UserToken(t, "luis", "User", time.Hour))

		res := run(t, api, dir, "", "movements", "--from", "2024-06-10", "--to", "2024-06-01")
		assert.ErrorIs(t, res.err, domain.ErrInvalidRange)
		assertNoCall(t, api)
	})

	t.Run("bad date", func(t *testing.T) {
		api := newFakeAPI(t, "unused")
		dir := t.TempDir()
		storeToken(t, dir, sessiontest.UserToken(t, "luis", "User", time.Hour))

		res := run(t, api, dir, "", "movements", "--from", "01/06/2024")
		assert.ErrorContains(t, res.err, "invalid --from")
	})
}

func TestLogout_RemovesToken(t *testing.T) {
	api := newFakeAPI(t, "unused")
	dir := t.TempDir()
	storeToken(t, dir, sessiontest.UserToken(t, "luis", "User", time.Hour))

	res := run(t, api, dir, "", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Sesión cerrada")

	_, err := os.Stat(filepath.Join(dir, session.TokenKey))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	res = run(t, api, dir, "", "funds")
	assert.ErrorIs(t, res.err, guard.ErrLoginRequired)
}

func TestMissingAPIURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	cmd := NewRoot()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--token-dir", t.TempDir(), "logout"})
	assert.ErrorContains(t, cmd.Execute(), "missing API base URL")
}

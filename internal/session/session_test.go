package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/expense-web/internal/session/sessiontest"
)

type mockBinder struct {
	mock.Mock
}

func (m *mockBinder) SetBearer(token string) { m.Called(token) }
func (m *mockBinder) ClearBearer()           { m.Called() }

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func TestNew_HydratesBinderFromPersistedToken(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("persisted"))

	b := new(mockBinder)
	b.On("SetBearer", "persisted").Once()

	New(store, b, new(mockAuthenticator))
	b.AssertExpectations(t)
}

func TestNew_EmptyStoreLeavesBinderAlone(t *testing.T) {
	b := new(mockBinder)
	New(NewMemoryStore(), b, new(mockAuthenticator))
	b.AssertNotCalled(t, "SetBearer", mock.Anything)
}

func TestLogin_StoresTokenAndRebinds(t *testing.T) {
	ctx := context.Background()
	tok := sessiontest.UserToken(t, "5", "User", time.Hour)

	store := NewMemoryStore()
	b := new(mockBinder)
	b.On("SetBearer", tok).Once()
	a := new(mockAuthenticator)
	a.On("Login", ctx, "ana", "secret").Return(tok, nil)

	s := New(store, b, a)
	require.NoError(t, s.Login(ctx, "ana", "secret"))

	got, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, tok, got)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.HasRole("User"))
	b.AssertExpectations(t)
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	b := new(mockBinder)
	a := new(mockAuthenticator)
	a.On("Login", ctx, "ana", "wrong").Return("", errors.New("401"))

	s := New(store, b, a)
	err := s.Login(ctx, "ana", "wrong")

	assert.ErrorIs(t, err, ErrLoginFailed)
	_, ok := store.Get()
	assert.False(t, ok)
	b.AssertNotCalled(t, "SetBearer", mock.Anything)
}

func TestLogout_ClearsStoreAndBinder(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(sessiontest.UserToken(t, "5", "User", time.Hour)))

	b := new(mockBinder)
	b.On("SetBearer", mock.Anything)
	b.On("ClearBearer").Twice()

	s := New(store, b, new(mockAuthenticator))
	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())

	assert.False(t, s.IsAuthenticated())
	_, ok := store.Get()
	assert.False(t, ok)
	b.AssertExpectations(t)
}

func TestContext_RoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := New(NewMemoryStore(), new(mockBinder), new(mockAuthenticator))
	got, ok := FromContext(WithSession(context.Background(), s))
	assert.True(t, ok)
	assert.Same(t, s, got)
}

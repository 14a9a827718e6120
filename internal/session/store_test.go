package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	mu          sync.Mutex
	token       string
	name        string
	loginErr    error
	logoutErr   error
	loginCalls  int
	logoutCalls int
}

func (f *fakeAuth) Login(_ context.Context, actor ActorKind, _ LoginRequest) (*Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &Credential{Token: f.token, Actor: actor, DisplayName: f.name}, nil
}

func (f *fakeAuth) Logout(context.Context, ActorKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

var userReq = LoginRequest{Email: "ada@example.com", Password: "hunter2"}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Login Then Restore", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		auth := &fakeAuth{token: "tok-1", name: "Ada"}

		cred, err := store.Login(ctx, auth, EndUser, userReq)
		require.NoError(t, err)

		restored, ok := store.Restore(EndUser)
		require.True(t, ok)
		assert.Equal(t, cred, restored)
		assert.Equal(t, Authenticated, store.Phase(EndUser))
		assert.Equal(t, State{Authenticated: true, DisplayName: "Ada"}, store.State(EndUser))
	})

	t.Run("Actors Are Independent", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		_, err := store.Login(ctx, &fakeAuth{token: "user-tok"}, EndUser, userReq)
		require.NoError(t, err)
		_, err = store.Login(ctx, &fakeAuth{token: "admin-tok"}, Admin, LoginRequest{Username: "root", Password: "pw"})
		require.NoError(t, err)

		store.Invalidate(Admin)

		assert.Equal(t, "user-tok", store.Token(EndUser))
		assert.Empty(t, store.Token(Admin))
	})

	t.Run("Failed Login Stays Anonymous With Server Message", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		_, err := store.Login(ctx, &fakeAuth{token: "old"}, EndUser, userReq)
		require.NoError(t, err)

		serverErr := errors.New("Incorrect email or password")
		_, err = store.Login(ctx, &fakeAuth{loginErr: serverErr}, EndUser, userReq)

		assert.Equal(t, serverErr, err)
		assert.Equal(t, Anonymous, store.Phase(EndUser))
		_, ok := store.Restore(EndUser)
		assert.False(t, ok)
	})

	t.Run("Missing Token Is Never Fabricated", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		_, err := store.Login(ctx, &fakeAuth{token: "  "}, EndUser, userReq)

		assert.ErrorIs(t, err, shared.ErrMissingToken)
		assert.Equal(t, Anonymous, store.Phase(EndUser))
	})

	t.Run("Invalid Input Skips The Network", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		auth := &fakeAuth{token: "tok"}

		_, err := store.Login(ctx, auth, EndUser, LoginRequest{Email: "not-an-email", Password: "pw"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = store.Login(ctx, auth, Admin, LoginRequest{Email: "ada@example.com", Password: "pw"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Zero(t, auth.loginCalls)
	})

	t.Run("Logout Clears Even When The Server Fails", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		auth := &fakeAuth{token: "tok", logoutErr: errors.New("connection refused")}
		_, err := store.Login(ctx, auth, EndUser, userReq)
		require.NoError(t, err)

		require.NoError(t, store.Logout(ctx, auth, EndUser))

		_, ok := store.Restore(EndUser)
		assert.False(t, ok)
		assert.Equal(t, 1, auth.logoutCalls)
		assert.Equal(t, Anonymous, store.Phase(EndUser))
	})

	t.Run("Logout Without Session Skips The Server", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		auth := &fakeAuth{}

		require.NoError(t, store.Logout(ctx, auth, EndUser))
		assert.Zero(t, auth.logoutCalls)
	})

	t.Run("CacheDisplayName", func(t *testing.T) {
		store := NewStore(nil, quietLogger())
		assert.ErrorIs(t, store.CacheDisplayName(EndUser, "Ada"), shared.ErrNotAuthenticated)

		_, err := store.Login(ctx, &fakeAuth{token: "tok"}, EndUser, userReq)
		require.NoError(t, err)
		require.NoError(t, store.CacheDisplayName(EndUser, "Ada L."))
		assert.Equal(t, "Ada L.", store.State(EndUser).DisplayName)
	})

	t.Run("Persists Through The Backend", func(t *testing.T) {
		backend := NewMemoryBackend()
		_, err := NewStore(backend, quietLogger()).Login(ctx, &fakeAuth{token: "tok", name: "Ada"}, EndUser, userReq)
		require.NoError(t, err)

		reopened := NewStore(backend, quietLogger())
		cred, ok := reopened.Restore(EndUser)
		require.True(t, ok)
		assert.Equal(t, "tok", cred.Token)
		assert.Equal(t, "Ada", cred.DisplayName)
	})
}

type fakeRecorder struct{ events []string }

func (f *fakeRecorder) Record(actor, event, _ string) error {
	f.events = append(f.events, actor+":"+event)
	return nil
}

func TestStoreRecorder(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	store := NewStore(nil, quietLogger()).WithRecorder(rec)
	auth := &fakeAuth{token: "tok"}

	_, err := store.Login(ctx, auth, EndUser, userReq)
	require.NoError(t, err)
	store.Invalidate(EndUser)
	_, err = store.Login(ctx, auth, Admin, LoginRequest{Username: "root", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, store.Logout(ctx, auth, Admin))
	_, err = store.Login(ctx, auth, EndUser, userReq)
	require.NoError(t, err)
	store.Expire(EndUser)
	store.Expire(EndUser)
	_, err = store.Login(ctx, auth, EndUser, userReq)
	require.NoError(t, err)
	store.Forget(EndUser)

	assert.Equal(t, []string{
		"user:login", "user:invalidated", "admin:login", "admin:logout",
		"user:login", "user:expired", "user:login", "user:forgotten",
	}, rec.events)
}

func TestActors(t *testing.T) {
	t.Run("ActorForPath", func(t *testing.T) {
		assert.Equal(t, Admin, ActorForPath("/manager/artists"))
		assert.Equal(t, Admin, ActorForPath("/api/manager/auth/login"))
		assert.Equal(t, EndUser, ActorForPath("/managers"))
		assert.Equal(t, EndUser, ActorForPath("/songs/search"))
		assert.Equal(t, EndUser, ActorForPath("user/playlists"))
	})

	t.Run("ParseActorKind", func(t *testing.T) {
		a, err := ParseActorKind("ADMIN")
		require.NoError(t, err)
		assert.Equal(t, Admin, a)

		_, err = ParseActorKind("guest")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

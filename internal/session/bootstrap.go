package session

import (
	"context"
)

// Bootstrap decides the initial state of actor when a protected view is entered.
//
// Without a persisted credential it returns anonymous at once, without a network call. Otherwise the end-user
// credential is checked with verifier: a live session caches the returned display name, while a dead session or
// any error expires the credential. The returned error is informational; the state is always usable.
//
// The management namespace exposes no verification endpoint, so an admin credential is trusted until a request
// is rejected with 401.
func Bootstrap(ctx context.Context, store *Store, verifier Verifier, actor ActorKind) (State, error) {
	cred, ok := store.Restore(actor)
	if !ok {
		return State{}, nil
	}
	if actor == Admin || verifier == nil {
		return State{Authenticated: true, DisplayName: cred.DisplayName}, nil
	}

	loggedIn, name, err := verifier.VerifySession(ctx)
	if err != nil {
		store.Expire(actor)
		return State{}, err
	}
	if !loggedIn {
		store.Expire(actor)
		return State{}, nil
	}

	if name == "" {
		name = cred.DisplayName
	}
	if err := store.CacheDisplayName(actor, name); err != nil {
		store.Logger().Warn("failed to cache display name", "error", err)
	}
	return State{Authenticated: true, DisplayName: name}, nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mcat/internal/shared"
)

// Store owns the credential of each actor and its login state machine:
//
//	Anonymous -> Authenticating -> Authenticated -> Anonymous
//
// Logins of one actor never touch the other actor's entries.
type Store struct {
	mu             sync.Mutex
	backend        Backend
	authenticating map[ActorKind]bool
	recorder       Recorder
	logger         *log.Logger
}

// Recorder keeps an audit trail of session transitions.
type Recorder interface {
	Record(actor, event, detail string) error
}

// Transition events passed to a [Recorder].
const (
	EventLogin       = "login"
	EventLogout      = "logout"
	EventInvalidated = "invalidated"
	EventForgotten   = "forgotten"
	EventExpired     = "expired"
)

// NewStore creates a [Store] over backend. A nil backend keeps credentials in memory.
func NewStore(backend Backend, logger *log.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		backend:        backend,
		authenticating: map[ActorKind]bool{},
		logger:         logger,
	}
}

// WithRecorder attaches an audit trail to the store and returns it.
func (s *Store) WithRecorder(r Recorder) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
	return s
}

// SetLogger replaces the store's logger.
func (s *Store) SetLogger(l *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Phase returns where actor stands in the state machine.
func (s *Store) Phase(actor ActorKind) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authenticating[actor] {
		return Authenticating
	}
	if _, ok := s.restore(actor); ok {
		return Authenticated
	}
	return Anonymous
}

// Login validates req, calls the actor's login endpoint and persists the issued credential.
//
// Any previous credential of the actor is dropped first, so a failed login leaves the actor Anonymous. Server
// messages are returned unchanged.
func (s *Store) Login(ctx context.Context, auth Authenticator, actor ActorKind, req LoginRequest) (*Credential, error) {
	if err := req.Validate(actor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.authenticating[actor] {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s login already in progress", shared.ErrInvalidArgument, actor)
	}
	s.authenticating[actor] = true
	s.clear(actor)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.authenticating, actor)
		s.mu.Unlock()
	}()

	cred, err := auth.Login(ctx, actor, req)
	if err != nil {
		s.logger.Debug("login failed", "actor", actor, "error", err)
		return nil, err
	}
	if cred == nil || strings.TrimSpace(cred.Token) == "" {
		return nil, shared.ErrMissingToken
	}

	saved := Credential{Token: cred.Token, Actor: actor, DisplayName: cred.DisplayName}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(saved); err != nil {
		s.clear(actor)
		return nil, err
	}
	s.logger.Info("logged in", "actor", actor, "name", saved.DisplayName)
	s.record(actor, EventLogin, saved.DisplayName)
	return &saved, nil
}

// Logout notifies the server on a best-effort basis and then clears the local credential unconditionally.
//
// A failed server call is logged, never returned: only a failure to clear local state is an error.
func (s *Store) Logout(ctx context.Context, auth Authenticator, actor ActorKind) error {
	if _, ok := s.Restore(actor); ok && auth != nil {
		if err := auth.Logout(ctx, actor); err != nil {
			s.logger.Warn("server logout failed, clearing local session anyway", "actor", actor, "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Clear(actor.String()); err != nil {
		return fmt.Errorf("failed to clear %s session: %w", actor, err)
	}
	s.logger.Info("logged out", "actor", actor)
	s.record(actor, EventLogout, "")
	return nil
}

// Restore returns the persisted credential of actor without contacting the server.
func (s *Store) Restore(actor ActorKind) (*Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restore(actor)
}

// Token returns the bearer token of actor, or "" when the actor is anonymous.
func (s *Store) Token(actor ActorKind) string {
	if cred, ok := s.Restore(actor); ok {
		return cred.Token
	}
	return ""
}

// Invalidate drops the credential of actor after the server rejected it. An anonymous actor is left alone.
func (s *Store) Invalidate(actor ActorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restore(actor); !ok {
		return
	}
	s.clear(actor)
	s.logger.Warn("session invalidated by server", "actor", actor)
	s.record(actor, EventInvalidated, "")
}

// Expire drops a restored credential of actor that failed verification at startup. An anonymous actor is left
// alone, so a credential the pipeline already invalidated is not recorded twice.
func (s *Store) Expire(actor ActorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restore(actor); !ok {
		return
	}
	s.clear(actor)
	s.logger.Info("stored session expired", "actor", actor)
	s.record(actor, EventExpired, "")
}

// Forget drops the credential of actor after its account was deleted.
func (s *Store) Forget(actor ActorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear(actor)
	s.logger.Info("session forgotten", "actor", actor)
	s.record(actor, EventForgotten, "")
}

// CacheDisplayName updates the cached profile name of a logged in actor.
func (s *Store) CacheDisplayName(actor ActorKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restore(actor); !ok {
		return shared.ErrNotAuthenticated
	}
	return s.backend.Set(actor.String(), KeyDisplayName, name)
}

// Logger returns the store's current logger.
func (s *Store) Logger() *log.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger
}

// State projects the stored credential of actor for display.
func (s *Store) State(actor ActorKind) State {
	cred, ok := s.Restore(actor)
	if !ok {
		return State{}
	}
	return State{Authenticated: true, DisplayName: cred.DisplayName}
}

func (s *Store) restore(actor ActorKind) (*Credential, bool) {
	token, err := s.backend.Get(actor.String(), KeyToken)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to read session", "actor", actor, "error", err)
		}
		return nil, false
	}
	if token == "" {
		return nil, false
	}
	name, _ := s.backend.Get(actor.String(), KeyDisplayName)
	return &Credential{Token: token, Actor: actor, DisplayName: name}, true
}

func (s *Store) persist(c Credential) error {
	if err := s.backend.Set(c.Actor.String(), KeyToken, c.Token); err != nil {
		return fmt.Errorf("failed to save %s session: %w", c.Actor, err)
	}
	if err := s.backend.Set(c.Actor.String(), KeyDisplayName, c.DisplayName); err != nil {
		return fmt.Errorf("failed to save %s session: %w", c.Actor, err)
	}
	return nil
}

func (s *Store) clear(actor ActorKind) {
	if err := s.backend.Clear(actor.String()); err != nil {
		s.logger.Error("failed to clear session", "actor", actor, "error", err)
	}
}

func (s *Store) record(actor ActorKind, event, detail string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(actor.String(), event, detail); err != nil {
		s.logger.Warn("failed to record session event", "event", event, "error", err)
	}
}

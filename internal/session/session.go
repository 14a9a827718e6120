// package session keeps the per-actor credentials of the catalog client and drives the login state machine.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mcat/internal/shared"
)

// ActorKind selects one of the two independent credential namespaces.
type ActorKind int

const (
	EndUser ActorKind = iota
	Admin
)

func (a ActorKind) String() string {
	if a == Admin {
		return "admin"
	}
	return "user"
}

// ParseActorKind accepts "user" or "admin".
func ParseActorKind(s string) (ActorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "":
		return EndUser, nil
	case "admin", "manager":
		return Admin, nil
	default:
		return EndUser, fmt.Errorf("%w: actor %q", shared.ErrInvalidArgument, s)
	}
}

// ActorForPath returns the actor whose credential authorizes an API path.
// The management namespace belongs to administrators, everything else to end users.
func ActorForPath(path string) ActorKind {
	path = "/" + strings.TrimLeft(path, "/")
	path = strings.TrimPrefix(path, "/api")
	if path == "/manager" || strings.HasPrefix(path, "/manager/") {
		return Admin
	}
	return EndUser
}

// Phase is the position of an actor in the login state machine.
type Phase int

const (
	Anonymous Phase = iota
	Authenticating
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return ""
	}
}

// Credential is the opaque server-issued token of one actor plus its cached profile name.
type Credential struct {
	Token       string
	Actor       ActorKind
	DisplayName string
}

// State is the UI-facing projection of a credential. It is never stored.
type State struct {
	Authenticated bool
	DisplayName   string
}

// LoginRequest carries the credentials typed by the user.
// End users sign in with Email, administrators with Username.
type LoginRequest struct {
	Email    string
	Username string
	Password string
}

type userLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the request for the given actor before any network call.
func (r LoginRequest) Validate(actor ActorKind) error {
	if actor == Admin {
		return shared.ValidateStruct(adminLogin{Username: strings.TrimSpace(r.Username), Password: r.Password})
	}
	return shared.ValidateStruct(userLogin{Email: strings.TrimSpace(r.Email), Password: r.Password})
}

// Authenticator performs the server side of login and logout.
type Authenticator interface {
	// Login returns the server-issued credential. Token must come from the response.
	Login(ctx context.Context, actor ActorKind, req LoginRequest) (*Credential, error)
	Logout(ctx context.Context, actor ActorKind) error
}

// Verifier asks the server whether the end-user credential is still live.
type Verifier interface {
	VerifySession(ctx context.Context) (loggedIn bool, displayName string, err error)
}

package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
)

// AuthService talks to the login, logout and session endpoints of both actors.
//
// It implements [session.Authenticator] and [session.Verifier].
type AuthService struct {
	api API
}

// NewAuthService creates an [AuthService].
func NewAuthService(api API) *AuthService {
	return &AuthService{api: api}
}

type userLoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userLoginData struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Token    string `json:"token"`
}

type adminLoginData struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type sessionCheck struct {
	IsLoggedIn bool         `json:"isLoggedIn"`
	User       *models.User `json:"user,omitempty"`
}

// Login posts the typed credentials and returns the server-issued token. The token is never synthesized.
func (s *AuthService) Login(ctx context.Context, actor session.ActorKind, req session.LoginRequest) (*session.Credential, error) {
	if actor == session.Admin {
		body := adminLoginBody{Username: strings.TrimSpace(req.Username), Password: req.Password}
		data, err := call[adminLoginData](ctx, s.api, http.MethodPost, "/manager/auth/login", body)
		if err != nil {
			return nil, err
		}
		if data.Token == "" {
			return nil, shared.ErrMissingToken
		}
		name := data.Username
		if name == "" {
			name = body.Username
		}
		return &session.Credential{Token: data.Token, Actor: actor, DisplayName: name}, nil
	}

	body := userLoginBody{Email: strings.TrimSpace(req.Email), Password: req.Password}
	data, err := call[userLoginData](ctx, s.api, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, err
	}
	if data.Token == "" {
		return nil, shared.ErrMissingToken
	}
	return &session.Credential{Token: data.Token, Actor: actor, DisplayName: data.Nickname}, nil
}

// Logout tells the server to end the actor's session.
func (s *AuthService) Logout(ctx context.Context, actor session.ActorKind) error {
	path := "/auth/logout"
	if actor == session.Admin {
		path = "/manager/auth/logout"
	}
	return s.api.Do(ctx, http.MethodPost, path, nil, nil)
}

// VerifySession asks the server whether the end-user credential is still live.
func (s *AuthService) VerifySession(ctx context.Context) (bool, string, error) {
	var check sessionCheck
	if err := s.api.Do(ctx, http.MethodGet, "/auth/session", nil, &check); err != nil {
		return false, "", err
	}
	if !check.IsLoggedIn {
		return false, "", nil
	}

	name := ""
	if check.User != nil {
		name = check.User.Nickname
	}
	return true, name, nil
}

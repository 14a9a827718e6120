package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
)

// PlaylistTab selects a list on the account page.
type PlaylistTab string

const (
	TabOwned    PlaylistTab = "owned"
	TabShared   PlaylistTab = "shared"
	TabEditable PlaylistTab = "editable"
)

// ParsePlaylistTab accepts owned, shared or editable.
func ParsePlaylistTab(s string) (PlaylistTab, error) {
	switch tab := PlaylistTab(strings.ToLower(strings.TrimSpace(s))); tab {
	case TabOwned, TabShared, TabEditable:
		return tab, nil
	case "":
		return TabOwned, nil
	default:
		return "", fmt.Errorf("%w: playlist tab %q (want owned, shared or editable)", shared.ErrInvalidArgument, s)
	}
}

// PasswordChange is the body of a password update.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
}

type nicknameChange struct {
	Nickname string `json:"nickname" validate:"required,max=32"`
}

// AccountService manages the signed in end user's account.
//
// Profile changes are mirrored into the session store so the cached display name stays current.
type AccountService struct {
	api   API
	store *session.Store
}

// NewAccountService creates an [AccountService].
func NewAccountService(api API, store *session.Store) *AccountService {
	return &AccountService{api: api, store: store}
}

// Playlists lists the user's playlists on tab.
func (s *AccountService) Playlists(ctx context.Context, tab PlaylistTab) ([]models.Playlist, error) {
	data, err := get[struct {
		Playlists []models.Playlist `json:"playlists"`
	}](ctx, s.api, "/user/playlists?tab="+url.QueryEscape(string(tab)))
	if err != nil {
		return nil, err
	}
	return data.Playlists, nil
}

// Comments lists the comments the user has written.
func (s *AccountService) Comments(ctx context.Context) ([]models.Comment, error) {
	data, err := get[struct {
		Comments []models.Comment `json:"comments"`
	}](ctx, s.api, "/user/comments")
	if err != nil {
		return nil, err
	}
	return data.Comments, nil
}

// ChangePassword updates the password. Input is checked before any request is sent.
func (s *AccountService) ChangePassword(ctx context.Context, change PasswordChange) error {
	if err := shared.ValidateStruct(change); err != nil {
		return err
	}
	return s.api.Do(ctx, http.MethodPut, "/user/password", change, nil)
}

// ChangeNickname updates the nickname and the cached display name.
func (s *AccountService) ChangeNickname(ctx context.Context, nickname string) error {
	body := nicknameChange{Nickname: strings.TrimSpace(nickname)}
	if err := shared.ValidateStruct(body); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPut, "/user/nickname", body, nil); err != nil {
		return err
	}
	return s.store.CacheDisplayName(session.EndUser, body.Nickname)
}

// DeleteAccount deletes the account and forgets its credential.
func (s *AccountService) DeleteAccount(ctx context.Context) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/user", nil, nil); err != nil {
		return err
	}
	s.store.Forget(session.EndUser)
	return nil
}

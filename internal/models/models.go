// package models defines the data model of the music-catalog client
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for locally persisted records.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Song is a catalog track as returned by song search and playlist detail.
type Song struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Length      int    `json:"length"` // seconds
	ReleaseDate string `json:"date"`   // YYYY-MM-DD
	Provider    string `json:"provider"`
}

// Playlist is a playlist summary.
type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Owner        string `json:"owner"`
	SongCount    int    `json:"songCount"`
	CommentCount int    `json:"commentCount"`
	Length       int    `json:"length"` // total seconds
	Rank         int    `json:"rank,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// PlaylistDetail is a playlist with its songs.
type PlaylistDetail struct {
	Playlist
	Description string `json:"description,omitempty"`
	Songs       []Song `json:"songs"`
}

// Artist is a performer, composer or lyricist.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Gender string   `json:"gender,omitempty"` // M, F or empty for groups
	Roles  []string `json:"roles,omitempty"`
}

// Provider is a streaming service a song can be played on.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

// SongRequest is a user's request to add a song to the catalog.
type SongRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	RequesterID string `json:"requesterId"`
	RequestedAt string `json:"date"`
}

// Comment is a comment the user left on a playlist.
type Comment struct {
	ID            string `json:"id"`
	PlaylistID    string `json:"playlistId"`
	PlaylistTitle string `json:"playlistTitle"`
	Content       string `json:"content"`
	CreatedAt     string `json:"createdAt"`
}

// User is the profile returned by login and session verification.
type User struct {
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	Nickname string `json:"nickname"`
}

// SessionEvent is one recorded session transition.
type SessionEvent struct {
	id        string
	sequence  int
	actor     string
	event     string
	detail    string
	createdAt time.Time
}

// NewSessionEvent creates an unsaved [SessionEvent].
func NewSessionEvent(actor, event, detail string) *SessionEvent {
	return &SessionEvent{actor: actor, event: event, detail: detail, createdAt: time.Now().UTC()}
}

func (e *SessionEvent) ID() string           { return e.id }
func (e *SessionEvent) Sequence() int        { return e.sequence }
func (e *SessionEvent) Actor() string        { return e.actor }
func (e *SessionEvent) Event() string        { return e.event }
func (e *SessionEvent) Detail() string       { return e.detail }
func (e *SessionEvent) CreatedAt() time.Time { return e.createdAt }

func (e *SessionEvent) SetID(id string)          { e.id = id }
func (e *SessionEvent) SetSequence(seq int)      { e.sequence = seq }
func (e *SessionEvent) SetCreatedAt(t time.Time) { e.createdAt = t }

// Validate requires an actor and an event name.
func (e *SessionEvent) Validate() error {
	if e.actor == "" {
		return fmt.Errorf("session event actor is required")
	}
	if e.event == "" {
		return fmt.Errorf("session event name is required")
	}
	return nil
}

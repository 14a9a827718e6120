package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mcat/internal/shared"
)

// SessionRepository stores session entries keyed by (actor, key).
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the value stored under key for actor, or [shared.ErrNotFound].
func (r *SessionRepository) Get(actor, key string) (string, error) {
	query := `SELECT value FROM session_entries WHERE actor = ? AND key = ?`

	var value string
	err := r.db.QueryRow(query, actor, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: session entry %s/%s", shared.ErrNotFound, actor, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session entry: %w", err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key for actor.
func (r *SessionRepository) Set(actor, key, value string) error {
	query := `
		INSERT INTO session_entries (id, actor, key, value, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (actor, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, shared.GenerateID(), actor, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save session entry: %w", err)
	}
	return nil
}

// Clear removes every entry of actor. Clearing an empty namespace is not an error.
func (r *SessionRepository) Clear(actor string) error {
	if _, err := r.db.Exec(`DELETE FROM session_entries WHERE actor = ?`, actor); err != nil {
		return fmt.Errorf("failed to clear session entries: %w", err)
	}
	return nil
}

// Actors lists the actors that currently hold entries.
func (r *SessionRepository) Actors() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT actor FROM session_entries ORDER BY actor ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session actors: %w", err)
	}
	defer rows.Close()

	var actors []string
	for rows.Next() {
		var actor string
		if err := rows.Scan(&actor); err != nil {
			return nil, fmt.Errorf("failed to scan session actor: %w", err)
		}
		actors = append(actors, actor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return actors, nil
}

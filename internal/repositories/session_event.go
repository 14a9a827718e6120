package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/shared"
)

// SessionEventRepository persists [models.SessionEvent] records.
type SessionEventRepository struct {
	db *sql.DB
}

// NewSessionEventRepository creates a new [SessionEventRepository] with the given database connection
func NewSessionEventRepository(db *sql.DB) *SessionEventRepository {
	return &SessionEventRepository{db: db}
}

// Create inserts a new event with generated ID and sequence
func (r *SessionEventRepository) Create(event *models.SessionEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "session_events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO session_events (id, sequence, actor, event, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, event.Actor(), event.Event(), event.Detail(), event.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert session event: %w", err)
	}

	event.SetID(id)
	event.SetSequence(sequence)
	return nil
}

// Record stores a transition of actor.
func (r *SessionEventRepository) Record(actor, event, detail string) error {
	return r.Create(models.NewSessionEvent(actor, event, detail))
}

// List returns the most recent events, newest first. An empty actor lists every actor; limit <= 0 means no limit.
func (r *SessionEventRepository) List(actor string, limit int) ([]*models.SessionEvent, error) {
	query := `SELECT id, sequence, actor, event, detail, created_at FROM session_events`

	args := []any{}
	if actor != "" {
		query += " WHERE actor = ?"
		args = append(args, actor)
	}

	query += " ORDER BY sequence DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session events: %w", err)
	}
	defer rows.Close()

	var events []*models.SessionEvent
	for rows.Next() {
		var (
			id, eventActor, name, detail string
			sequence                     int
			createdAt                    time.Time
		)

		if err := rows.Scan(&id, &sequence, &eventActor, &name, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan session event: %w", err)
		}

		event := models.NewSessionEvent(eventActor, name, detail)
		event.SetID(id)
		event.SetSequence(sequence)
		event.SetCreatedAt(createdAt)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

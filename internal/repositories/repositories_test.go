package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

var (
	_ session.Backend  = (*SessionRepository)(nil)
	_ session.Recorder = (*SessionEventRepository)(nil)
)

func TestSessionRepository(t *testing.T) {
	t.Run("Set And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Set("user", "token", "abc"); err != nil {
			t.Fatalf("failed to set entry: %v", err)
		}

		got, err := repo.Get("user", "token")
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if got != "abc" {
			t.Errorf("expected abc, got %s", got)
		}
	})

	t.Run("Set Replaces", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		for _, v := range []string{"first", "second"} {
			if err := repo.Set("user", "token", v); err != nil {
				t.Fatalf("failed to set entry: %v", err)
			}
		}

		got, _ := repo.Get("user", "token")
		if got != "second" {
			t.Errorf("expected second, got %s", got)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM session_entries").Scan(&count); err != nil {
			t.Fatalf("failed to count entries: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row after upsert, got %d", count)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewSessionRepository(db).Get("admin", "token")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Clear Is Scoped To Actor", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		_ = repo.Set("user", "token", "u")
		_ = repo.Set("admin", "token", "a")

		if err := repo.Clear("user"); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		if _, err := repo.Get("user", "token"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected user entry to be gone, got %v", err)
		}
		actors, err := repo.Actors()
		if err != nil {
			t.Fatalf("failed to list actors: %v", err)
		}
		if len(actors) != 1 || actors[0] != "admin" {
			t.Errorf("expected only admin to remain, got %v", actors)
		}
	})

	t.Run("Backs A Session Store", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		_ = repo.Set(session.EndUser.String(), session.KeyToken, "persisted")
		_ = repo.Set(session.EndUser.String(), session.KeyDisplayName, "Ada")

		store := session.NewStore(repo, nil)
		cred, ok := store.Restore(session.EndUser)
		if !ok {
			t.Fatal("expected credential to be restored from sqlite")
		}
		if cred.Token != "persisted" || cred.DisplayName != "Ada" {
			t.Errorf("unexpected credential %+v", cred)
		}

		store.Invalidate(session.EndUser)
		if _, ok := session.NewStore(repo, nil).Restore(session.EndUser); ok {
			t.Error("expected invalidated credential to be gone from sqlite")
		}
	})
}

func TestSessionEventRepository(t *testing.T) {
	t.Run("Create Assigns ID And Sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionEventRepository(db)
		event := models.NewSessionEvent("user", "login", "Ada")
		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if event.ID() == "" {
			t.Error("event ID should be set after creation")
		}
		if event.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", event.Sequence())
		}
	})

	t.Run("Create Validates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewSessionEventRepository(db).Create(models.NewSessionEvent("", "login", "")); err == nil {
			t.Error("expected validation error for empty actor")
		}
	})

	t.Run("List Newest First With Filter And Limit", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionEventRepository(db)
		for _, e := range [][2]string{{"user", "login"}, {"admin", "login"}, {"user", "invalidated"}, {"user", "login"}} {
			if err := repo.Record(e[0], e[1], ""); err != nil {
				t.Fatalf("failed to record event: %v", err)
			}
		}

		all, err := repo.List("", 0)
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 events, got %d", len(all))
		}
		if all[0].Sequence() != 4 {
			t.Errorf("expected newest event first, got sequence %d", all[0].Sequence())
		}

		users, err := repo.List("user", 2)
		if err != nil {
			t.Fatalf("failed to list user events: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 events, got %d", len(users))
		}
		if users[0].Event() != "login" || users[1].Event() != "invalidated" {
			t.Errorf("unexpected events %s, %s", users[0].Event(), users[1].Event())
		}
	})

	t.Run("NextSequence Missing Table", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := NextSequence(db, "nonexistent"); err == nil {
			t.Error("expected error for missing sequence table")
		}
	})
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/repositories"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := loadConfig(logger)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	store, events, db, err := openSession(config, logger)
	if err != nil {
		logger.Warn("session database unavailable, credentials will not persist", "error", err)
		store = session.NewStore(nil, logger)
	}
	if db != nil {
		defer db.Close()
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  store,
		Events: events,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "mcat",
		Usage:    "Browse, search and manage the music catalog",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("%v", err)
		}
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, csv or md (default from config)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// before applies the global flags ahead of every command.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if f := cmd.String("format"); f != "" {
		format, err := formatter.ParseFormat(f)
		if err != nil {
			return ctx, err
		}
		r.format = format
	}
	return ctx, nil
}

// loadConfig reads $MCAT_CONFIG, then ./config.toml, then the XDG config file, and applies .env overrides.
func loadConfig(logger *log.Logger) (*shared.Config, error) {
	config := shared.DefaultConfig()

	candidates := []string{os.Getenv("MCAT_CONFIG"), "config.toml"}
	if path, err := shared.DefaultConfigPath(); err == nil {
		candidates = append(candidates, path)
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		loaded, err := shared.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded config", "path", path)
		config = loaded
		break
	}

	if err := shared.ApplyEnv(config, ".env"); err != nil {
		return nil, err
	}
	return config, nil
}

// openSession opens the sqlite session database, runs migrations and builds a [session.Store] over it.
//
// An ephemeral session keeps credentials in memory and opens nothing.
func openSession(config *shared.Config, logger *log.Logger) (*session.Store, *repositories.SessionEventRepository, *sql.DB, error) {
	if config.Session.Ephemeral {
		return session.NewStore(nil, logger), nil, nil, nil
	}

	path := config.Session.Path
	if path == "" {
		p, err := shared.DefaultSessionPath()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to resolve session path: %w", err)
		}
		path = p
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	events := repositories.NewSessionEventRepository(db)
	store := session.NewStore(repositories.NewSessionRepository(db), logger).WithRecorder(events)
	return store, events, db, nil
}

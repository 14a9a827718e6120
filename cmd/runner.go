package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/pipeline"
	"github.com/desertthunder/mcat/internal/repositories"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/desertthunder/mcat/internal/tasks"
	"github.com/desertthunder/mcat/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      *session.Store
	events     *repositories.SessionEventRepository
	api        services.API
	apiErr     error
	httpClient *http.Client
	auth       *services.AuthService
	catalog    *services.CatalogService
	account    *services.AccountService
	manager    *services.ManagerService
	engine     *tasks.Engine
	logger     *log.Logger
	output     io.Writer
	format     formatter.Format
	signals    ui.Signals // set while the TUI runs
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      *session.Store
	Events     *repositories.SessionEventRepository
	API        services.API // overrides the pipeline built from Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(nil, opts.Logger)
	}

	format, err := formatter.ParseFormat(opts.Config.Output.Format)
	if err != nil {
		opts.Logger.Warn("unknown output format in config, using text", "format", opts.Config.Output.Format)
		format = formatter.Text
	}

	r := &Runner{
		config:     opts.Config,
		store:      opts.Store,
		events:     opts.Events,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		format:     format,
	}
	r.connect()
	return r
}

// connect builds the request pipeline (unless one was injected) and the services on top of it.
func (r *Runner) connect() {
	api := r.api
	if _, own := api.(*pipeline.Pipeline); api == nil || own {
		p, err := pipeline.New(r.store, pipeline.Options{
			BaseURL:   r.config.API.BaseURL,
			Timeout:   r.config.API.TimeoutDuration(),
			RateLimit: r.config.API.RateLimit,
			Burst:     r.config.API.Burst,
			UserAgent: r.config.API.UserAgent,
			Client:    r.httpClient,
			Logger:    shared.WithLogger(r.logger, "component", "pipeline"),
			Notifier:  r,
		})
		if err != nil {
			r.apiErr = err
			r.api = nil
			return
		}
		api = p
	}

	r.api = api
	r.apiErr = nil
	r.auth = services.NewAuthService(api)
	r.catalog = services.NewCatalogService(api)
	r.account = services.NewAccountService(api, r.store)
	r.manager = services.NewManagerService(api)
	r.engine = tasks.NewEngine(r.catalog, r.manager)
}

// SetLogger replaces the logger and rebuilds the pipeline so request logs follow it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.connect()
}

// Notify implements [pipeline.Notifier]. While the TUI runs, signals go to its banner.
func (r *Runner) Notify(sig pipeline.Signal, actor session.ActorKind) {
	if r.signals != nil {
		r.signals.Notify(sig, actor)
		return
	}

	switch sig {
	case pipeline.SignalLoginRequired:
		if actor == session.Admin {
			r.logger.Warn("admin session expired; run 'mcat admin auth login'")
		} else {
			r.logger.Warn("session expired; run 'mcat auth login'")
		}
	case pipeline.SignalPermissionDenied:
		r.logger.Warn("permission denied", "actor", actor)
	}
}

// ready reports whether the services could be built from the configuration.
func (r *Runner) ready() error {
	if r.apiErr != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, r.apiErr)
	}
	if r.api == nil {
		return fmt.Errorf("%w: catalog API not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, playlistsCommand, accountCommand, adminCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// render writes t in the selected output format; JSON output encodes v instead.
func (r *Runner) render(t formatter.Table, v any) error {
	return formatter.Render(r.output, r.format, t, v)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

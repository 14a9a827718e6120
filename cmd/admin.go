package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/desertthunder/mcat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AdminArtists lists every artist.
func (r *Runner) AdminArtists(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	artists, err := r.manager.Artists(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.ArtistsTable(artists), artists)
}

// AdminArtist shows one artist.
func (r *Runner) AdminArtist(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	artist, err := r.manager.Artist(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	return r.render(formatter.ArtistsTable([]models.Artist{*artist}), artist)
}

// AdminCreateArtist validates and creates an artist.
func (r *Runner) AdminCreateArtist(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	artist, err := r.manager.CreateArtist(ctx, services.NewArtist{
		Name:   cmd.String("name"),
		Gender: cmd.String("gender"),
		Roles:  cmd.StringSlice("role"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created artist %s (%s)\n", artist.Name, artist.ID)
}

// AdminProviders lists every provider.
func (r *Runner) AdminProviders(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	providers, err := r.manager.Providers(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.ProvidersTable(providers), providers)
}

// AdminCreateProvider validates and creates a provider.
func (r *Runner) AdminCreateProvider(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	provider, err := r.manager.CreateProvider(ctx, services.NewProvider{
		Name: cmd.String("name"),
		Link: cmd.String("link"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created provider %s (%s)\n", provider.Name, provider.ID)
}

// AdminOpenProvider opens a provider's link in the system browser.
func (r *Runner) AdminOpenProvider(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: provider id", shared.ErrMissingArgument)
	}
	if err := r.ready(); err != nil {
		return err
	}

	providers, err := r.manager.Providers(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(providers, func(p models.Provider) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("provider %q %w", id, shared.ErrNotFound)
	}

	r.logger.Info("opening provider", "name", providers[i].Name, "link", providers[i].Link)
	if err := shared.OpenBrowser(providers[i].Link); err != nil {
		return err
	}
	return r.writePlain("✓ Opened %s\n", providers[i].Link)
}

// AdminRequests lists pending song requests.
func (r *Runner) AdminRequests(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	requests, err := r.manager.Requests(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.RequestsTable(requests), requests)
}

// adminDelete returns the delete action of one entity kind. A single id is deleted directly; several ids go
// through the bulk delete worker pool.
func (r *Runner) adminDelete(kind string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		entity, err := services.ParseEntity(kind)
		if err != nil {
			return err
		}
		ids := cmd.Args().Slice()
		if len(ids) == 0 {
			return fmt.Errorf("%w: at least one %s id", shared.ErrMissingArgument, entity)
		}
		if err := r.ready(); err != nil {
			return err
		}

		if len(ids) == 1 {
			if err := r.manager.Delete(ctx, entity, ids[0]); err != nil {
				return err
			}
			return r.writePlain("✓ Deleted %s %s\n", entity, ids[0])
		}

		progressCh := make(chan tasks.ProgressUpdate, len(ids))
		done := r.printProgress(progressCh)
		result, err := r.engine.BulkDelete(ctx, progressCh, entity, ids, tasks.BulkDeleteOpts{
			NumWorkers: int(cmd.Int("workers")),
			RateLimit:  cmd.Float64("rate"),
		})
		close(progressCh)
		<-done

		if err != nil {
			return err
		}
		r.writePlain("\nDeleted %d, failed %d\n", result.Deleted, result.Failed)
		return result.Err()
	}
}

// AdminDump snapshots the management endpoints as JSON. Failing endpoints are listed in the dump.
func (r *Runner) AdminDump(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	r.logger.Info("dumping management state")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
		}
	}()
	result, err := r.engine.Dump(ctx, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	data := result.Data()
	if path := cmd.String("save"); path != "" {
		out, err := shared.MarshalJSON(data, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", path)
		}
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/desertthunder/mcat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsTop lists the ranked playlists of the home page.
func (r *Runner) PlaylistsTop(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	playlists, err := r.catalog.TopPlaylists(ctx)
	if err != nil {
		return err
	}
	t := formatter.PlaylistsTable(playlists)
	t.Title = "Top Playlists"
	return r.render(t, playlists)
}

// PlaylistsShow prints one playlist with its songs.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	detail, err := r.catalog.Playlist(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	return r.render(formatter.PlaylistDetailTable(detail), detail)
}

// PlaylistsExport fetches the given playlists and writes them to disk, printing progress as it goes.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one playlist id", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("as"))
	if err != nil {
		return err
	}
	if err := r.ready(); err != nil {
		return err
	}

	r.logger.Info("exporting playlists", "count", len(ids), "format", format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	result, err := r.engine.BulkExport(ctx, progressCh, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float64("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if r.format == formatter.JSON {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  • %s: %v\n", res.PlaylistID, res.Error)
			}
		}
		return fmt.Errorf("%w: %d of %d exports failed", shared.ErrAPIRequest, result.FailedExports, result.TotalPlaylists)
	}
	return nil
}

// printProgress drains ch until it is closed. JSON output keeps stdout clean, so progress goes to the log instead.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			if r.format == formatter.JSON {
				r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()
	return done
}

package main

import (
	"context"

	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/search"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/urfave/cli/v3"
)

func keyword(cmd *cli.Command, flag string, mode search.MatchMode) search.Keyword {
	return search.Keyword{Text: cmd.String(flag), Mode: mode}
}

func lengthRange(cmd *cli.Command) search.DurationRange {
	return search.DurationRange{
		Min: search.ParseDuration(cmd.String("min-length")),
		Max: search.ParseDuration(cmd.String("max-length")),
	}
}

// SearchSongs builds a song filter from the flags, validates it locally and only then queries the server.
func (r *Runner) SearchSongs(ctx context.Context, cmd *cli.Command) error {
	mode, err := search.ParseMatchMode(cmd.String("match"))
	if err != nil {
		return err
	}

	form := search.NewForm(search.SongSchema).
		MustWith("title", keyword(cmd, "title", mode)).
		MustWith("artist", keyword(cmd, "artist", mode)).
		MustWith("provider", keyword(cmd, "provider", mode)).
		MustWith("length", lengthRange(cmd)).
		MustWith("release", search.DateRange{
			Min: search.ParseDate(cmd.String("from")),
			Max: search.ParseDate(cmd.String("to")),
		}).
		MustWith("sort", search.Choice{Selected: cmd.String("sort")}).
		MustWith("order", search.Choice{Selected: cmd.String("order")})

	return r.search(ctx, form)
}

// SearchPlaylists builds a playlist filter from the flags.
func (r *Runner) SearchPlaylists(ctx context.Context, cmd *cli.Command) error {
	mode, err := search.ParseMatchMode(cmd.String("match"))
	if err != nil {
		return err
	}

	form := search.NewForm(search.PlaylistSchema).
		MustWith("title", keyword(cmd, "title", mode)).
		MustWith("owner", keyword(cmd, "owner", mode)).
		MustWith("songs", search.NumberRange{Min: cmd.String("min-songs"), Max: cmd.String("max-songs")}).
		MustWith("comments", search.NumberRange{Min: cmd.String("min-comments"), Max: cmd.String("max-comments")}).
		MustWith("length", lengthRange(cmd))

	return r.search(ctx, form)
}

// SearchArtists builds an artist filter from the flags.
func (r *Runner) SearchArtists(ctx context.Context, cmd *cli.Command) error {
	mode, err := search.ParseMatchMode(cmd.String("match"))
	if err != nil {
		return err
	}

	form := search.NewForm(search.ArtistSchema).
		MustWith("name", keyword(cmd, "name", mode)).
		MustWith("gender", search.Choice{Selected: cmd.String("gender")}).
		MustWith("role", search.Choices{Selected: cmd.StringSlice("role")})

	return r.search(ctx, form)
}

// search compiles form and sends it. A rejected form never reaches the network.
func (r *Runner) search(ctx context.Context, form search.Form) error {
	filter, err := search.Compile(form)
	if err != nil {
		return err
	}
	if err := r.ready(); err != nil {
		return err
	}

	r.logger.Debug("searching", "domain", filter.Domain(), "keys", filter.Keys())
	results, err := r.catalog.Search(ctx, filter)
	if err != nil {
		return err
	}

	t := resultsTable(results)
	if r.format == formatter.Text {
		t.Footer = formatter.Summary(results.Len(), results.TotalCount)
	}
	return r.render(t, results)
}

func resultsTable(r *services.Results) formatter.Table {
	switch r.Domain {
	case search.Playlists:
		return formatter.PlaylistsTable(r.Playlists)
	case search.Artists:
		return formatter.ArtistsTable(r.Artists)
	default:
		return formatter.SongsTable(r.Songs)
	}
}

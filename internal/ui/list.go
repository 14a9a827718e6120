package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/dustin/go-humanize"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
	_ list.Item = artistItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string {
	if i.playlist.Rank > 0 {
		return fmt.Sprintf("%d. %s", i.playlist.Rank, i.playlist.Title)
	}
	return i.playlist.Title
}
func (i playlistItem) Description() string {
	return fmt.Sprintf("%s • %s songs • %s • %s comments",
		i.playlist.Owner,
		humanize.Comma(int64(i.playlist.SongCount)),
		shared.FormatDuration(i.playlist.Length),
		humanize.Comma(int64(i.playlist.CommentCount)))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.song.Artist, shared.FormatDuration(i.song.Length))
	if i.song.Provider != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Provider)
	}
	return desc
}

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	if len(i.artist.Roles) == 0 {
		return "-"
	}
	return strings.Join(i.artist.Roles, ", ")
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}

// resultItems converts the hits of the searched domain.
func resultItems(r *services.Results) []list.Item {
	switch {
	case r.Playlists != nil:
		return playlistItems(r.Playlists)
	case r.Artists != nil:
		items := make([]list.Item, len(r.Artists))
		for i, a := range r.Artists {
			items[i] = artistItem{artist: a}
		}
		return items
	default:
		return songItems(r.Songs)
	}
}

package formatter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/shared"
	th "github.com/desertthunder/mcat/internal/testing"
)

func testPlaylist() *models.PlaylistDetail {
	return &models.PlaylistDetail{
		Playlist: models.Playlist{
			ID:           "PL1",
			Title:        "K-Pop Hits",
			Owner:        "Ada",
			SongCount:    2,
			CommentCount: 1,
			Length:       380,
		},
		Description: "Bangers only",
		Songs: []models.Song{
			{ID: "S1", Title: "Ditto", Artist: "NewJeans", Length: 185, ReleaseDate: "2022-12-19", Provider: "Spotify"},
			{ID: "S2", Title: "Kitsch", Artist: "IVE", Length: 195, ReleaseDate: "2023-03-27"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", Text},
		{"txt", Text},
		{"CSV", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{" json ", JSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTables(t *testing.T) {
	t.Run("SongsTable", func(t *testing.T) {
		tbl := SongsTable(testPlaylist().Songs)
		if len(tbl.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
		}
		if tbl.Rows[0][3] != "3:05" {
			t.Errorf("expected length 3:05, got %s", tbl.Rows[0][3])
		}
	})

	t.Run("PlaylistsTable", func(t *testing.T) {
		t.Run("Unranked", func(t *testing.T) {
			tbl := PlaylistsTable([]models.Playlist{{ID: "PL1", Title: "Big", SongCount: 1204, Length: 3725}})
			if tbl.Headers[0] != "ID" {
				t.Errorf("expected no rank column, got headers %v", tbl.Headers)
			}
			if tbl.Rows[0][3] != "1,204" {
				t.Errorf("expected humanized song count, got %s", tbl.Rows[0][3])
			}
			if tbl.Rows[0][5] != "1:02:05" {
				t.Errorf("expected 1:02:05, got %s", tbl.Rows[0][5])
			}
		})

		t.Run("Ranked", func(t *testing.T) {
			tbl := PlaylistsTable([]models.Playlist{{ID: "PL1", Rank: 1}, {ID: "PL2", Rank: 2}})
			if tbl.Headers[0] != "#" || tbl.Rows[1][0] != "2" {
				t.Errorf("expected rank column, got %v / %v", tbl.Headers, tbl.Rows[1])
			}
		})
	})

	t.Run("PlaylistDetailTable", func(t *testing.T) {
		tbl := PlaylistDetailTable(testPlaylist())
		if tbl.Title != "K-Pop Hits by Ada" {
			t.Errorf("unexpected title %q", tbl.Title)
		}
		if tbl.Footer != "2 songs, 6:20 total, 1 comment" {
			t.Errorf("unexpected footer %q", tbl.Footer)
		}
	})

	t.Run("ArtistsTable", func(t *testing.T) {
		tbl := ArtistsTable([]models.Artist{
			{ID: "AR1", Name: "IU", Gender: "F", Roles: []string{"singer", "lyricist"}},
			{ID: "AR3", Name: "Group"},
		})
		if tbl.Rows[0][2] != "Female" || tbl.Rows[0][3] != "singer, lyricist" {
			t.Errorf("unexpected row %v", tbl.Rows[0])
		}
		if tbl.Rows[1][2] != "-" {
			t.Errorf("expected placeholder gender, got %q", tbl.Rows[1][2])
		}
	})

	t.Run("EventsTable", func(t *testing.T) {
		now := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
		ev := models.NewSessionEvent("user", "login", "Ada")
		ev.SetCreatedAt(now.Add(-2 * time.Hour))

		tbl := EventsTable([]*models.SessionEvent{ev}, now)
		if tbl.Rows[0][3] != "2 hours ago" {
			t.Errorf("expected relative time, got %q", tbl.Rows[0][3])
		}
	})

	t.Run("Summary", func(t *testing.T) {
		if got := Summary(20, 1204); got != "Showing 20 of 1,204 results" {
			t.Errorf("unexpected summary %q", got)
		}
		if got := Summary(1, 1); got != "1 result" {
			t.Errorf("unexpected summary %q", got)
		}
	})
}

func TestRender(t *testing.T) {
	songs := testPlaylist().Songs
	tbl := SongsTable(songs)
	tbl.Footer = Summary(len(songs), 2)

	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, Text, tbl, songs); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Title", "Ditto", "NewJeans", "3:15", "2 results"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Text Without Rows", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, Text, SongsTable(nil), nil); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No results.") {
			t.Errorf("expected empty notice, got %q", buf.String())
		}
	})

	t.Run("CSV", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, CSV, tbl, songs); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if lines[0] != "ID,Title,Artist,Length,Released,Provider" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if lines[1] != "S1,Ditto,NewJeans,3:05,2022-12-19,Spotify" {
			t.Errorf("unexpected row %q", lines[1])
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		var buf bytes.Buffer
		piped := Table{Headers: []string{"A"}, Rows: [][]string{{"x|y"}}}
		if err := Render(&buf, Markdown, piped, nil); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(buf.String(), `| x\|y |`) {
			t.Errorf("expected escaped pipe, got %s", buf.String())
		}
	})

	t.Run("JSON Uses Records", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, JSON, tbl, songs); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		var decoded []models.Song
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded[0].Length != 185 {
			t.Errorf("expected raw seconds, got %d", decoded[0].Length)
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		if err := Render(&th.FWriter{}, Text, tbl, songs); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestExporters(t *testing.T) {
	d := testPlaylist()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(d)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "ID,Title,Artist,Length,Released,Provider") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "S1,Ditto,NewJeans,185,2022-12-19,Spotify") {
			t.Errorf("CSV missing song row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		output := string(ExportToMarkdown(d))
		for _, want := range []string{
			"# K-Pop Hits",
			"**Description**: Bangers only",
			"**Owner**: Ada",
			"**Songs**: 2",
			"1. NewJeans - Ditto (Spotify) [3:05]",
			"2. IVE - Kitsch [3:15]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		output := string(ExportToText(d))
		if !strings.Contains(output, "Playlist: K-Pop Hits") || !strings.Contains(output, "2. IVE - Kitsch") {
			t.Errorf("unexpected text export: %s", output)
		}
	})
}

func TestWriters(t *testing.T) {
	d := testPlaylist()

	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, t.TempDir())
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(d, "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.SongsFile != "PL1_songs.csv" || result.MetadataFile != "PL1_metadata.json" {
				t.Errorf("unexpected files %+v", result)
			}

			th.AssertFileExists(t, result.SongsFile)
			metadata := th.MustReadFile(t, result.MetadataFile)
			if !strings.Contains(metadata, `"title": "K-Pop Hits"`) || strings.Contains(metadata, "Ditto") {
				t.Errorf("metadata should hold the summary only: %s", metadata)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "custom")
			result, err := WriteCSVExport(d, base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			th.AssertFileExists(t, base+"_songs.csv")
			th.AssertFileExists(t, result.MetadataFile)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "pl")
		path, err := WriteMarkdownExport(d, dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		th.AssertDirExists(t, dir)
		if !strings.Contains(th.MustReadFile(t, path), "# K-Pop Hits") {
			t.Error("README missing title")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, originalDir)

		path, err := WriteTextExport(d, "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if path != "PL1_songs.txt" {
			t.Errorf("expected default path, got %s", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path, err := WriteJSONExport(d, filepath.Join(t.TempDir(), "pl.json"))
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		var decoded models.PlaylistDetail
		if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Songs) != 2 || decoded.Title != "K-Pop Hits" {
			t.Errorf("unexpected decoded playlist %+v", decoded)
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		m := Manifest{
			Format:            CSV,
			TotalPlaylists:    2,
			SuccessfulExports: 1,
			FailedExports:     1,
			Playlists: []ManifestEntry{
				{PlaylistID: "PL1", PlaylistTitle: "K-Pop Hits", Status: "success", Files: []string{"PL1_songs.csv"}},
				{PlaylistID: "PL9", Status: "failed", Error: `playlist "PL9" not found`},
			},
		}
		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{`"format": "csv"`, `"failed_exports": 1`, `"status": "failed"`, `not found`} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s", want)
			}
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data, err := shared.MarshalJSON(d.Playlist, false)
		if err != nil || strings.Contains(string(data), "\n") {
			t.Errorf("expected compact JSON, got %s (%v)", data, err)
		}
	})
}

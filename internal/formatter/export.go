package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/dustin/go-humanize"
)

// ExportToCSV converts a playlist to CSV with columns: ID, Title, Artist, Length, Released, Provider.
// Length is in seconds.
func ExportToCSV(d *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Length", "Released", "Provider"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range d.Songs {
		record := []string{song.ID, song.Title, song.Artist, strconv.Itoa(song.Length), song.ReleaseDate, song.Provider}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to a Markdown document.
func ExportToMarkdown(d *models.PlaylistDetail) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", d.Title))
	if d.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", d.Description))
	}

	buf.WriteString(fmt.Sprintf("**Owner**: %s\n", d.Owner))
	buf.WriteString(fmt.Sprintf("**Songs**: %s\n", humanize.Comma(int64(len(d.Songs)))))
	buf.WriteString(fmt.Sprintf("**Length**: %s\n\n", shared.FormatDuration(d.Length)))

	buf.WriteString("## Songs\n\n")
	for i, song := range d.Songs {
		provider := ""
		if song.Provider != "" {
			provider = fmt.Sprintf(" (%s)", song.Provider)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, song.Artist, song.Title, provider, shared.FormatDuration(song.Length)))
	}
	return buf.Bytes()
}

// ExportToText converts a playlist to plain text.
func ExportToText(d *models.PlaylistDetail) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", d.Title))
	if d.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", d.Description))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(d.Songs)))

	for i, song := range d.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}
	return buf.Bytes()
}

// ToMetadataJSON encodes playlist metadata without songs.
func ToMetadataJSON(p models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(p, true)
}

// CSVExportResult contains the paths of files created by [WriteCSVExport].
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport writes {base}_songs.csv and {base}_metadata.json. base defaults to the playlist ID.
func WriteCSVExport(d *models.PlaylistDetail, base string) (*CSVExportResult, error) {
	if base == "" {
		base = d.ID
	}

	csvData, err := ExportToCSV(d)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := base + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadata, err := ToMetadataJSON(d.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := base + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadata, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{SongsFile: songsFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport writes {dir}/README.md. dir defaults to the playlist ID.
func WriteMarkdownExport(d *models.PlaylistDetail, dir string) (string, error) {
	if dir == "" {
		dir = d.ID
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, "README.md")
	if err := os.WriteFile(path, ExportToMarkdown(d), 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return path, nil
}

// WriteTextExport writes the plain text export. path defaults to {playlist.ID}_songs.txt.
func WriteTextExport(d *models.PlaylistDetail, path string) (string, error) {
	if path == "" {
		path = d.ID + "_songs.txt"
	}
	if err := os.WriteFile(path, ExportToText(d), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes the playlist with its songs. path defaults to {playlist.ID}.json.
func WriteJSONExport(d *models.PlaylistDetail, path string) (string, error) {
	if path == "" {
		path = d.ID + ".json"
	}

	data, err := shared.MarshalJSON(d, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

// ManifestEntry is the outcome of one exported playlist.
type ManifestEntry struct {
	PlaylistID    string   `json:"playlist_id"`
	PlaylistTitle string   `json:"playlist_title"`
	Status        string   `json:"status"`
	Files         []string `json:"files,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	Format            Format          `json:"format"`
	CreatedAt         time.Time       `json:"created_at"`
	OutputDirectory   string          `json:"output_directory"`
	TotalPlaylists    int             `json:"total_playlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Playlists         []ManifestEntry `json:"playlists"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

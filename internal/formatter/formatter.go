// package formatter renders catalog records as text tables, CSV, Markdown or JSON and writes playlist exports
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/dustin/go-humanize"
)

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat accepts text, csv, markdown (or md) and json. Blank means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, CSV, Markdown, JSON:
		return f, nil
	case "", "txt":
		return Text, nil
	case "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("%w: format %q (want text, csv, markdown or json)", shared.ErrInvalidFlag, s)
	}
}

// Table is a titled grid of display strings.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Render writes t in format f. JSON encodes v, the records the table was built from.
func Render(w io.Writer, f Format, t Table, v any) error {
	var (
		data []byte
		err  error
	)

	switch f {
	case JSON:
		data, err = shared.MarshalJSON(v, true)
		data = append(data, '\n')
	case CSV:
		data, err = ToCSV(t)
	case Markdown:
		data = ToMarkdown(t)
	default:
		data = ToText(t)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ToCSV encodes the header row and rows of t.
func ToCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown renders t as a heading and a pipe table.
func ToMarkdown(t Table) []byte {
	var buf bytes.Buffer

	if t.Title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", t.Title))
	}

	buf.WriteString("| " + strings.Join(escapeCells(t.Headers), " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		buf.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}

	if t.Footer != "" {
		buf.WriteString(fmt.Sprintf("\n_%s_\n", t.Footer))
	}
	return buf.Bytes()
}

// ToText renders t as a bordered terminal table.
func ToText(t Table) []byte {
	var buf bytes.Buffer

	if t.Title != "" {
		buf.WriteString(t.Title + "\n")
	}
	if len(t.Rows) == 0 {
		buf.WriteString("No results.\n")
	} else {
		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(t.Headers...).
			Rows(t.Rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		buf.WriteString(tbl.Render() + "\n")
	}

	if t.Footer != "" {
		buf.WriteString(t.Footer + "\n")
	}
	return buf.Bytes()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// Summary describes a page of results, e.g. "Showing 20 of 1,204 results".
func Summary(shown, total int) string {
	if total <= shown {
		return fmt.Sprintf("%s %s", humanize.Comma(int64(shown)), plural(shown, "result"))
	}
	return fmt.Sprintf("Showing %s of %s results", humanize.Comma(int64(shown)), humanize.Comma(int64(total)))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// SongsTable lists songs.
func SongsTable(songs []models.Song) Table {
	t := Table{Headers: []string{"ID", "Title", "Artist", "Length", "Released", "Provider"}}
	for _, s := range songs {
		t.Rows = append(t.Rows, []string{s.ID, s.Title, s.Artist, shared.FormatDuration(s.Length), s.ReleaseDate, s.Provider})
	}
	return t
}

// PlaylistsTable lists playlist summaries. A rank column is added when any playlist is ranked.
func PlaylistsTable(playlists []models.Playlist) Table {
	ranked := false
	for _, p := range playlists {
		ranked = ranked || p.Rank > 0
	}

	t := Table{Headers: []string{"ID", "Title", "Owner", "Songs", "Comments", "Length"}}
	if ranked {
		t.Headers = append([]string{"#"}, t.Headers...)
	}
	for _, p := range playlists {
		row := []string{
			p.ID,
			p.Title,
			p.Owner,
			humanize.Comma(int64(p.SongCount)),
			humanize.Comma(int64(p.CommentCount)),
			shared.FormatDuration(p.Length),
		}
		if ranked {
			row = append([]string{strconv.Itoa(p.Rank)}, row...)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// PlaylistDetailTable lists the songs of one playlist under its title.
func PlaylistDetailTable(d *models.PlaylistDetail) Table {
	t := SongsTable(d.Songs)
	t.Title = fmt.Sprintf("%s by %s", d.Title, d.Owner)
	t.Footer = fmt.Sprintf("%s %s, %s total, %s %s",
		humanize.Comma(int64(d.SongCount)), plural(d.SongCount, "song"),
		shared.FormatDuration(d.Length),
		humanize.Comma(int64(d.CommentCount)), plural(d.CommentCount, "comment"))
	return t
}

// ArtistsTable lists artists.
func ArtistsTable(artists []models.Artist) Table {
	t := Table{Headers: []string{"ID", "Name", "Gender", "Roles"}}
	for _, a := range artists {
		t.Rows = append(t.Rows, []string{a.ID, a.Name, genderLabel(a.Gender), strings.Join(a.Roles, ", ")})
	}
	return t
}

func genderLabel(g string) string {
	switch g {
	case "M":
		return "Male"
	case "F":
		return "Female"
	default:
		return "-"
	}
}

// ProvidersTable lists providers.
func ProvidersTable(providers []models.Provider) Table {
	t := Table{Headers: []string{"ID", "Name", "Link"}}
	for _, p := range providers {
		t.Rows = append(t.Rows, []string{p.ID, p.Name, p.Link})
	}
	return t
}

// RequestsTable lists song requests.
func RequestsTable(requests []models.SongRequest) Table {
	t := Table{Headers: []string{"ID", "Title", "Artist", "Requester", "Requested"}}
	for _, r := range requests {
		t.Rows = append(t.Rows, []string{r.ID, r.Title, r.Artist, r.RequesterID, r.RequestedAt})
	}
	return t
}

// CommentsTable lists the user's comments.
func CommentsTable(comments []models.Comment) Table {
	t := Table{Headers: []string{"ID", "Playlist", "Comment", "Date"}}
	for _, c := range comments {
		t.Rows = append(t.Rows, []string{c.ID, c.PlaylistTitle, c.Content, c.CreatedAt})
	}
	return t
}

// EventsTable lists recorded session events with relative times.
func EventsTable(events []*models.SessionEvent, now time.Time) Table {
	t := Table{Headers: []string{"Actor", "Event", "Detail", "When"}}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{e.Actor(), e.Event(), e.Detail(), humanize.RelTime(e.CreatedAt(), now, "ago", "from now")})
	}
	return t
}

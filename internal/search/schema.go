package search

import (
	"slices"
	"strings"
)

// Domain identifies a searchable entity type.
type Domain int

const (
	Songs Domain = iota
	Playlists
	Artists
)

func (d Domain) String() string {
	switch d {
	case Songs:
		return "songs"
	case Playlists:
		return "playlists"
	case Artists:
		return "artists"
	default:
		return ""
	}
}

// Path returns the search endpoint for the domain, relative to the API root.
func (d Domain) Path() string {
	return "/" + d.String() + "/search"
}

// Kind tags the shape of a form field.
type Kind int

const (
	KeywordField       Kind = iota // free text plus Include/Exact match mode
	NumberRangeField               // min/max non-negative integers
	DurationRangeField             // min/max h:m:s composites, sent as seconds
	DateRangeField                 // min/max y/m/d composites, sent as YYYY-MM-DD
	EnumField                      // single choice from a fixed vocabulary
	MultiEnumField                 // any number of choices from a fixed vocabulary
)

// AllPolicy decides how an enum's "All" (no filter) selection reaches the wire.
type AllPolicy int

const (
	AllOmit AllPolicy = iota // the field is left out of the payload
	AllNull                  // the field is sent as an explicit JSON null
)

// AllChoice is the display value meaning "no filter" for enum fields.
const AllChoice = "All"

// Option maps an enum's display value to its wire value.
type Option struct {
	Display string
	Wire    string
}

// Field describes one input of a search form.
type Field struct {
	Name  string // form field name
	Label string // human name used in messages
	Kind  Kind
	// Wire is the payload name. Keywords and ranges use it as a prefix:
	// title -> titleKeyword/titleExact, length -> lengthMin/lengthMax.
	Wire    string
	Options []Option
	Default string // display value used when nothing is selected; empty means All
	All     AllPolicy
}

// lookup resolves a display (or wire) value case-insensitively.
// all is set when the value selects every option.
func (f Field) lookup(choice string) (wire string, all bool, ok bool) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		choice = f.Default
	}
	if choice == "" || strings.EqualFold(choice, AllChoice) {
		return "", true, true
	}
	for _, o := range f.Options {
		if strings.EqualFold(choice, o.Display) || strings.EqualFold(choice, o.Wire) {
			return o.Wire, false, true
		}
	}
	return "", false, false
}

// Choices returns the display vocabulary of an enum field, "All" first when the field has no default.
func (f Field) Choices() []string {
	var out []string
	if f.Default == "" {
		out = append(out, AllChoice)
	}
	for _, o := range f.Options {
		out = append(out, o.Display)
	}
	return out
}

// Schema is the field list of one search domain.
type Schema struct {
	Domain Domain
	Fields []Field
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i := slices.IndexFunc(s.Fields, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}
	return s.Fields[i], true
}

var (
	// SongSchema describes the song search form.
	SongSchema = &Schema{
		Domain: Songs,
		Fields: []Field{
			{Name: "title", Label: "title", Kind: KeywordField, Wire: "title"},
			{Name: "artist", Label: "artist", Kind: KeywordField, Wire: "artist"},
			{Name: "length", Label: "length", Kind: DurationRangeField, Wire: "length"},
			{Name: "provider", Label: "provider", Kind: KeywordField, Wire: "provider"},
			{Name: "release", Label: "release date", Kind: DateRangeField, Wire: "date"},
			{
				Name: "sort", Label: "sort field", Kind: EnumField, Wire: "orderBy", Default: "Title",
				Options: []Option{
					{Display: "Title", Wire: "title"},
					{Display: "Artist", Wire: "artist"},
					{Display: "Length", Wire: "length"},
					{Display: "Release date", Wire: "date"},
					{Display: "Provider", Wire: "provider"},
				},
			},
			{
				Name: "order", Label: "sort order", Kind: EnumField, Wire: "orderDir", Default: "Ascending",
				Options: []Option{
					{Display: "Ascending", Wire: "ASC"},
					{Display: "Descending", Wire: "DESC"},
				},
			},
		},
	}

	// PlaylistSchema describes the playlist search form.
	PlaylistSchema = &Schema{
		Domain: Playlists,
		Fields: []Field{
			{Name: "title", Label: "title", Kind: KeywordField, Wire: "title"},
			{Name: "owner", Label: "owner", Kind: KeywordField, Wire: "owner"},
			{Name: "songs", Label: "song count", Kind: NumberRangeField, Wire: "songCount"},
			{Name: "comments", Label: "comment count", Kind: NumberRangeField, Wire: "commentCount"},
			{Name: "length", Label: "total length", Kind: DurationRangeField, Wire: "length"},
		},
	}

	// ArtistSchema describes the artist search form.
	ArtistSchema = &Schema{
		Domain: Artists,
		Fields: []Field{
			{Name: "name", Label: "name", Kind: KeywordField, Wire: "name"},
			{
				Name: "gender", Label: "gender", Kind: EnumField, Wire: "gender", All: AllNull,
				Options: []Option{
					{Display: "Male", Wire: "M"},
					{Display: "Female", Wire: "F"},
				},
			},
			{
				Name: "role", Label: "role", Kind: MultiEnumField, Wire: "roles", All: AllOmit,
				Options: []Option{
					{Display: "Singer", Wire: "singer"},
					{Display: "Composer", Wire: "composer"},
					{Display: "Lyricist", Wire: "lyricist"},
				},
			},
		},
	}
)

// SchemaFor returns the schema of a domain.
func SchemaFor(d Domain) *Schema {
	switch d {
	case Playlists:
		return PlaylistSchema
	case Artists:
		return ArtistSchema
	default:
		return SongSchema
	}
}

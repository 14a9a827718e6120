package search

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/desertthunder/mcat/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidationError(t *testing.T, err error, field, msg string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, field, verr.Field)
	assert.Equal(t, msg, verr.Message)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCompileSongs(t *testing.T) {
	t.Run("Empty Form Yields Only Defaults", func(t *testing.T) {
		filter, err := Compile(NewForm(SongSchema))
		require.NoError(t, err)

		assert.Equal(t, Songs, filter.Domain())
		assert.Equal(t, []string{"artistExact", "orderBy", "orderDir", "providerExact", "titleExact"}, filter.Keys())

		v, _ := filter.Get("orderBy")
		assert.Equal(t, "title", v)
		v, _ = filter.Get("orderDir")
		assert.Equal(t, "ASC", v)
		v, _ = filter.Get("titleExact")
		assert.Equal(t, false, v)
	})

	t.Run("Min Above Max Is Rejected", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("length", DurationRange{
			Min: Duration{Minutes: "5", Seconds: "0"},
			Max: Duration{Minutes: "3", Seconds: "0"},
		})

		filter, err := Compile(form)
		requireValidationError(t, err, "length", MsgMisconfigured)
		assert.Zero(t, filter.Len())
	})

	t.Run("Overflowing Length Is Rejected", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("length", DurationRange{
			Min: Duration{Hours: strconv.Itoa(math.MaxInt/3600 + 1)},
			Max: Duration{Seconds: "1"},
		})

		filter, err := Compile(form)
		requireValidationError(t, err, "length", MsgInvalidNumber)
		assert.Zero(t, filter.Len())
	})

	t.Run("Min Without Max Is Accepted", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("length", DurationRange{
			Min: Duration{Minutes: "5", Seconds: "0"},
		})

		filter, err := Compile(form)
		require.NoError(t, err)

		v, ok := filter.Get("lengthMin")
		assert.True(t, ok)
		assert.Equal(t, 300, v)
		_, ok = filter.Get("lengthMax")
		assert.False(t, ok)
	})

	t.Run("Equal Bounds Are Accepted", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("release", DateRange{
			Min: Date{"2020", "1", "1"},
			Max: Date{"2020", "01", "01"},
		})

		filter, err := Compile(form)
		require.NoError(t, err)

		v, _ := filter.Get("dateMin")
		assert.Equal(t, "2020-01-01", v)
		v, _ = filter.Get("dateMax")
		assert.Equal(t, "2020-01-01", v)
	})

	t.Run("Reversed Dates Are Rejected", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("release", DateRange{
			Min: Date{"2021", "6", "1"},
			Max: Date{"2020", "6", "1"},
		})
		_, err := Compile(form)
		requireValidationError(t, err, "release", MsgMisconfigured)
	})

	t.Run("Invalid Date Wins Over Ordering", func(t *testing.T) {
		form := NewForm(SongSchema).
			MustWith("length", DurationRange{Min: Duration{Minutes: "9"}, Max: Duration{Minutes: "1"}}).
			MustWith("release", DateRange{Min: Date{"2024", "2", "30"}})

		_, err := Compile(form)
		requireValidationError(t, err, "release", MsgInvalidDate)
	})

	t.Run("Partial Date Is Rejected", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("release", DateRange{Max: Date{Year: "2024"}})
		_, err := Compile(form)
		requireValidationError(t, err, "release", MsgInvalidDate)
	})

	t.Run("Invalid Number Wins Over Dates", func(t *testing.T) {
		form := NewForm(SongSchema).
			MustWith("length", DurationRange{Min: Duration{Minutes: "five"}}).
			MustWith("release", DateRange{Min: Date{"2024", "2", "30"}})

		_, err := Compile(form)
		requireValidationError(t, err, "length", MsgInvalidNumber)
	})

	t.Run("Keywords", func(t *testing.T) {
		form := NewForm(SongSchema).
			MustWith("title", Keyword{Text: "  Blue Monday  ", Mode: Exact}).
			MustWith("artist", Keyword{Text: "   "})

		filter, err := Compile(form)
		require.NoError(t, err)

		v, _ := filter.Get("titleKeyword")
		assert.Equal(t, "Blue Monday", v)
		v, _ = filter.Get("titleExact")
		assert.Equal(t, true, v)
		_, ok := filter.Get("artistKeyword")
		assert.False(t, ok, "blank keyword must be omitted")
		v, _ = filter.Get("artistExact")
		assert.Equal(t, false, v)
	})

	t.Run("Sort Choices", func(t *testing.T) {
		form := NewForm(SongSchema).
			MustWith("sort", Choice{Selected: "release date"}).
			MustWith("order", Choice{Selected: "DESC"})

		filter, err := Compile(form)
		require.NoError(t, err)

		v, _ := filter.Get("orderBy")
		assert.Equal(t, "date", v)
		v, _ = filter.Get("orderDir")
		assert.Equal(t, "DESC", v)
	})

	t.Run("Unknown Choice Is Rejected", func(t *testing.T) {
		form := NewForm(SongSchema).MustWith("sort", Choice{Selected: "popularity"})
		_, err := Compile(form)
		requireValidationError(t, err, "sort", MsgInvalidChoice)
	})
}

func TestCompilePlaylists(t *testing.T) {
	t.Run("Empty Form", func(t *testing.T) {
		filter, err := Compile(NewForm(PlaylistSchema))
		require.NoError(t, err)
		assert.Equal(t, []string{"ownerExact", "titleExact"}, filter.Keys())
	})

	t.Run("Zero Bounds Are Omitted", func(t *testing.T) {
		form := NewForm(PlaylistSchema).
			MustWith("songs", NumberRange{Min: "0", Max: "20"}).
			MustWith("length", DurationRange{Min: Duration{Seconds: "0"}, Max: Duration{Hours: "1"}})

		filter, err := Compile(form)
		require.NoError(t, err)

		_, ok := filter.Get("songCountMin")
		assert.False(t, ok)
		v, _ := filter.Get("songCountMax")
		assert.Equal(t, 20, v)
		_, ok = filter.Get("lengthMin")
		assert.False(t, ok)
		v, _ = filter.Get("lengthMax")
		assert.Equal(t, 3600, v)
	})

	t.Run("Reversed Counts Are Rejected", func(t *testing.T) {
		form := NewForm(PlaylistSchema).MustWith("comments", NumberRange{Min: "10", Max: "2"})
		_, err := Compile(form)
		requireValidationError(t, err, "comments", MsgMisconfigured)
	})

	t.Run("Negative Count Is Rejected", func(t *testing.T) {
		form := NewForm(PlaylistSchema).MustWith("songs", NumberRange{Max: "-4"})
		_, err := Compile(form)
		requireValidationError(t, err, "songs", MsgInvalidNumber)
	})
}

func TestCompileArtists(t *testing.T) {
	t.Run("All Gender Is Explicit Null And Roles Are Omitted", func(t *testing.T) {
		filter, err := Compile(NewForm(ArtistSchema))
		require.NoError(t, err)

		v, ok := filter.Get("gender")
		assert.True(t, ok)
		assert.Nil(t, v)
		_, ok = filter.Get("roles")
		assert.False(t, ok)

		body, err := json.Marshal(filter)
		require.NoError(t, err)
		assert.JSONEq(t, `{"nameExact":false,"gender":null}`, string(body))
	})

	t.Run("Display Values Map To Wire Values", func(t *testing.T) {
		form := NewForm(ArtistSchema).
			MustWith("gender", Choice{Selected: "female"}).
			MustWith("role", Choices{Selected: []string{"Lyricist", "singer", "Lyricist"}})

		filter, err := Compile(form)
		require.NoError(t, err)

		v, _ := filter.Get("gender")
		assert.Equal(t, "F", v)
		v, _ = filter.Get("roles")
		assert.Equal(t, []string{"singer", "lyricist"}, v)
	})

	t.Run("Selecting All Roles Omits The Field", func(t *testing.T) {
		form := NewForm(ArtistSchema).MustWith("role", Choices{Selected: []string{"Singer", "All"}})
		filter, err := Compile(form)
		require.NoError(t, err)

		_, ok := filter.Get("roles")
		assert.False(t, ok)
	})

	t.Run("Unknown Role Is Rejected", func(t *testing.T) {
		form := NewForm(ArtistSchema).MustWith("role", Choices{Selected: []string{"Drummer"}})
		_, err := Compile(form)
		requireValidationError(t, err, "role", MsgInvalidChoice)
	})
}

func TestForm(t *testing.T) {
	t.Run("With Leaves The Receiver Untouched", func(t *testing.T) {
		base := NewForm(SongSchema)
		next := base.MustWith("title", Keyword{Text: "Hey"})

		assert.Equal(t, Keyword{}, base.Value("title"))
		assert.Equal(t, Keyword{Text: "Hey"}, next.Value("title"))
	})

	t.Run("Choices Are Copied", func(t *testing.T) {
		roles := []string{"Singer"}
		form := NewForm(ArtistSchema).MustWith("role", Choices{Selected: roles})
		roles[0] = "Drummer"

		assert.Equal(t, Choices{Selected: []string{"Singer"}}, form.Value("role"))
	})

	t.Run("Rejects Unknown Fields And Wrong Kinds", func(t *testing.T) {
		_, err := NewForm(SongSchema).With("owner", Keyword{})
		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

		_, err = NewForm(SongSchema).With("title", NumberRange{})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("Builds Are Fresh", func(t *testing.T) {
		withTitle := NewForm(SongSchema).MustWith("title", Keyword{Text: "Hey"})
		first, err := Compile(withTitle)
		require.NoError(t, err)

		cleared := withTitle.MustWith("title", Keyword{})
		second, err := Compile(cleared)
		require.NoError(t, err)

		_, ok := first.Get("titleKeyword")
		assert.True(t, ok)
		_, ok = second.Get("titleKeyword")
		assert.False(t, ok)
	})

	t.Run("Validation Does Not Mutate", func(t *testing.T) {
		form := NewForm(PlaylistSchema).MustWith("songs", NumberRange{Min: "5", Max: "1"})
		_ = Validate(form)
		assert.Equal(t, NumberRange{Min: "5", Max: "1"}, form.Value("songs"))
	})

	t.Run("Zero Filter Marshals Empty", func(t *testing.T) {
		body, err := json.Marshal(Filter{})
		require.NoError(t, err)
		assert.Equal(t, "{}", string(body))
	})
}

func TestMatchMode(t *testing.T) {
	m, err := ParseMatchMode("EXACT")
	require.NoError(t, err)
	assert.Equal(t, Exact, m)

	m, err = ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, Include, m)

	_, err = ParseMatchMode("fuzzy")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

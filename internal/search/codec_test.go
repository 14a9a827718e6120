package search

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationToSeconds(t *testing.T) {
	tc := []struct {
		name string
		in   Duration
		want int
	}{
		{name: "hour and a half", in: Duration{Hours: "1", Minutes: "30", Seconds: "0"}, want: 5400},
		{name: "empty", in: Duration{}, want: 0},
		{name: "minutes only", in: Duration{Minutes: "5"}, want: 300},
		{name: "seconds past sixty", in: Duration{Seconds: "75"}, want: 75},
		{name: "padded components", in: Duration{Hours: " 0 ", Minutes: "03", Seconds: "07"}, want: 187},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DurationToSeconds(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Rejects Non Numeric Components", func(t *testing.T) {
		for _, d := range []Duration{{Minutes: "five"}, {Seconds: "-1"}, {Hours: "1.5"}} {
			_, err := DurationToSeconds(d)
			assert.ErrorContains(t, err, MsgInvalidNumber, "%+v", d)
		}
	})

	t.Run("Rejects Totals That Overflow", func(t *testing.T) {
		maxHours := math.MaxInt / 3600

		got, err := DurationToSeconds(Duration{Hours: strconv.Itoa(maxHours)})
		require.NoError(t, err)
		assert.Equal(t, maxHours*3600, got)

		for _, d := range []Duration{
			{Hours: strconv.Itoa(maxHours + 1)},
			{Hours: strconv.Itoa(maxHours), Minutes: "60"},
			{Minutes: strconv.Itoa(math.MaxInt/60 + 1)},
		} {
			got, err := DurationToSeconds(d)
			assert.ErrorContains(t, err, MsgInvalidNumber, "%+v", d)
			assert.Zero(t, got)
		}
	})
}

func TestIsValidCalendarDate(t *testing.T) {
	tc := []struct {
		name string
		in   Date
		want bool
	}{
		{name: "february 30th", in: Date{"2024", "2", "30"}, want: false},
		{name: "leap day", in: Date{"2024", "2", "29"}, want: true},
		{name: "leap day in common year", in: Date{"2023", "2", "29"}, want: false},
		{name: "unspecified", in: Date{}, want: true},
		{name: "year only", in: Date{Year: "2024"}, want: false},
		{name: "missing day", in: Date{Year: "2024", Month: "5"}, want: false},
		{name: "day 31 in a 30 day month", in: Date{"2024", "4", "31"}, want: false},
		{name: "month 13", in: Date{"2024", "13", "1"}, want: false},
		{name: "zero padded", in: Date{"1999", "09", "09"}, want: true},
		{name: "year zero", in: Date{"0", "1", "1"}, want: false},
		{name: "letters", in: Date{"20x4", "1", "1"}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCalendarDate(tt.in))
		})
	}
}

func TestDateKeyAndISO(t *testing.T) {
	t.Run("Comparable Key", func(t *testing.T) {
		early, err := DateKey(Date{"2023", "12", "31"})
		require.NoError(t, err)
		late, err := DateKey(Date{"2024", "1", "1"})
		require.NoError(t, err)

		assert.Equal(t, 20231231, early)
		assert.Less(t, early, late)
	})

	t.Run("Zero Padded ISO", func(t *testing.T) {
		got, err := FormatISODate(Date{"2024", "3", "5"})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", got)
	})

	t.Run("Invalid Date Errors", func(t *testing.T) {
		_, err := FormatISODate(Date{"2024", "2", "30"})
		assert.ErrorContains(t, err, MsgInvalidDate)

		_, err = DateKey(Date{Year: "2024"})
		assert.Error(t, err)
	})
}

func TestParseComposites(t *testing.T) {
	t.Run("Durations", func(t *testing.T) {
		assert.Equal(t, Duration{Seconds: "45"}, ParseDuration("45"))
		assert.Equal(t, Duration{Minutes: "5", Seconds: "00"}, ParseDuration("5:00"))
		assert.Equal(t, Duration{Hours: "1", Minutes: "02", Seconds: "03"}, ParseDuration(" 1:02:03 "))
		assert.True(t, ParseDuration("").IsEmpty())

		_, err := DurationToSeconds(ParseDuration("1:2:3:4"))
		assert.Error(t, err)
	})

	t.Run("Dates", func(t *testing.T) {
		assert.Equal(t, Date{"2024", "02", "29"}, ParseDate("2024-02-29"))
		assert.Equal(t, Date{Year: "2024", Month: "02"}, ParseDate("2024-02"))
		assert.True(t, ParseDate("  ").IsEmpty())
		assert.False(t, IsValidCalendarDate(ParseDate("2024")))
	})
}

package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration is a length entered through separate hour, minute and second inputs.
// Blank components count as zero.
type Duration struct {
	Hours   string
	Minutes string
	Seconds string
}

// IsEmpty reports whether no component was entered.
func (d Duration) IsEmpty() bool {
	return blank(d.Hours) && blank(d.Minutes) && blank(d.Seconds)
}

// Date is a calendar date entered through separate year, month and day inputs.
type Date struct {
	Year  string
	Month string
	Day   string
}

// IsEmpty reports whether no component was entered.
func (d Date) IsEmpty() bool {
	return blank(d.Year) && blank(d.Month) && blank(d.Day)
}

// complete reports whether every component was entered.
func (d Date) complete() bool {
	return !blank(d.Year) && !blank(d.Month) && !blank(d.Day)
}

// DurationToSeconds converts d to a number of seconds.
//
// Missing components are zero. There is no upper bound on any component; a present component that is not a
// non-negative integer is an error, and so is a total that does not fit in an int.
func DurationToSeconds(d Duration) (int, error) {
	total := 0
	for _, part := range []struct {
		raw  string
		unit int
	}{{d.Hours, 3600}, {d.Minutes, 60}, {d.Seconds, 1}} {
		n, present, err := parseCount(part.raw)
		if err != nil {
			return 0, err
		}
		if !present {
			continue
		}
		if n > (math.MaxInt-total)/part.unit {
			return 0, fmt.Errorf("%s: %q overflows", MsgInvalidNumber, part.raw)
		}
		total += n * part.unit
	}
	return total, nil
}

// IsValidCalendarDate reports whether d is unspecified (all components blank) or a real calendar date.
//
// A partially entered date is invalid. A complete date is valid only if constructing it does not normalize any
// component, so 2024-02-30 and 2023-02-29 are rejected.
func IsValidCalendarDate(d Date) bool {
	if d.IsEmpty() {
		return true
	}
	if !d.complete() {
		return false
	}
	_, ok := calendarDate(d)
	return ok
}

// DateKey returns a comparable YYYYMMDD scalar for a complete, valid date.
func DateKey(d Date) (int, error) {
	t, ok := calendarDate(d)
	if !ok {
		return 0, fmt.Errorf("%s: %q-%q-%q", MsgInvalidDate, d.Year, d.Month, d.Day)
	}
	return t.Year()*10000 + int(t.Month())*100 + t.Day(), nil
}

// FormatISODate renders a complete, valid date as zero-padded YYYY-MM-DD for the wire.
func FormatISODate(d Date) (string, error) {
	t, ok := calendarDate(d)
	if !ok {
		return "", fmt.Errorf("%s: %q-%q-%q", MsgInvalidDate, d.Year, d.Month, d.Day)
	}
	return t.Format(time.DateOnly), nil
}

// ParseDuration splits "H:MM:SS", "M:SS" or "S" into its components without validating them.
func ParseDuration(s string) Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return Duration{Seconds: parts[0]}
	case 2:
		return Duration{Minutes: parts[0], Seconds: parts[1]}
	case 3:
		return Duration{Hours: parts[0], Minutes: parts[1], Seconds: parts[2]}
	default:
		// Left unsplit so validation reports it as an invalid number.
		return Duration{Seconds: s}
	}
}

// ParseDate splits "YYYY-MM-DD" into its components without validating them.
// "YYYY" and "YYYY-MM" produce partial dates.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	parts := strings.SplitN(s, "-", 3)
	var d Date
	d.Year = parts[0]
	if len(parts) > 1 {
		d.Month = parts[1]
	}
	if len(parts) > 2 {
		d.Day = parts[2]
	}
	return d
}

func calendarDate(d Date) (time.Time, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(d.Year))
	if err != nil || y < 1 || y > 9999 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(d.Month))
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(d.Day))
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseCount parses a non-negative integer input. Blank input is reported as absent.
func parseCount(raw string) (n int, present bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, true, fmt.Errorf("%s: %q", MsgInvalidNumber, raw)
	}
	return n, true, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Package offset converts between UTC instants and the fixed, DST-free
// offsets airports publish as "+HH:MM" / "-HH:MM".
package offset

import (
	"fmt"
	"strconv"
	"time"
)

// FormatError reports a malformed offset string. It signals corrupt
// reference data, not bad user input.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed utc offset %q: %s", e.Value, e.Reason)
}

// Parse turns a signed "HH:MM" offset into a duration east of UTC.
func Parse(s string) (time.Duration, error) {
	if len(s) != 6 || s[3] != ':' {
		return 0, &FormatError{Value: s, Reason: "expected [+-]HH:MM"}
	}

	var sign time.Duration
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, &FormatError{Value: s, Reason: "missing sign"}
	}

	hours, err := strconv.Atoi(s[1:3])
	if err != nil || hours > 23 {
		return 0, &FormatError{Value: s, Reason: "invalid hours"}
	}
	minutes, err := strconv.Atoi(s[4:6])
	if err != nil || minutes > 59 {
		return 0, &FormatError{Value: s, Reason: "invalid minutes"}
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

// Zone returns a fixed time.Location for the offset.
func Zone(s string) (*time.Location, error) {
	d, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return time.FixedZone("UTC"+s, int(d/time.Second)), nil
}

// ToLocal expresses a UTC instant in the airport's local offset.
func ToLocal(t time.Time, off string) (time.Time, error) {
	zone, err := Zone(off)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(zone), nil
}

// ToUTC reads the wall clock of local as a time at the given offset and
// returns the corresponding UTC instant. The location attached to local is
// ignored.
func ToUTC(local time.Time, off string) (time.Time, error) {
	zone, err := Zone(off)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := local.Date()
	wall := time.Date(y, m, d, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), zone)
	return wall.UTC(), nil
}

// Window is a half-open [Start, End) range of UTC instants.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Empty reports whether the window cannot contain any instant.
func (w Window) Empty() bool {
	return !w.End.IsZero() && !w.Start.Before(w.End)
}

// LocalDayWindow anchors at local midnight of date's calendar day and
// extends daysForward after and daysBackward before it.
func LocalDayWindow(date time.Time, off string, daysForward, daysBackward int) (Window, error) {
	zone, err := Zone(off)
	if err != nil {
		return Window{}, err
	}
	y, m, d := date.Date()
	day0 := time.Date(y, m, d, 0, 0, 0, 0, zone)
	return Window{
		Start: day0.AddDate(0, 0, -daysBackward).UTC(),
		End:   day0.AddDate(0, 0, daysForward).UTC(),
	}, nil
}

// DayWindow is the 24h local window for a single calendar date.
func DayWindow(date time.Time, off string) (Window, error) {
	return LocalDayWindow(date, off, 1, 0)
}

// Date truncates t to its calendar date, keeping the date fields as seen in
// t's own location and returning midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LocalDate is the calendar date of instant t at the given offset.
func LocalDate(t time.Time, off string) (time.Time, error) {
	local, err := ToLocal(t, off)
	if err != nil {
		return time.Time{}, err
	}
	return Date(local), nil
}

// FormatDuration renders durations as "2h 5m", or "45m" under an hour.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int(d / time.Minute)
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

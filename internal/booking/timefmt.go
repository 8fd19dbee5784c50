package booking

import (
	"strings"
	"time"
)

// Layouts for timestamps without an offset, read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Layouts with a compact "+hhmm" offset, which RFC 3339 does not allow.
var compactOffsetLayouts = []string{
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999-0700",
}

const isoLayout = "2006-01-02T15:04:05+00:00"

// ParseTime reads an ISO-8601 instant. A trailing Z or any numeric offset is
// honoured; timestamps without an offset are taken as UTC. The result is UTC
// truncated to whole seconds.
func ParseTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	t, err := time.Parse(time.RFC3339Nano, v)
	for _, layout := range compactOffsetLayouts {
		if err == nil {
			break
		}
		t, err = time.Parse(layout, v)
	}
	if err != nil {
		for _, layout := range naiveLayouts {
			if t, err = time.ParseInLocation(layout, v, time.UTC); err == nil {
				break
			}
		}
		if err != nil {
			return time.Time{}, err
		}
	}
	return normalize(t), nil
}

// FormatTime renders t as UTC with an explicit +00:00 offset.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseDate reads a calendar date ("2006-01-02"). A full timestamp is also
// accepted, in which case its written date is used.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if d, err := time.Parse(time.DateOnly, v); err == nil {
		return d, nil
	}
	if len(v) < len(time.DateOnly) {
		return time.Time{}, ErrInvalidDate
	}
	if _, err := ParseTime(v); err != nil {
		return time.Time{}, ErrInvalidDate
	}
	d, err := time.Parse(time.DateOnly, v[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// startOfDay returns UTC midnight of t's UTC date.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from from's date to to's date.
func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

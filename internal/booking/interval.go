package booking

import "time"

// Interval is a half-open span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalizes start and end to UTC seconds and rejects empty or inverted ranges.
func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: normalize(start), End: normalize(end)}
	if !iv.End.After(iv.Start) {
		return Interval{}, ErrInvalidTimeRange
	}
	return iv, nil
}

// Valid reports whether the interval can take part in overlap checks.
// Stored rows with a missing timestamp or a non-positive length are not valid.
func (iv Interval) Valid() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && iv.End.After(iv.Start)
}

// Overlaps reports whether the two intervals share any instant. Touching ends do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// anyOverlap skips invalid entries of existing.
func anyOverlap(existing []Interval, candidate Interval) bool {
	for _, iv := range existing {
		if !iv.Valid() {
			continue
		}
		if iv.Overlaps(candidate) {
			return true
		}
	}
	return false
}

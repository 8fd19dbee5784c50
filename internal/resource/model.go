package resource

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrEmptyName = errors.New("name cannot be empty")
)

// BookingType decides how a resource's day is cut into bookable windows.
type BookingType string

const (
	BookingTypeTimeSlot BookingType = "time-slot"
	BookingTypeFullDay  BookingType = "full-day"
)

// Fallbacks applied when a stored scheduling parameter is out of range.
const (
	DefaultSlotDurationMinutes = 60
	DefaultSlotStartHour       = 6
	DefaultSlotEndHour         = 22
	DefaultMaxFutureDays       = 30
	DefaultMinFutureDays       = 0
	DefaultMaxBookings         = 2
)

// Resource represents a bookable unit (e.g. a laundry room or the guest suite).
// Values are normalized on load; see Normalize.
type Resource struct {
	ID                  int64
	Name                string
	BookingType         BookingType
	IsActive            bool
	SlotDurationMinutes int
	SlotStartHour       int
	SlotEndHour         int
	MaxFutureDays       int
	MinFutureDays       int
	MaxBookings         int
	AllowHouses         RuleSet // empty allows every house
	DenyApartmentIDs    RuleSet
	PriceCents          int
	IsBillable          bool
}

// Normalize replaces out-of-range scheduling parameters with their defaults.
func (r *Resource) Normalize() {
	r.BookingType = ParseBookingType(string(r.BookingType))
	r.SlotDurationMinutes = NormalizeSlotDuration(r.SlotDurationMinutes)
	r.SlotStartHour, r.SlotEndHour = NormalizeWindow(r.SlotStartHour, r.SlotEndHour)
	r.MaxFutureDays = NormalizeMaxFutureDays(r.MaxFutureDays)
	r.MinFutureDays = NormalizeMinFutureDays(r.MinFutureDays)
	r.MaxBookings = NormalizeMaxBookings(r.MaxBookings)
	if r.PriceCents < 0 {
		r.PriceCents = 0
	}
}

// ParseBookingType maps stored or imported type names onto a BookingType.
// Unknown values fall back to time-slot.
func ParseBookingType(raw string) BookingType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "full-day", "daily":
		return BookingTypeFullDay
	default:
		return BookingTypeTimeSlot
	}
}

func NormalizeSlotDuration(minutes int) int {
	if minutes <= 0 {
		return DefaultSlotDurationMinutes
	}
	return minutes
}

// NormalizeWindow returns the daily bookable window [start, end) in hours.
// Any invalid combination resets both ends to the default window.
func NormalizeWindow(start, end int) (int, int) {
	if start < 0 || start > 23 || end < 1 || end > 24 || end <= start {
		return DefaultSlotStartHour, DefaultSlotEndHour
	}
	return start, end
}

func NormalizeMaxFutureDays(days int) int {
	if days <= 0 {
		return DefaultMaxFutureDays
	}
	return days
}

func NormalizeMinFutureDays(days int) int {
	if days < 0 {
		return DefaultMinFutureDays
	}
	return days
}

func NormalizeMaxBookings(n int) int {
	if n <= 0 {
		return DefaultMaxBookings
	}
	return n
}

// RuleSet is a case-insensitive set of strings (house numbers or apartment ids).
type RuleSet map[string]struct{}

// ParseRuleSet parses a stored rule list such as "1|2|3". Pipes, commas,
// semicolons and whitespace are all accepted as separators.
func ParseRuleSet(raw string) RuleSet {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case '|', ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	set := make(RuleSet, len(fields))
	for _, f := range fields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return set
}

func (s RuleSet) Contains(v string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

func (s RuleSet) Empty() bool {
	return len(s) == 0
}

// Values returns the members in sorted order.
func (s RuleSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// String renders the set in its stored "a|b" form.
func (s RuleSet) String() string {
	return strings.Join(s.Values(), "|")
}

// Filter defines parameters for listing active resources.
type Filter struct {
	IDs []int64 // empty lists every active resource
}

package booking

import (
	"time"

	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

// dayWindows cuts day (UTC midnight) into the resource's bookable windows.
// Time-slot resources get consecutive slots that fit entirely inside the
// daily window; full-day resources get the whole day.
func dayWindows(res *resource.Resource, day time.Time) []Interval {
	day = startOfDay(day)
	if res.BookingType == resource.BookingTypeFullDay {
		return []Interval{{Start: day, End: day.AddDate(0, 0, 1)}}
	}

	duration := time.Duration(res.SlotDurationMinutes) * time.Minute
	start, end := resource.NormalizeWindow(res.SlotStartHour, res.SlotEndHour)
	windowEnd := day.Add(time.Duration(end) * time.Hour)

	var out []Interval
	for current := day.Add(time.Duration(start) * time.Hour); !current.Add(duration).After(windowEnd); current = current.Add(duration) {
		out = append(out, Interval{Start: current, End: current.Add(duration)})
	}
	return out
}

func buildSlots(resourceID int64, windows []Interval, booked []Interval, now time.Time) []Slot {
	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		s := Slot{
			ResourceID: resourceID,
			StartTime:  w.Start,
			EndTime:    w.End,
			IsBooked:   anyOverlap(booked, w),
			IsPast:     !w.End.After(now),
		}
		s.IsAvailable = !s.IsBooked && !s.IsPast
		slots = append(slots, s)
	}
	return slots
}

// dayAvailability describes one full day. Days outside the future window are
// reported as neither booked nor available.
func dayAvailability(res *resource.Resource, day time.Time, booked []Interval, now time.Time) DayAvailability {
	day = startOfDay(day)
	w := Interval{Start: day, End: day.AddDate(0, 0, 1)}
	d := DayAvailability{
		Date:      day,
		StartTime: w.Start,
		EndTime:   w.End,
		IsPast:    !w.End.After(now),
	}
	if !withinFutureWindow(res, daysBetween(now, day)) {
		return d
	}
	d.IsBooked = anyOverlap(booked, w)
	d.IsAvailable = !d.IsBooked && !d.IsPast
	return d
}

package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/brf-booking-backend/internal/apartment"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memRepo struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	nextID   int64
	bookings []*Booking
	// broken holds stored rows that cannot take part in overlap checks.
	broken []*Booking
	// apartments, when set, plays the bookings.apartment_id foreign key.
	apartments map[string]bool
	// deactivated marks resources switched off after the access check.
	deactivated map[int64]bool
}

func (r *memRepo) IsResourceActive(_ context.Context, resourceID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.deactivated[resourceID], nil
}

func (r *memRepo) WithinTx(ctx context.Context, _ int64, _ string, fn func(ctx context.Context, tx Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := append([]*Booking(nil), r.bookings...)
	r.mu.Unlock()

	if err := fn(ctx, r); err != nil {
		r.mu.Lock()
		r.bookings = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memRepo) Insert(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.apartments != nil && !r.apartments[b.ApartmentID] {
		return ErrApartmentNotFound
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64, apartmentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bookings {
		if b.ID == id && (apartmentID == "" || b.ApartmentID == apartmentID) {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memRepo) intervals(match func(*Booking) bool) []Interval {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Interval
	for _, list := range [][]*Booking{r.bookings, r.broken} {
		for _, b := range list {
			if match(b) {
				out = append(out, Interval{Start: b.StartTime, End: b.EndTime})
			}
		}
	}
	return out
}

func (r *memRepo) ListResourceIntervals(_ context.Context, resourceID int64) ([]Interval, error) {
	return r.intervals(func(b *Booking) bool { return b.ResourceID == resourceID }), nil
}

func (r *memRepo) ListApartmentIntervals(_ context.Context, apartmentID string) ([]Interval, error) {
	return r.intervals(func(b *Booking) bool { return b.ApartmentID == apartmentID }), nil
}

func (r *memRepo) CountFutureBookings(_ context.Context, apartmentID string, resourceID int64, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.bookings {
		if b.ApartmentID == apartmentID && b.ResourceID == resourceID && b.EndTime.After(now) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListCalendar(_ context.Context, filter CalendarFilter) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if filter.ResourceID != nil && b.ResourceID != *filter.ResourceID {
			continue
		}
		if filter.From != nil && !b.EndTime.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) ListByApartment(_ context.Context, apartmentID string) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if b.ApartmentID == apartmentID {
			out = append(out, b)
		}
	}
	return out, nil
}

// seed stores a booking directly, bypassing every rule.
func (r *memRepo) seed(apartmentID string, resourceID int64, start, end time.Time) {
	_ = r.Insert(context.Background(), &Booking{ApartmentID: apartmentID, ResourceID: resourceID, StartTime: start, EndTime: end})
}

type memCatalog struct {
	resources map[int64]*resource.Resource
}

func newCatalog(resources ...*resource.Resource) *memCatalog {
	c := &memCatalog{resources: map[int64]*resource.Resource{}}
	for _, r := range resources {
		c.resources[r.ID] = r
	}
	return c
}

func (c *memCatalog) GetByID(_ context.Context, id int64) (*resource.Resource, error) {
	r, ok := c.resources[id]
	if !ok || !r.IsActive {
		return nil, resource.ErrNotFound
	}
	return r, nil
}

func (c *memCatalog) ListActive(_ context.Context, ids ...int64) ([]*resource.Resource, error) {
	var out []*resource.Resource
	for _, r := range c.resources {
		if !r.IsActive {
			continue
		}
		if len(ids) > 0 {
			found := false
			for _, id := range ids {
				found = found || id == r.ID
			}
			if !found {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memDirectory answers from stored houses, falling back to the id prefix.
type memDirectory struct {
	houses map[string]string
}

func (d memDirectory) GetHouse(_ context.Context, apartmentID string) (string, error) {
	if h, ok := d.houses[apartmentID]; ok {
		return h, nil
	}
	return apartment.DeriveHouse(apartmentID), nil
}

func newResource(id int64, opts ...func(*resource.Resource)) *resource.Resource {
	r := &resource.Resource{
		ID:                  id,
		Name:                "Tvättstuga",
		BookingType:         resource.BookingTypeTimeSlot,
		IsActive:            true,
		SlotDurationMinutes: 60,
		SlotStartHour:       6,
		SlotEndHour:         22,
		MaxFutureDays:       30,
		MinFutureDays:       0,
		MaxBookings:         2,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Normalize()
	return r
}

func fullDay(r *resource.Resource) { r.BookingType = resource.BookingTypeFullDay }

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

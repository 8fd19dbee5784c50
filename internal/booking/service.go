package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

// ResourceCatalog provides active resources only.
type ResourceCatalog interface {
	GetByID(ctx context.Context, id int64) (*resource.Resource, error)
	ListActive(ctx context.Context, ids ...int64) ([]*resource.Resource, error)
}

// ApartmentDirectory resolves an apartment's house, "" when unknown.
type ApartmentDirectory interface {
	GetHouse(ctx context.Context, apartmentID string) (string, error)
}

type Service interface {
	HasOverlap(ctx context.Context, resourceID int64, apartmentID string, start, end time.Time) (bool, error)
	CanAccessResource(ctx context.Context, resourceID int64, apartmentID string, isAdmin bool) (bool, error)
	// Create runs the access, range, overlap, window and quota checks and
	// inserts the booking only when all of them pass.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Cancel reports whether a booking was deleted. Non-admins can only
	// delete their own bookings.
	Cancel(ctx context.Context, bookingID int64, apartmentID string, isAdmin bool) (bool, error)
	ListSlots(ctx context.Context, q SlotQuery) ([]Slot, error)
	ListFullDayAvailabilityRange(ctx context.Context, q RangeQuery) ([]DayAvailability, error)
	AdminCalendar(ctx context.Context, filter CalendarFilter) ([]*Booking, error)
	ListForApartment(ctx context.Context, apartmentID string) ([]*Booking, error)
}

type service struct {
	repo       Repository
	catalog    ResourceCatalog
	apartments ApartmentDirectory
	clock      Clock
	log        *zap.Logger
}

func NewService(repo Repository, catalog ResourceCatalog, apartments ApartmentDirectory, clock Clock, log *zap.Logger) Service {
	if clock == nil {
		clock = RealClock{}
	}
	return &service{
		repo:       repo,
		catalog:    catalog,
		apartments: apartments,
		clock:      clock,
		log:        log,
	}
}

func (s *service) now() time.Time {
	return normalize(s.clock.Now())
}

// activeResource returns nil for unknown and inactive resources.
func (s *service) activeResource(ctx context.Context, id int64) (*resource.Resource, error) {
	res, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !res.IsActive {
		return nil, nil
	}
	return res, nil
}

func (s *service) HasOverlap(ctx context.Context, resourceID int64, apartmentID string, start, end time.Time) (bool, error) {
	candidate, err := NewInterval(start, end)
	if err != nil {
		return false, err
	}
	return hasOverlap(ctx, s.repo, resourceID, apartmentID, candidate)
}

func hasOverlap(ctx context.Context, repo Repository, resourceID int64, apartmentID string, candidate Interval) (bool, error) {
	byResource, err := repo.ListResourceIntervals(ctx, resourceID)
	if err != nil {
		return false, err
	}
	if anyOverlap(byResource, candidate) {
		return true, nil
	}

	byApartment, err := repo.ListApartmentIntervals(ctx, apartmentID)
	if err != nil {
		return false, err
	}
	return anyOverlap(byApartment, candidate), nil
}

func (s *service) CanAccessResource(ctx context.Context, resourceID int64, apartmentID string, isAdmin bool) (bool, error) {
	res, err := s.activeResource(ctx, resourceID)
	if err != nil {
		return false, err
	}
	return allowAccess(ctx, res, apartmentID, isAdmin, s.apartments.GetHouse)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	res, err := s.activeResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	allowed, err := allowAccess(ctx, res, req.ApartmentID, req.IsAdmin, s.apartments.GetHouse)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrResourceForbidden
	}

	candidate, err := NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// Everything inside fn runs on the transaction's connection only.
	var created *Booking
	err = s.repo.WithinTx(ctx, req.ResourceID, req.ApartmentID, func(ctx context.Context, tx Repository) error {
		overlap, err := hasOverlap(ctx, tx, req.ResourceID, req.ApartmentID, candidate)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}

		active, err := tx.IsResourceActive(ctx, req.ResourceID)
		if err != nil {
			return err
		}
		if !active {
			return ErrResourceForbidden
		}

		now := s.now()
		if candidate.Start.After(now) && !withinFutureWindow(res, daysBetween(now, candidate.Start)) {
			return ErrOutsideBookingWindow
		}

		if candidate.End.After(now) {
			count, err := tx.CountFutureBookings(ctx, req.ApartmentID, req.ResourceID, now)
			if err != nil {
				return err
			}
			if count >= res.MaxBookings {
				return ErrMaxBookings
			}
		}

		billable := res.IsBillable
		if req.IsBillable != nil {
			billable = *req.IsBillable
		}
		b := &Booking{
			ApartmentID:  req.ApartmentID,
			ResourceID:   req.ResourceID,
			StartTime:    candidate.Start,
			EndTime:      candidate.End,
			IsBillable:   billable,
			ResourceName: res.Name,
			BookingType:  res.BookingType,
			PriceCents:   res.PriceCents,
		}
		if err := tx.Insert(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", created.ID),
		zap.String("apartment_id", created.ApartmentID),
		zap.Int64("resource_id", created.ResourceID),
		zap.Time("start_time", created.StartTime),
		zap.Time("end_time", created.EndTime),
	)
	return created, nil
}

func (s *service) Cancel(ctx context.Context, bookingID int64, apartmentID string, isAdmin bool) (bool, error) {
	owner := apartmentID
	if isAdmin {
		owner = ""
	} else if owner == "" {
		return false, nil
	}

	n, err := s.repo.Delete(ctx, bookingID, owner)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.log.Info("booking cancelled",
			zap.Int64("booking_id", bookingID),
			zap.String("apartment_id", apartmentID),
			zap.Bool("is_admin", isAdmin),
		)
	}
	return n > 0, nil
}

func (s *service) ListSlots(ctx context.Context, q SlotQuery) ([]Slot, error) {
	if q.Date == "" {
		return []Slot{}, nil
	}
	day, err := ParseDate(q.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var ids []int64
	if q.ResourceID != nil {
		ids = []int64{*q.ResourceID}
	}
	resources, err := s.catalog.ListActive(ctx, ids...)
	if err != nil {
		return nil, err
	}

	now := s.now()
	daysAhead := daysBetween(now, day)
	slots := []Slot{}
	for _, res := range resources {
		if !q.IsAdmin {
			ok, err := allowAccess(ctx, res, q.ApartmentID, false, s.apartments.GetHouse)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		if !withinFutureWindow(res, daysAhead) {
			continue
		}

		booked, err := s.repo.ListResourceIntervals(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		slots = append(slots, buildSlots(res.ID, dayWindows(res, day), booked, now)...)
	}
	return slots, nil
}

func (s *service) ListFullDayAvailabilityRange(ctx context.Context, q RangeQuery) ([]DayAvailability, error) {
	from, err := ParseDate(q.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	to, err := ParseDate(q.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	if daysBetween(from, to) >= MaxRangeDays {
		return nil, ErrDateRangeTooLarge
	}

	res, err := s.activeResource(ctx, q.ResourceID)
	if err != nil {
		return nil, err
	}
	allowed, err := allowAccess(ctx, res, q.ApartmentID, q.IsAdmin, s.apartments.GetHouse)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []DayAvailability{}, nil
	}

	booked, err := s.repo.ListResourceIntervals(ctx, res.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	days := make([]DayAvailability, 0, daysBetween(from, to)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, dayAvailability(res, day, booked, now))
	}
	return days, nil
}

func (s *service) AdminCalendar(ctx context.Context, filter CalendarFilter) ([]*Booking, error) {
	return s.repo.ListCalendar(ctx, filter)
}

func (s *service) ListForApartment(ctx context.Context, apartmentID string) ([]*Booking, error) {
	return s.repo.ListByApartment(ctx, apartmentID)
}

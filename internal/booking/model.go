package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

var (
	ErrInvalidTimeRange     = apperror.New(http.StatusBadRequest, "invalid_time_range")
	ErrResourceForbidden    = apperror.New(http.StatusForbidden, "resource_forbidden")
	ErrOverlap              = apperror.New(http.StatusConflict, "overlap")
	ErrOutsideBookingWindow = apperror.New(http.StatusConflict, "outside_booking_window")
	ErrMaxBookings          = apperror.New(http.StatusConflict, "max_bookings_reached")
	ErrInvalidDate          = apperror.New(http.StatusBadRequest, "invalid_date")
	ErrInvalidDateRange     = apperror.New(http.StatusBadRequest, "invalid_date_range")
	ErrDateRangeTooLarge    = apperror.New(http.StatusBadRequest, "date_range_too_large")
	ErrApartmentNotFound    = apperror.New(http.StatusNotFound, "apartment_not_found")
	ErrTransient            = apperror.New(http.StatusServiceUnavailable, "transient_error")
)

// MaxRangeDays bounds ListFullDayAvailabilityRange: end minus start must stay below it.
const MaxRangeDays = 366

// Booking is a reserved interval. Times are UTC with second precision.
type Booking struct {
	ID          int64
	ApartmentID string
	ResourceID  int64
	StartTime   time.Time
	EndTime     time.Time
	IsBillable  bool
	CreatedAt   time.Time

	// Joined from the resource on read.
	ResourceName string
	BookingType  resource.BookingType
	PriceCents   int
}

// Slot is one bookable window of a resource.
type Slot struct {
	ResourceID  int64
	StartTime   time.Time
	EndTime     time.Time
	IsBooked    bool
	IsPast      bool
	IsAvailable bool
}

// DayAvailability describes one calendar day of a full-day resource.
type DayAvailability struct {
	Date        time.Time
	StartTime   time.Time
	EndTime     time.Time
	IsBooked    bool
	IsPast      bool
	IsAvailable bool
}

type CreateRequest struct {
	ApartmentID string
	ResourceID  int64
	StartTime   time.Time
	EndTime     time.Time
	IsBillable  *bool // nil takes the resource's flag
	IsAdmin     bool
}

type SlotQuery struct {
	ResourceID  *int64 // nil lists every active resource
	Date        string // empty yields no slots
	ApartmentID string
	IsAdmin     bool
}

type RangeQuery struct {
	ResourceID  int64
	StartDate   string
	EndDate     string
	ApartmentID string
	IsAdmin     bool
}

// CalendarFilter narrows the admin calendar. Zero values match everything.
type CalendarFilter struct {
	ResourceID *int64
	From       *time.Time // bookings ending after From
	To         *time.Time // bookings starting before To
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

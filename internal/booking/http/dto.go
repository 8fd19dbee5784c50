package http

import (
	"github.com/nekogravitycat/brf-booking-backend/internal/booking"
)

type BookingResponse struct {
	ID           int64  `json:"id"`
	ApartmentID  string `json:"apartment_id"`
	ResourceID   int64  `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	BookingType  string `json:"booking_type"`
	PriceCents   int    `json:"price_cents"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsBillable   bool   `json:"is_billable"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		ApartmentID:  b.ApartmentID,
		ResourceID:   b.ResourceID,
		ResourceName: b.ResourceName,
		BookingType:  string(b.BookingType),
		PriceCents:   b.PriceCents,
		StartTime:    booking.FormatTime(b.StartTime),
		EndTime:      booking.FormatTime(b.EndTime),
		IsBillable:   b.IsBillable,
	}
}

type BookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

func NewBookingsResponse(list []*booking.Booking) BookingsResponse {
	items := make([]BookingResponse, len(list))
	for i, b := range list {
		items[i] = NewBookingResponse(b)
	}
	return BookingsResponse{Bookings: items}
}

type BookRequest struct {
	ApartmentID string `json:"apartment_id" binding:"required,apartment_id"`
	ResourceID  int64  `json:"resource_id" binding:"required,gt=0"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsBillable  *bool  `json:"is_billable"`
}

type BookResponse struct {
	BookingID int64 `json:"booking_id"`
}

type CancelRequest struct {
	BookingID int64 `json:"booking_id" binding:"required,gt=0"`
}

type SlotsRequest struct {
	ResourceID *int64 `form:"resource_id" binding:"omitempty,gt=0"`
	Date       string `form:"date"`
}

type SlotResponse struct {
	ResourceID  int64  `json:"resource_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsBooked    bool   `json:"is_booked"`
	IsPast      bool   `json:"is_past"`
	IsAvailable bool   `json:"is_available"`
}

type SlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func NewSlotsResponse(slots []booking.Slot) SlotsResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{
			ResourceID:  s.ResourceID,
			StartTime:   booking.FormatTime(s.StartTime),
			EndTime:     booking.FormatTime(s.EndTime),
			IsBooked:    s.IsBooked,
			IsPast:      s.IsPast,
			IsAvailable: s.IsAvailable,
		}
	}
	return SlotsResponse{Slots: items}
}

type AvailabilityRangeRequest struct {
	ResourceID int64  `form:"resource_id" binding:"required,gt=0"`
	StartDate  string `form:"start_date" binding:"required"`
	EndDate    string `form:"end_date" binding:"required"`
}

type DayAvailabilityResponse struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsBooked    bool   `json:"is_booked"`
	IsPast      bool   `json:"is_past"`
	IsAvailable bool   `json:"is_available"`
}

type AvailabilityRangeResponse struct {
	Availability []DayAvailabilityResponse `json:"availability"`
}

func NewAvailabilityRangeResponse(days []booking.DayAvailability) AvailabilityRangeResponse {
	items := make([]DayAvailabilityResponse, len(days))
	for i, d := range days {
		items[i] = DayAvailabilityResponse{
			Date:        d.Date.Format("2006-01-02"),
			StartTime:   booking.FormatTime(d.StartTime),
			EndTime:     booking.FormatTime(d.EndTime),
			IsBooked:    d.IsBooked,
			IsPast:      d.IsPast,
			IsAvailable: d.IsAvailable,
		}
	}
	return AvailabilityRangeResponse{Availability: items}
}

// CalendarRequest defines the optional admin calendar filters.
type CalendarRequest struct {
	ResourceID *int64 `form:"resource_id" binding:"omitempty,gt=0"`
	From       string `form:"from"`
	To         string `form:"to"`
}

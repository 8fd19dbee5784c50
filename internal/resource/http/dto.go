package http

import (
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

type ResourceResponse struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	BookingType         string   `json:"booking_type"`
	SlotDurationMinutes int      `json:"slot_duration_minutes"`
	SlotStartHour       int      `json:"slot_start_hour"`
	SlotEndHour         int      `json:"slot_end_hour"`
	MaxFutureDays       int      `json:"max_future_days"`
	MinFutureDays       int      `json:"min_future_days"`
	MaxBookings         int      `json:"max_bookings"`
	AllowHouses         []string `json:"allow_houses"`
	DenyApartmentIDs    []string `json:"deny_apartment_ids"`
	PriceCents          int      `json:"price_cents"`
	IsBillable          bool     `json:"is_billable"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:                  r.ID,
		Name:                r.Name,
		BookingType:         string(r.BookingType),
		SlotDurationMinutes: r.SlotDurationMinutes,
		SlotStartHour:       r.SlotStartHour,
		SlotEndHour:         r.SlotEndHour,
		MaxFutureDays:       r.MaxFutureDays,
		MinFutureDays:       r.MinFutureDays,
		MaxBookings:         r.MaxBookings,
		AllowHouses:         r.AllowHouses.Values(),
		DenyApartmentIDs:    r.DenyApartmentIDs.Values(),
		PriceCents:          r.PriceCents,
		IsBillable:          r.IsBillable,
	}
}

type ResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

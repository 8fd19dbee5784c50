package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/booking"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// ListMine returns the caller's own bookings.
func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListForApartment(c.Request.Context(), auth.GetApartmentID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingsResponse(list))
}

func (h *Handler) Book(c *gin.Context) {
	var body BookRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	isAdmin := auth.IsAdmin(c)
	if !isAdmin && body.ApartmentID != auth.GetApartmentID(c) {
		response.Abort(c, http.StatusForbidden, "forbidden")
		return
	}

	start, err := booking.ParseTime(body.StartTime)
	if err != nil {
		response.Error(c, booking.ErrInvalidTimeRange)
		return
	}
	end, err := booking.ParseTime(body.EndTime)
	if err != nil {
		response.Error(c, booking.ErrInvalidTimeRange)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ApartmentID: body.ApartmentID,
		ResourceID:  body.ResourceID,
		StartTime:   start,
		EndTime:     end,
		IsBillable:  body.IsBillable,
		IsAdmin:     isAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, BookResponse{BookingID: b.ID})
}

func (h *Handler) Cancel(c *gin.Context) {
	var body CancelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ok, err := h.service.Cancel(c.Request.Context(), body.BookingID, auth.GetApartmentID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Abort(c, http.StatusNotFound, "not_found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Slots(c *gin.Context) {
	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	slots, err := h.service.ListSlots(c.Request.Context(), booking.SlotQuery{
		ResourceID:  req.ResourceID,
		Date:        req.Date,
		ApartmentID: auth.GetApartmentID(c),
		IsAdmin:     auth.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotsResponse(slots))
}

func (h *Handler) AvailabilityRange(c *gin.Context) {
	var req AvailabilityRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	days, err := h.service.ListFullDayAvailabilityRange(c.Request.Context(), booking.RangeQuery{
		ResourceID:  req.ResourceID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ApartmentID: auth.GetApartmentID(c),
		IsAdmin:     auth.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityRangeResponse(days))
}

func (h *Handler) Calendar(c *gin.Context) {
	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.CalendarFilter{ResourceID: req.ResourceID}
	if req.From != "" {
		from, err := booking.ParseTime(req.From)
		if err != nil {
			response.Error(c, booking.ErrInvalidDate)
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := booking.ParseTime(req.To)
		if err != nil {
			response.Error(c, booking.ErrInvalidDate)
			return
		}
		filter.To = &to
	}

	list, err := h.service.AdminCalendar(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingsResponse(list))
}

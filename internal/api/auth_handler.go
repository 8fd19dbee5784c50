package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/apartment"
	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/booking"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/brf-booking-backend/internal/roster"
)

const bookingURL = "/booking"

// RosterLookup resolves RFID tags.
type RosterLookup interface {
	Lookup(uid string) (roster.Entry, bool)
	Len() int
}

type AuthHandler struct {
	apartments apartment.Service
	roster     RosterLookup
	sessions   *auth.SessionManager
	crossSite  bool
	log        *zap.Logger
}

func NewAuthHandler(
	apartments apartment.Service,
	roster RosterLookup,
	sessions *auth.SessionManager,
	crossSite bool,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		apartments: apartments,
		roster:     roster,
		sessions:   sessions,
		crossSite:  crossSite,
		log:        log,
	}
}

//
// POST /rfid-login
//

func (h *AuthHandler) RFIDLogin(c *gin.Context) {
	var req RFIDLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, ok := h.roster.Lookup(req.UID)
	h.log.Info("rfid login attempt",
		zap.Bool("known", ok),
		zap.Int("roster_size", h.roster.Len()),
	)
	if !ok || !entry.Active {
		response.Abort(c, http.StatusUnauthorized, "invalid_rfid")
		return
	}

	a, err := h.apartments.EnsureFromRoster(c.Request.Context(), entry.Profile())
	if err != nil {
		if errors.Is(err, apartment.ErrInactive) || errors.Is(err, apartment.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, "inactive_apartment")
			return
		}
		response.Error(c, err)
		return
	}

	h.startSession(c, a)
}

//
// POST /mobile-login
//

func (h *AuthHandler) MobileLogin(c *gin.Context) {
	var req MobileLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	a, err := h.apartments.Login(c.Request.Context(), req.ApartmentID, req.Password)
	if err != nil {
		if errors.Is(err, apartment.ErrInvalidCredentials) {
			response.Abort(c, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		response.Error(c, err)
		return
	}

	h.startSession(c, a)
}

func (h *AuthHandler) startSession(c *gin.Context, a *apartment.Apartment) {
	token, _, err := h.sessions.Issue(a.ID, a.IsAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sessions.SetCookie(c, token, h.crossSite)

	c.JSON(http.StatusOK, LoginResponse{
		BookingURL:  bookingURL,
		ApartmentID: a.ID,
	})
}

//
// POST /mobile-password
//

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req MobilePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.apartments.ChangePassword(c.Request.Context(), auth.GetApartmentID(c), req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	case errors.Is(err, apartment.ErrPasswordTooShort):
		response.Abort(c, http.StatusBadRequest, "password_too_short")
	case errors.Is(err, apartment.ErrNotFound):
		response.Abort(c, http.StatusNotFound, "apartment_not_found")
	default:
		response.Error(c, err)
	}
}

//
// GET /session
//

func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{
		Status:      "ok",
		ApartmentID: auth.GetApartmentID(c),
		IsAdmin:     auth.IsAdmin(c),
		ExpiresAt:   booking.FormatTime(auth.GetExpiresAt(c)),
	})
}

//
// POST /logout
//

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c, h.crossSite)
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

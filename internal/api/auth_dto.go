package api

// RFIDLoginRequest is the payload for POST /rfid-login.
type RFIDLoginRequest struct {
	UID string `json:"uid" binding:"required,max=128"`
}

// MobileLoginRequest is the payload for POST /mobile-login.
type MobileLoginRequest struct {
	ApartmentID string `json:"apartment_id" binding:"required,apartment_id"`
	Password    string `json:"password" binding:"required"`
}

// MobilePasswordRequest is the payload for POST /mobile-password.
type MobilePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// LoginResponse is returned by both login endpoints.
type LoginResponse struct {
	BookingURL  string `json:"booking_url"`
	ApartmentID string `json:"apartment_id"`
}

// SessionResponse is the response for GET /session.
type SessionResponse struct {
	Status      string `json:"status"`
	ApartmentID string `json:"apartment_id"`
	IsAdmin     bool   `json:"is_admin"`
	ExpiresAt   string `json:"expires_at"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

package auth

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ctxApartmentID = "apartmentID"
	ctxIsAdmin     = "isAdmin"
	ctxExpiresAt   = "sessionExpiresAt"
)

// GetApartmentID returns the authenticated apartment's ID or empty string.
func GetApartmentID(c *gin.Context) string {
	return c.GetString(ctxApartmentID)
}

// IsAdmin reports whether the session belongs to an administrator.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxIsAdmin)
}

// GetExpiresAt returns when the current session expires.
func GetExpiresAt(c *gin.Context) time.Time {
	return c.GetTime(ctxExpiresAt)
}

func setSession(c *gin.Context, claims *Claims) {
	c.Set(ctxApartmentID, claims.ApartmentID)
	c.Set(ctxIsAdmin, claims.IsAdmin)
	if claims.ExpiresAt != nil {
		c.Set(ctxExpiresAt, claims.ExpiresAt.UTC())
	}
}

package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/response"
)

// SessionRequired is a Gin middleware that validates the session cookie.
// An Authorization: Bearer <token> header is accepted as well.
func SessionRequired(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, _ := c.Cookie(SessionCookie)
		if tokenStr == "" {
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := sessions.Parse(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

// AdminRequired rejects sessions without the admin flag. It must run after SessionRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

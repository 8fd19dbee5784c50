package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// Claims defines the JWT claims we embed in a session token.
type Claims struct {
	ApartmentID string `json:"apartment_id"`
	IsAdmin     bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates signed session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a new session manager.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token for the apartment and returns it with its expiry.
func (m *SessionManager) Issue(apartmentID string, isAdmin bool) (string, time.Time, error) {
	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		ApartmentID: apartmentID,
		IsAdmin:     isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   apartmentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a token and returns its claims.
func (m *SessionManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ApartmentID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// SetCookie writes the session cookie. Browsers only send SameSite=None
// cookies over HTTPS, so secure is forced when sameSiteNone is set.
func (m *SessionManager) SetCookie(c *gin.Context, token string, sameSiteNone bool) {
	writeSessionCookie(c, token, int(m.ttl.Seconds()), sameSiteNone)
}

// ClearCookie expires the session cookie. sameSiteNone must match the value
// the cookie was set with or cross-site browsers ignore the expiry.
func (m *SessionManager) ClearCookie(c *gin.Context, sameSiteNone bool) {
	writeSessionCookie(c, "", -1, sameSiteNone)
}

func writeSessionCookie(c *gin.Context, value string, maxAge int, sameSiteNone bool) {
	if sameSiteNone {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(SessionCookie, value, maxAge, "/", "", sameSiteNone, true)
}

package apartment

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("apartment not found")
	ErrInvalidCredentials = errors.New("invalid apartment id or password")
	ErrInactive           = errors.New("apartment is inactive")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// UnknownHouse is returned by DeriveHouse when the id carries no numeric house prefix.
const UnknownHouse = ""

// Apartment is a household identified by "<house>-<skvLgh>", e.g. "1-1001".
type Apartment struct {
	ID           string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	House        *string
	LghInternal  *string
	SkvLgh       *string
	AccessGroups *string
	CreatedAt    time.Time
}

// EffectiveHouse returns the stored house, or the one derived from the id when blank.
func (a *Apartment) EffectiveHouse() string {
	if a.House != nil {
		if h := strings.TrimSpace(*a.House); h != "" {
			return h
		}
	}
	return DeriveHouse(a.ID)
}

// DeriveHouse takes the part of apartmentID before the first "-". It must be
// all digits, otherwise the house is unknown.
func DeriveHouse(apartmentID string) string {
	prefix, _, _ := strings.Cut(strings.TrimSpace(apartmentID), "-")
	if prefix == "" {
		return UnknownHouse
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return UnknownHouse
		}
	}
	return prefix
}

// RosterProfile carries the roster attributes used to provision an apartment.
type RosterProfile struct {
	ApartmentID  string
	House        string
	LghInternal  string
	SkvLgh       string
	AccessGroups string
}

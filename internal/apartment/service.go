package apartment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
)

const minPasswordLength = 4

// Service defines business logic related to apartments.
type Service interface {
	GetByID(ctx context.Context, id string) (*Apartment, error)
	// GetHouse returns the apartment's house for access checks, or UnknownHouse.
	GetHouse(ctx context.Context, id string) (string, error)
	Login(ctx context.Context, id, password string) (*Apartment, error)
	ChangePassword(ctx context.Context, id, newPassword string) error
	// EnsureFromRoster provisions an apartment seen in the RFID roster.
	EnsureFromRoster(ctx context.Context, p RosterProfile) (*Apartment, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

// NewService creates a new apartment Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Apartment, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *service) GetHouse(ctx context.Context, id string) (string, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeriveHouse(id), nil
		}
		return UnknownHouse, err
	}
	return a.EffectiveHouse(), nil
}

func (s *service) Login(ctx context.Context, id, password string) (*Apartment, error) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch apartment: %w", err)
	}

	if !a.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a, nil
}

func (s *service) ChangePassword(ctx context.Context, id, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, id, hash)
}

func (s *service) EnsureFromRoster(ctx context.Context, p RosterProfile) (*Apartment, error) {
	id := strings.TrimSpace(p.ApartmentID)
	if id == "" {
		return nil, ErrNotFound
	}

	// Blank roster columns keep what is stored; the house falls back to the
	// id prefix at read time.
	a := &Apartment{
		ID:           id,
		IsActive:     true,
		House:        optional(p.House),
		LghInternal:  optional(p.LghInternal),
		SkvLgh:       optional(p.SkvLgh),
		AccessGroups: optional(p.AccessGroups),
	}

	existing, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		a.PasswordHash = existing.PasswordHash
	case errors.Is(err, ErrNotFound):
		// New apartments get an unguessable password until the tenant sets one.
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("failed to hash initial password: %w", err)
		}
		a.PasswordHash = hash
	default:
		return nil, fmt.Errorf("failed to fetch apartment: %w", err)
	}

	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrInactive
	}
	return a, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

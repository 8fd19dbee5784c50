package resource

import (
	"context"
	"strings"
)

type Service interface {
	// GetByID returns an active resource or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Resource, error)
	// ListActive returns active resources ordered by id, optionally restricted to ids.
	ListActive(ctx context.Context, ids ...int64) ([]*Resource, error)
	Create(ctx context.Context, res *Resource) error
	ListNames(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.GetActiveByID(ctx, id)
}

func (s *service) ListActive(ctx context.Context, ids ...int64) ([]*Resource, error) {
	return s.repo.ListActive(ctx, Filter{IDs: ids})
}

func (s *service) Create(ctx context.Context, res *Resource) error {
	res.Name = strings.TrimSpace(res.Name)
	if res.Name == "" {
		return ErrEmptyName
	}
	res.Normalize()
	return s.repo.Create(ctx, res)
}

func (s *service) ListNames(ctx context.Context) ([]string, error) {
	return s.repo.ListNames(ctx)
}

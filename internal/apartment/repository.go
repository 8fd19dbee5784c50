package apartment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing apartment data from storage.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Apartment, error)
	// Upsert inserts the apartment or refreshes its roster attributes,
	// leaving password, active and admin flags of an existing row alone.
	// a is updated with the stored row.
	Upsert(ctx context.Context, a *Apartment) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Apartment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "password_hash", "is_active", "is_admin",
		"house", "lgh_internal", "skv_lgh", "access_groups", "created_at",
	).
		From("public.apartments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get apartment query failed: %w", err)
	}

	var a Apartment
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.PasswordHash, &a.IsActive, &a.IsAdmin,
		&a.House, &a.LghInternal, &a.SkvLgh, &a.AccessGroups, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get apartment failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, a *Apartment) error {
	const query = `
		INSERT INTO public.apartments (id, password_hash, is_active, house, lgh_internal, skv_lgh, access_groups)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			house         = COALESCE(EXCLUDED.house, public.apartments.house),
			lgh_internal  = COALESCE(EXCLUDED.lgh_internal, public.apartments.lgh_internal),
			skv_lgh       = COALESCE(EXCLUDED.skv_lgh, public.apartments.skv_lgh),
			access_groups = COALESCE(EXCLUDED.access_groups, public.apartments.access_groups)
		RETURNING is_active, is_admin, house, lgh_internal, skv_lgh, access_groups, created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		a.ID, a.PasswordHash, a.IsActive, a.House, a.LghInternal, a.SkvLgh, a.AccessGroups,
	).Scan(&a.IsActive, &a.IsAdmin, &a.House, &a.LghInternal, &a.SkvLgh, &a.AccessGroups, &a.CreatedAt); err != nil {
		return fmt.Errorf("upsert apartment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.apartments").
		Set("password_hash", hash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update password failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

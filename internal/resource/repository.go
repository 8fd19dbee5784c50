package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNameTaken = errors.New("resource name already exists")

type Repository interface {
	// GetActiveByID returns ErrNotFound for unknown and inactive resources alike.
	GetActiveByID(ctx context.Context, id int64) (*Resource, error)
	ListActive(ctx context.Context, filter Filter) ([]*Resource, error)
	ListNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, res *Resource) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var resourceColumns = []string{
	"id", "name", "booking_type", "slot_duration_minutes", "slot_start_hour", "slot_end_hour",
	"max_future_days", "min_future_days", "max_bookings", "allow_houses", "deny_apartment_ids",
	"is_active", "price_cents", "is_billable",
}

func scanResource(row pgx.Row) (*Resource, error) {
	var (
		res        Resource
		bookingTyp string
		allow      string
		deny       string
	)
	if err := row.Scan(
		&res.ID, &res.Name, &bookingTyp, &res.SlotDurationMinutes, &res.SlotStartHour, &res.SlotEndHour,
		&res.MaxFutureDays, &res.MinFutureDays, &res.MaxBookings, &allow, &deny,
		&res.IsActive, &res.PriceCents, &res.IsBillable,
	); err != nil {
		return nil, err
	}
	res.BookingType = BookingType(bookingTyp)
	res.AllowHouses = ParseRuleSet(allow)
	res.DenyApartmentIDs = ParseRuleSet(deny)
	res.Normalize()
	return &res, nil
}

func (r *pgxRepository) GetActiveByID(ctx context.Context, id int64) (*Resource, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(resourceColumns...).
		From("public.resources").
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) ListActive(ctx context.Context, filter Filter) ([]*Resource, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	q := psql.Select(resourceColumns...).
		From("public.resources").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC")
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM public.resources`)
	if err != nil {
		return nil, fmt.Errorf("list resource names failed: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan resource names failed: %w", err)
	}
	return names, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.resources").
		Columns(
			"name", "booking_type", "slot_duration_minutes", "slot_start_hour", "slot_end_hour",
			"max_future_days", "min_future_days", "max_bookings", "allow_houses", "deny_apartment_ids",
			"is_active", "price_cents", "is_billable",
		).
		Values(
			res.Name, string(res.BookingType), res.SlotDurationMinutes, res.SlotStartHour, res.SlotEndHour,
			res.MaxFutureDays, res.MinFutureDays, res.MaxBookings, res.AllowHouses.String(), res.DenyApartmentIDs.String(),
			res.IsActive, res.PriceCents, res.IsBillable,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.ID); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

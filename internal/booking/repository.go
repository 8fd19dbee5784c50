package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

const apartmentFKey = "bookings_apartment_id_fkey"

type Repository interface {
	// WithinTx runs fn in a transaction holding the advisory locks of the
	// resource and the apartment. fn must use the Repository it is given.
	WithinTx(ctx context.Context, resourceID int64, apartmentID string, fn func(ctx context.Context, tx Repository) error) error

	// IsResourceActive reports whether the resource exists and is active.
	IsResourceActive(ctx context.Context, resourceID int64) (bool, error)
	Insert(ctx context.Context, b *Booking) error
	// Delete removes a booking, restricted to apartmentID unless it is empty.
	Delete(ctx context.Context, id int64, apartmentID string) (int64, error)

	ListResourceIntervals(ctx context.Context, resourceID int64) ([]Interval, error)
	ListApartmentIntervals(ctx context.Context, apartmentID string) ([]Interval, error)
	// CountFutureBookings counts the apartment's bookings on the resource ending after now.
	CountFutureBookings(ctx context.Context, apartmentID string, resourceID int64, now time.Time) (int, error)

	ListCalendar(ctx context.Context, filter CalendarFilter) ([]*Booking, error)
	ListByApartment(ctx context.Context, apartmentID string) ([]*Booking, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	pool *pgxpool.Pool // nil inside a transaction
	db   querier
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, db: pool}
}

// Lock keys live in one bigint space, so each kind gets its own text prefix.
const (
	lockResourceSQL  = `SELECT pg_advisory_xact_lock(hashtextextended('resource:' || $1::text, 0))`
	lockApartmentSQL = `SELECT pg_advisory_xact_lock(hashtextextended('apartment:' || $1, 0))`
)

// WithinTx runs at READ COMMITTED so every statement after the locks sees
// the rows committed by whoever held them before. Locks are always taken
// resource first, then apartment.
func (r *pgxRepository) WithinTx(ctx context.Context, resourceID int64, apartmentID string, fn func(ctx context.Context, tx Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return transientOr(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, lockResourceSQL, resourceID); err != nil {
		return transientOr(fmt.Errorf("lock resource: %w", err))
	}
	if _, err := tx.Exec(ctx, lockApartmentSQL, apartmentID); err != nil {
		return transientOr(fmt.Errorf("lock apartment: %w", err))
	}

	if err := fn(ctx, &pgxRepository{db: tx}); err != nil {
		return transientOr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return transientOr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// transientOr marks serialization failures and deadlocks as ErrTransient.
func transientOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return apperror.Wrap(ErrTransient, err)
		}
	}
	return err
}

func (r *pgxRepository) IsResourceActive(ctx context.Context, resourceID int64) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx, `SELECT is_active FROM public.resources WHERE id = $1`, resourceID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check resource failed: %w", err)
	}
	return active, nil
}

func (r *pgxRepository) Insert(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("apartment_id", "resource_id", "start_time", "end_time", "is_billable").
		Values(b.ApartmentID, b.ResourceID, b.StartTime, b.EndTime, b.IsBillable).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return insertError(err)
	}
	return nil
}

// insertError names a missing apartment row; anything else is wrapped as is.
func insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == apartmentFKey {
		return apperror.Wrap(ErrApartmentNotFound, err)
	}
	return fmt.Errorf("create booking failed: %w", err)
}

func (r *pgxRepository) Delete(ctx context.Context, id int64, apartmentID string) (int64, error) {
	where := squirrel.Eq{"id": id}
	if apartmentID != "" {
		where["apartment_id"] = apartmentID
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete booking query failed: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete booking failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgxRepository) ListResourceIntervals(ctx context.Context, resourceID int64) ([]Interval, error) {
	return r.listIntervals(ctx, squirrel.Eq{"resource_id": resourceID})
}

func (r *pgxRepository) ListApartmentIntervals(ctx context.Context, apartmentID string) ([]Interval, error) {
	return r.listIntervals(ctx, squirrel.Eq{"apartment_id": apartmentID})
}

// listIntervals drops rows whose timestamps are NULL or infinite.
func (r *pgxRepository) listIntervals(ctx context.Context, where squirrel.Eq) ([]Interval, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("start_time", "end_time").
		From("public.bookings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list intervals query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list intervals failed: %w", err)
	}
	defer rows.Close()

	var out []Interval
	for rows.Next() {
		var start, end pgtype.Timestamptz
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("scan interval failed: %w", err)
		}
		if !finite(start) || !finite(end) {
			continue
		}
		out = append(out, Interval{Start: normalize(start.Time), End: normalize(end.Time)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intervals failed: %w", err)
	}
	return out, nil
}

func finite(ts pgtype.Timestamptz) bool {
	return ts.Valid && ts.InfinityModifier == pgtype.Finite
}

func (r *pgxRepository) CountFutureBookings(ctx context.Context, apartmentID string, resourceID int64, now time.Time) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("COUNT(*)").
		From("public.bookings").
		Where(squirrel.Eq{"apartment_id": apartmentID, "resource_id": resourceID}).
		Where(squirrel.Gt{"end_time": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) bookingSelect() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(
			"b.id", "b.apartment_id", "b.resource_id", "b.start_time", "b.end_time",
			"b.is_billable", "b.created_at", "r.name", "r.booking_type", "r.price_cents",
		).
		From("public.bookings b").
		Join("public.resources r ON r.id = b.resource_id").
		OrderBy("b.start_time ASC", "b.id ASC")
}

func (r *pgxRepository) ListCalendar(ctx context.Context, filter CalendarFilter) ([]*Booking, error) {
	q := r.bookingSelect()
	if filter.ResourceID != nil {
		q = q.Where(squirrel.Eq{"b.resource_id": *filter.ResourceID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.Gt{"b.end_time": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"b.start_time": *filter.To})
	}
	return r.listBookings(ctx, q)
}

func (r *pgxRepository) ListByApartment(ctx context.Context, apartmentID string) ([]*Booking, error) {
	return r.listBookings(ctx, r.bookingSelect().Where(squirrel.Eq{"b.apartment_id": apartmentID}))
}

func (r *pgxRepository) listBookings(ctx context.Context, q squirrel.SelectBuilder) ([]*Booking, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var result []*Booking
	for rows.Next() {
		var (
			b           Booking
			start, end  pgtype.Timestamptz
			bookingType string
		)
		if err := rows.Scan(
			&b.ID, &b.ApartmentID, &b.ResourceID, &start, &end,
			&b.IsBillable, &b.CreatedAt, &b.ResourceName, &bookingType, &b.PriceCents,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		if !finite(start) || !finite(end) {
			continue
		}
		b.StartTime = start.Time.UTC()
		b.EndTime = end.Time.UTC()
		b.BookingType = resource.ParseBookingType(bookingType)
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return result, nil
}

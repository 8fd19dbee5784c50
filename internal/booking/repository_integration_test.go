package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/apartment"
	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/db/dbtest"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

// seedApartments inserts apartments with unique ids and removes them, and
// their bookings, when the test ends.
func seedApartments(t *testing.T, pool *pgxpool.Pool, n int) []string {
	t.Helper()
	ctx := context.Background()
	prefix := uuid.NewString()[:8]

	ids := make([]string, n)
	for i := range ids {
		ids[i] = prefix + "-" + string(rune('a'+i))
		_, err := pool.Exec(ctx, `INSERT INTO public.apartments (id, password_hash) VALUES ($1, 'x')`, ids[i])
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM public.apartments WHERE id = ANY($1)`, ids)
	})
	return ids
}

func seedResource(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	res := &resource.Resource{Name: "Tvättstuga " + uuid.NewString(), IsActive: true}
	res.Normalize()
	require.NoError(t, resource.NewPgxRepository(pool).Create(context.Background(), res))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM public.resources WHERE id = $1`, res.ID)
	})
	return res.ID
}

func newPgxService(pool *pgxpool.Pool) Service {
	resources := resource.NewService(resource.NewPgxRepository(pool))
	apartments := apartment.NewService(apartment.NewPgxRepository(pool), auth.NewBcryptPasswordHasherWithCost(4))
	return NewService(NewPgxRepository(pool), resources, apartments, fixedClock{t: testNow}, zap.NewNop())
}

func TestPgxRepository(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	repo := NewPgxRepository(pool)
	apts := seedApartments(t, pool, 3)
	resID := seedResource(t, pool)

	past := &Booking{ApartmentID: apts[0], ResourceID: resID, StartTime: utc(2026, 2, 27, 10, 0), EndTime: utc(2026, 2, 27, 11, 0)}
	future := &Booking{ApartmentID: apts[0], ResourceID: resID, StartTime: utc(2026, 3, 2, 10, 0), EndTime: utc(2026, 3, 2, 11, 0), IsBillable: true}
	require.NoError(t, repo.Insert(ctx, past))
	require.NoError(t, repo.Insert(ctx, future))
	assert.NotZero(t, future.ID)
	assert.False(t, future.CreatedAt.IsZero())

	// Rows with infinite bounds satisfy the table constraint but are not real intervals.
	_, err := pool.Exec(ctx, `
		INSERT INTO public.bookings (apartment_id, resource_id, start_time, end_time)
		VALUES ($1, $2, '2026-03-03T10:00:00Z', 'infinity'), ($1, $2, '-infinity', '2026-03-04T10:00:00Z')`,
		apts[1], resID)
	require.NoError(t, err)

	t.Run("intervals skip infinite rows", func(t *testing.T) {
		byResource, err := repo.ListResourceIntervals(ctx, resID)
		require.NoError(t, err)
		assert.Len(t, byResource, 2)

		byApartment, err := repo.ListApartmentIntervals(ctx, apts[1])
		require.NoError(t, err)
		assert.Empty(t, byApartment)

		ok, err := newPgxService(pool).HasOverlap(ctx, resID, apts[2], utc(2026, 3, 2, 10, 30), utc(2026, 3, 2, 11, 30))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("count only bookings ending after now", func(t *testing.T) {
		n, err := repo.CountFutureBookings(ctx, apts[0], resID, testNow)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = repo.CountFutureBookings(ctx, apts[0], resID, utc(2026, 3, 2, 11, 0))
		require.NoError(t, err)
		assert.Zero(t, n, "a booking ending exactly at now is over")
	})

	t.Run("calendar filters", func(t *testing.T) {
		from, to := utc(2026, 3, 1, 0, 0), utc(2026, 3, 5, 0, 0)
		got, err := repo.ListCalendar(ctx, CalendarFilter{ResourceID: &resID, From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, future.ID, got[0].ID)
		assert.True(t, got[0].IsBillable)
		assert.Equal(t, resource.BookingTypeTimeSlot, got[0].BookingType)
		assert.Equal(t, time.UTC, got[0].StartTime.Location())

		got, err = repo.ListCalendar(ctx, CalendarFilter{ResourceID: &resID})
		require.NoError(t, err)
		assert.Len(t, got, 2, "infinite rows are left out")
		assert.Equal(t, past.ID, got[0].ID)

		mine, err := repo.ListByApartment(ctx, apts[0])
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("unknown apartment", func(t *testing.T) {
		b := &Booking{ApartmentID: "missing-" + uuid.NewString(), ResourceID: resID, StartTime: utc(2026, 3, 6, 10, 0), EndTime: utc(2026, 3, 6, 11, 0)}
		assert.ErrorIs(t, repo.Insert(ctx, b), ErrApartmentNotFound)
	})

	t.Run("resource active", func(t *testing.T) {
		ok, err := repo.IsResourceActive(ctx, resID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.IsResourceActive(ctx, -1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		n, err := repo.Delete(ctx, future.ID, apts[2])
		require.NoError(t, err)
		assert.Zero(t, n, "other apartments cannot delete")

		n, err = repo.Delete(ctx, future.ID, apts[0])
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = repo.Delete(ctx, past.ID, "")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})
}

func TestPgxWithinTxRollsBack(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	repo := NewPgxRepository(pool)
	apts := seedApartments(t, pool, 1)
	resID := seedResource(t, pool)

	err := repo.WithinTx(ctx, resID, apts[0], func(ctx context.Context, tx Repository) error {
		b := &Booking{ApartmentID: apts[0], ResourceID: resID, StartTime: utc(2026, 3, 2, 10, 0), EndTime: utc(2026, 3, 2, 11, 0)}
		if err := tx.Insert(ctx, b); err != nil {
			return err
		}
		return ErrMaxBookings
	})
	assert.ErrorIs(t, err, ErrMaxBookings)

	got, err := repo.ListResourceIntervals(ctx, resID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// createConcurrently runs every request at once and returns their errors.
func createConcurrently(svc Service, reqs []CreateRequest) []error {
	errs := make([]error, len(reqs))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Create(context.Background(), req)
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func TestPgxCreateConcurrentSameSlot(t *testing.T) {
	pool := dbtest.Pool(t)
	svc := newPgxService(pool)
	apts := seedApartments(t, pool, 6)
	resID := seedResource(t, pool)

	reqs := make([]CreateRequest, len(apts))
	for i, id := range apts {
		reqs[i] = book(id, resID, utc(2026, 3, 2, 10, 0), utc(2026, 3, 2, 11, 0))
	}

	succeeded := 0
	for _, err := range createConcurrently(svc, reqs) {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrOverlap)
	}
	assert.Equal(t, 1, succeeded)

	got, err := NewPgxRepository(pool).ListResourceIntervals(context.Background(), resID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPgxCreateConcurrentSameApartment(t *testing.T) {
	pool := dbtest.Pool(t)
	svc := newPgxService(pool)
	apts := seedApartments(t, pool, 1)
	resA, resB := seedResource(t, pool), seedResource(t, pool)

	errs := createConcurrently(svc, []CreateRequest{
		book(apts[0], resA, utc(2026, 3, 2, 10, 0), utc(2026, 3, 2, 11, 0)),
		book(apts[0], resB, utc(2026, 3, 2, 10, 30), utc(2026, 3, 2, 11, 30)),
	})

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.ErrorIs(t, err, ErrOverlap)
		}
	}
	assert.Equal(t, 1, failed)
}

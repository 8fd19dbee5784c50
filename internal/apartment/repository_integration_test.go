package apartment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/db/dbtest"
)

func TestPgxRepositoryUpsert(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	repo := NewPgxRepository(pool)

	id := "9-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM public.apartments WHERE id = $1`, id)
	})

	_, err := repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	a := &Apartment{ID: id, PasswordHash: "first", IsActive: true, House: strPtr("7"), SkvLgh: strPtr("1001")}
	require.NoError(t, repo.Upsert(ctx, a))
	assert.True(t, a.IsActive)
	assert.False(t, a.IsAdmin)

	_, err = pool.Exec(ctx, `UPDATE public.apartments SET is_admin = TRUE, is_active = FALSE WHERE id = $1`, id)
	require.NoError(t, err)

	// Nil roster columns keep the stored values; password and flags are never touched.
	again := &Apartment{ID: id, PasswordHash: "second", IsActive: true, AccessGroups: strPtr("laundry")}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.False(t, again.IsActive)
	assert.True(t, again.IsAdmin)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", got.PasswordHash)
	require.NotNil(t, got.House)
	assert.Equal(t, "7", *got.House)
	require.NotNil(t, got.SkvLgh)
	assert.Equal(t, "1001", *got.SkvLgh)
	require.NotNil(t, got.AccessGroups)
	assert.Equal(t, "laundry", *got.AccessGroups)

	require.NoError(t, repo.UpdatePasswordHash(ctx, id, "third"))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "third", got.PasswordHash)
	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "missing-"+id, "x"), ErrNotFound)
}

func TestEnsureFromRosterKeepsStoredHouse(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	svc := NewService(NewPgxRepository(pool), auth.NewBcryptPasswordHasherWithCost(4))

	id := "3-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM public.apartments WHERE id = $1`, id)
	})

	_, err := svc.EnsureFromRoster(ctx, RosterProfile{ApartmentID: id, House: "5"})
	require.NoError(t, err)

	a, err := svc.EnsureFromRoster(ctx, RosterProfile{ApartmentID: id})
	require.NoError(t, err)
	assert.Equal(t, "5", a.EffectiveHouse())

	house, err := svc.GetHouse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "5", house)
}

// Package dbtest connects tests to the Postgres named by TEST_DB_DSN.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/db"
)

// migrateLockKey serializes migrations when several test binaries share a database.
const migrateLockKey = 727001

// Pool returns a migrated pool, or skips the test when TEST_DB_DSN is unset.
// The pool is closed when the test finishes.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	// A .env at the repo root is optional; tests run from their package dir.
	for _, path := range []string{"../../.env", "../../../.env"} {
		_ = godotenv.Load(path)
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(pool.Close)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrateLockKey); err != nil {
		t.Fatalf("lock migrations: %v", err)
	}
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, migrateLockKey) //nolint:errcheck

	if err := db.Migrate(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool
}

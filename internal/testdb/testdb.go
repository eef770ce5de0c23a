//go:build integration

// Package testdb opens the Postgres database used by integration tests and
// isolates each test in a rolled-back transaction.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"

	"github.com/yoman-app/yoman-api/internal/platform/postgres"
)

// URLEnvVars are checked in order for the integration database URL.
var URLEnvVars = []string{"YOMAN_TEST_DATABASE_URL", "DATABASE_URL"}

// TestTimeout bounds connection and migration steps.
const TestTimeout = 30 * time.Second

var migrateOnce sync.Once
var migrateErr error

// DatabaseURL returns the first configured integration database URL.
func DatabaseURL() string {
	for _, name := range URLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Open connects to the integration database and applies migrations once per
// test binary. The test is skipped when no database URL is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	url := DatabaseURL()
	if url == "" {
		t.Skipf("integration database not configured (set one of %v)", URLEnvVars)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "open integration database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "ping integration database")

	migrateOnce.Do(func() {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		migrateErr = postgres.Migrate(ctx, db, "up", log)
	})
	require.NoError(t, migrateErr, "migrate integration database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "begin test transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

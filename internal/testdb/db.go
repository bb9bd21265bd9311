package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/platform/migrations"
	"github.com/phrazzld/taskhub-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// IsIntegrationTestEnvironment returns true if the DATABASE_URL environment
// variable is set, indicating that PostgreSQL integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// OpenSQLite creates a fresh SQLite database in a temporary directory,
// applies all migrations and closes it when the test ends.
func OpenSQLite(t *testing.T) (*sql.DB, sqlstore.Dialect) {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + filepath.Join(t.TempDir(), "taskhub.db"),
	}
	return open(t, cfg)
}

// OpenPostgres connects to DATABASE_URL, resets the schema and applies all
// migrations. The test is skipped when DATABASE_URL is not set.
func OpenPostgres(t *testing.T) (*sql.DB, sqlstore.Dialect) {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	cfg := config.DatabaseConfig{
		Driver:       "postgres",
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: 5,
		MaxIdleConns: 5,
	}
	db, dialect := open(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	_, err := db.ExecContext(ctx, "TRUNCATE tasks, users")
	require.NoError(t, err, "Failed to truncate tables")

	return db, dialect
}

func open(t *testing.T, cfg config.DatabaseConfig) (*sql.DB, sqlstore.Dialect) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, dialect, err := sqlstore.Open(ctx, cfg, nil)
	require.NoError(t, err, "Failed to open database")
	t.Cleanup(func() { _ = db.Close() })

	err = migrations.Run(ctx, db, dialect.Name(), "up", nil)
	require.NoError(t, err, "Failed to run migrations")

	return db, dialect
}

// WithTx runs fn inside a transaction that is always rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// Package migrations holds the embedded schema migrations for every
// supported database and runs them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// TableName is the table goose uses to track applied migrations.
const TableName = "schema_migrations"

// Commands lists the migration commands Run accepts.
var Commands = []string{"up", "down", "reset", "status", "version"}

// goose keeps its configuration in package globals.
var mu sync.Mutex

var gooseDialects = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite3",
}

// slogGooseLogger adapts the goose logger interface to use slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose failures at error level. It does not exit; the
// failure is returned from Run.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Run executes command against db using the migrations for dialect
// ("postgres" or "sqlite").
func Run(ctx context.Context, db *sql.DB, dialect, command string, logger *slog.Logger) error {
	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("dialect", dialect),
		slog.String("command", command),
	)

	mu.Lock()
	defer mu.Unlock()

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(files)
	goose.SetTableName(TableName)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, dialect)
	case "down":
		err = goose.DownContext(ctx, db, dialect)
	case "reset":
		err = goose.ResetContext(ctx, db, dialect)
	case "status":
		err = goose.StatusContext(ctx, db, dialect)
	case "version":
		err = goose.VersionContext(ctx, db, dialect)
	default:
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, Commands)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed successfully")
	return nil
}

// Version returns the latest applied migration version.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return 0, fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetTableName(TableName)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

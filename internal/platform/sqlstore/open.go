package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskhub-api/internal/config"
	_ "modernc.org/sqlite" // sqlite driver
)

// sqliteParams are added to SQLite DSNs that do not set them already.
var sqliteParams = []struct{ key, value string }{
	{"_time_format", "sqlite"},
	{"_txlock", "immediate"},
	{"_pragma", "busy_timeout(5000)"},
}

// Open connects to the database described by cfg, configures the pool and
// verifies the connection with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := cfg.URL
	if dialect == SQLite {
		dsn = SQLiteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", dialect.Name()),
		slog.Int("max_open_conns", cfg.MaxOpenConns))
	return db, dialect, nil
}

// SQLiteDSN adds the connection parameters the stores rely on to a SQLite
// DSN: a stable time format, immediate write transactions and a busy
// timeout. Parameters already present are kept.
func SQLiteDSN(dsn string) string {
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p.key+"="+strings.SplitN(p.value, "(", 2)[0]) ||
			(p.key != "_pragma" && strings.Contains(dsn, p.key+"=")) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.key + "=" + p.value
	}
	return dsn
}

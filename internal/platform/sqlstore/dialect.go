package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	name       string
	driverName string
	numbered   bool
	lockSuffix string
}

var (
	// Postgres is the PostgreSQL dialect, driven by pgx.
	Postgres = Dialect{name: "postgres", driverName: "pgx", numbered: true, lockSuffix: " FOR UPDATE"}

	// SQLite is the SQLite dialect, driven by modernc.org/sqlite. SQLite has
	// no row locks; writers are serialised by opening transactions with
	// BEGIN IMMEDIATE.
	SQLite = Dialect{name: "sqlite", driverName: "sqlite"}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case Postgres.name:
		return Postgres, nil
	case SQLite.name:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Name returns the dialect's configuration name.
func (d Dialect) Name() string { return d.name }

// DriverName returns the database/sql driver name.
func (d Dialect) DriverName() string { return d.driverName }

// Rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Paginate returns the LIMIT/OFFSET suffix for skip and limit. A limit of
// zero means no limit.
func (d Dialect) Paginate(skip, limit int) string {
	switch {
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, skip)
	case skip > 0 && d.numbered:
		return fmt.Sprintf(" OFFSET %d", skip)
	case skip > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", skip)
	default:
		return ""
	}
}

// lockClause returns the row-locking suffix for reads inside a transaction.
func (d Dialect) lockClause(inTx bool) string {
	if !inTx {
		return ""
	}
	return d.lockSuffix
}

// placeholders returns n comma-separated ? placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

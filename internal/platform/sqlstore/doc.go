// Package sqlstore provides the SQL implementations of the task and user
// stores defined in the internal/store package. One implementation serves
// both PostgreSQL (via pgx) and SQLite (via modernc.org/sqlite); the
// differences between them are confined to Dialect.
//
// Each collection is one table and each document one row. Filters and sorts
// arrive as query descriptors and are compiled to parameterised SQL.
package sqlstore

// Package testdb provides utilities specifically for database testing.
//
// OpenSQLite gives every test its own migrated SQLite database file, so store
// and service tests run without external services. OpenPostgres connects to
// the database named by DATABASE_URL and skips the test when it is unset.
package testdb

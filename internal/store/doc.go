// Package store defines the persistence interfaces for tasks and users.
// Implementations live under internal/platform; the service layer depends
// only on these interfaces and on RunInTransaction to group the writes of a
// single operation.
package store

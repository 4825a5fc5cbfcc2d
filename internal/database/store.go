// Package database provides storage backends for the feed reader.
package database

import "unread/internal/model"

// Store defines the interface for entry persistence.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// InsertNew attempts to insert each entry. An entry whose GUID is
	// already present is silently skipped; any other insertion error
	// is logged per entry and does not abort the batch. Existing rows
	// are never overwritten. Returns the number of rows actually
	// inserted, which is for logging only.
	InsertNew(entries []model.Entry) int

	// GetUnread returns every entry not yet marked read. Rows that
	// fail to deserialize are logged and dropped rather than aborting
	// the query.
	GetUnread() ([]model.Entry, error)

	// MarkRead sets the read flag for the entry with the given GUID.
	// A GUID matching zero rows is a no-op, not an error.
	MarkRead(guid string) error
}

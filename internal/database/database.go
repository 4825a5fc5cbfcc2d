// Package database provides SQLite storage for the feed reader.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"unread/internal/model"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
	// mu serializes writes. SQLite allows a single writer, and the
	// poller and the mark-read API may mutate concurrently.
	mu sync.Mutex
}

// Ensure DB implements Store interface.
var _ Store = (*DB)(nil)

// New opens or creates an SQLite database at the given path.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the backend name.
func (db *DB) DatabaseType() string {
	return "SQLite"
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		title    TEXT,
		content  TEXT,
		read     INTEGER DEFAULT 0,
		feed     TEXT,
		guid     TEXT UNIQUE,
		html_url TEXT
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// InsertNew inserts each entry unless its GUID already exists. The
// uniqueness constraint is the dedup mechanism; a duplicate is skipped
// via ON CONFLICT DO NOTHING and never surfaces as an error, while any
// other per-entry failure is logged and the batch continues.
func (db *DB) InsertNew(entries []model.Entry) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	inserted := 0
	for _, e := range entries {
		res, err := db.conn.Exec(`
			INSERT INTO entries (title, content, read, feed, guid, html_url)
			VALUES (?, ?, 0, ?, ?, ?)
			ON CONFLICT(guid) DO NOTHING`,
			e.Title, e.Content, e.FeedTitle, e.GUID, e.HTMLURL)
		if err != nil {
			log.Printf("Error inserting entry %s: %v", e.GUID, err)
			continue
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			inserted++
		}
	}
	return inserted
}

// GetUnread returns all entries with read = 0.
func (db *DB) GetUnread() ([]model.Entry, error) {
	rows, err := db.conn.Query("SELECT title, content, read, feed, guid, html_url FROM entries WHERE read = 0")
	if err != nil {
		return nil, fmt.Errorf("query unread: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.Title, &e.Content, &e.Read, &e.FeedTitle, &e.GUID, &e.HTMLURL); err != nil {
			// Degrade gracefully: drop the bad row, keep the rest.
			log.Printf("Error scanning entry: %v", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkRead marks the entry with the given GUID as read.
func (db *DB) MarkRead(guid string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec("UPDATE entries SET read = 1 WHERE guid = ?", guid); err != nil {
		return fmt.Errorf("mark read %s: %w", guid, err)
	}
	return nil
}

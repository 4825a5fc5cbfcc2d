package database

import (
	"path/filepath"
	"testing"

	"unread/internal/model"

	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func entry(guid, title string) model.Entry {
	return model.Entry{
		Title:     title,
		Content:   "content of " + title,
		FeedTitle: "Test Feed",
		HTMLURL:   "http://example.com/",
		GUID:      guid,
	}
}

func TestInsertNewDedupIdempotence(t *testing.T) {
	db := testDB(t)

	inserted := db.InsertNew([]model.Entry{entry("g1", "first")})
	require.Equal(t, 1, inserted)

	before, err := db.GetUnread()
	require.NoError(t, err)

	// Same GUID again: silently skipped, first write wins.
	inserted = db.InsertNew([]model.Entry{entry("g1", "renamed")})
	require.Zero(t, inserted)

	after, err := db.GetUnread()
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Len(t, after, 1)
	require.Equal(t, "first", after[0].Title)
}

func TestInsertNewBatchWithDuplicates(t *testing.T) {
	db := testDB(t)

	inserted := db.InsertNew([]model.Entry{
		entry("g1", "one"),
		entry("g2", "two"),
		entry("g1", "one again"),
	})
	require.Equal(t, 2, inserted)

	unread, err := db.GetUnread()
	require.NoError(t, err)
	require.Len(t, unread, 2)
}

func TestMarkReadExcludesEntry(t *testing.T) {
	db := testDB(t)
	db.InsertNew([]model.Entry{entry("g1", "one"), entry("g2", "two")})

	require.NoError(t, db.MarkRead("g1"))

	unread, err := db.GetUnread()
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, "g2", unread[0].GUID)

	// Marking again is a no-op, not an error.
	require.NoError(t, db.MarkRead("g1"))
	unread, err = db.GetUnread()
	require.NoError(t, err)
	require.Len(t, unread, 1)
}

func TestMarkReadUnknownGUID(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.MarkRead("never-seen"))
}

func TestGetUnreadDropsUndecodableRows(t *testing.T) {
	db := testDB(t)
	db.InsertNew([]model.Entry{entry("g1", "good")})

	// A row with NULL columns fails to scan into the entry shape; the
	// query must drop it and keep the rest.
	_, err := db.conn.Exec("INSERT INTO entries (title, content, read, feed, guid, html_url) VALUES (NULL, NULL, 0, NULL, 'broken', NULL)")
	require.NoError(t, err)

	unread, err := db.GetUnread()
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, "g1", unread[0].GUID)
}

func TestReadStateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(path)
	require.NoError(t, err)
	db.InsertNew([]model.Entry{entry("g1", "one"), entry("g2", "two")})
	require.NoError(t, db.MarkRead("g1"))
	require.NoError(t, db.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	unread, err := reopened.GetUnread()
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, "g2", unread[0].GUID)
}

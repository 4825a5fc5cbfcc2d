package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"unread/internal/database"
	"unread/internal/feed"
	"unread/internal/model"
	"unread/internal/server"

	"github.com/stretchr/testify/require"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>http://example.com/</link>
    <item>
      <title>First post</title>
      <link>http://example.com/1</link>
      <guid>g1</guid>
      <description>the first post</description>
    </item>
    <item>
      <title>Second post</title>
      <link>http://example.com/2</link>
      <description>the second post</description>
    </item>
  </channel>
</rss>`

type unreadResponse struct {
	Entries []model.Entry `json:"entries"`
	Count   int           `json:"count"`
}

func newTestServer(t *testing.T, sources feed.SourceFunc) (*httptest.Server, *database.DB) {
	t.Helper()
	store, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard, "", 0)
	syncer := feed.NewSyncer(feed.NewFetcher(2, logger), nil, logger)
	if sources == nil {
		sources = func() ([]model.FeedSource, error) { return nil, nil }
	}

	srv := httptest.NewServer(server.New(store, syncer, sources, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func getUnread(t *testing.T, baseURL string) unreadResponse {
	t.Helper()
	resp, err := http.Get(baseURL + "/api/unread")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out unreadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestUnreadEmpty(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	out := getUnread(t, srv.URL)
	require.Zero(t, out.Count)
	require.Empty(t, out.Entries)
}

func TestUnreadAndMarkRead(t *testing.T) {
	srv, store := newTestServer(t, nil)
	store.InsertNew([]model.Entry{
		{Title: "one", Content: "c1", FeedTitle: "f", HTMLURL: "http://example.com/", GUID: "g1"},
		{Title: "two", Content: "c2", FeedTitle: "f", HTMLURL: "http://example.com/", GUID: "g2"},
	})

	out := getUnread(t, srv.URL)
	require.Equal(t, 2, out.Count)

	body := bytes.NewBufferString(`{"guid":"g1"}`)
	resp, err := http.Post(srv.URL+"/api/mark-read", "application/json", body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out = getUnread(t, srv.URL)
	require.Equal(t, 1, out.Count)
	require.Equal(t, "g2", out.Entries[0].GUID)
}

func TestMarkReadBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	for _, body := range []string{"", "{}", "not json"} {
		resp, err := http.Post(srv.URL+"/api/mark-read", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestRefreshRunsSync(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, testFeedXML)
	}))
	t.Cleanup(remote.Close)

	sources := func() ([]model.FeedSource, error) {
		return []model.FeedSource{
			{Title: "Test", HTMLURL: "http://example.com/", XMLURL: remote.URL},
		}, nil
	}
	srv, _ := newTestServer(t, sources)

	resp, err := http.Post(srv.URL+"/api/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Status    string `json:"status"`
		Retrieved int    `json:"retrieved"`
		Feeds     int    `json:"feeds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "ok", out.Status)
	require.Equal(t, 2, out.Retrieved)
	require.Equal(t, 1, out.Feeds)

	unread := getUnread(t, srv.URL)
	require.Equal(t, 2, unread.Count)
}

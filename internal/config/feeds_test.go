package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"unread/internal/config"
	"unread/internal/model"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadFeedsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "feeds.toml")
	feeds := []model.FeedSource{
		{Title: "A", HTMLURL: "http://a.example/", XMLURL: "http://a.example/feed"},
		{Title: "B", HTMLURL: "http://b.example/", XMLURL: "http://b.example/rss"},
	}

	require.NoError(t, config.SaveFeeds(path, feeds))

	loaded, err := config.LoadFeeds(path)
	require.NoError(t, err)
	require.Equal(t, feeds, loaded)
}

func TestLoadFeedsMissingFile(t *testing.T) {
	_, err := config.LoadFeeds(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func TestLoadFeedsHandEdited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.toml")
	raw := `
[[feeds]]
title = "Hand Edited"
html_url = "http://hand.example/"
xml_url = "http://hand.example/feed.xml"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	loaded, err := config.LoadFeeds(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "Hand Edited", loaded[0].Title)
}

func TestLoadFeedsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not toml = ["), 0o644))

	_, err := config.LoadFeeds(path)
	require.Error(t, err)
}

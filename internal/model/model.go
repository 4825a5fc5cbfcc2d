// Package model defines shared data structures.
package model

// FeedSource represents one configured syndication endpoint.
// The set of sources is loaded from the feeds file (or an OPML import)
// and is immutable for the duration of a sync run.
type FeedSource struct {
	Title   string `toml:"title" json:"title"`
	HTMLURL string `toml:"html_url" json:"html_url"`
	XMLURL  string `toml:"xml_url" json:"xml_url"`
}

// Entry represents a single article normalized into storage shape.
// GUID is the sole deduplication key; it is unique within the store.
// HTMLURL and FeedTitle are feed-level values denormalized from the
// owning FeedSource, not per-item values.
type Entry struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	FeedTitle string `json:"feed_title"`
	HTMLURL   string `json:"html_url"`
	GUID      string `json:"guid"`
	Read      bool   `json:"read"`
}

package feed

import (
	"crypto/sha256"
	"encoding/hex"

	"unread/internal/model"
	"unread/internal/timeparse"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

// Sentinel values used when a feed item omits a field entirely.
const (
	NoTitle   = "<no title>"
	NoContent = "<no content>"
)

// GUIDStrategy synthesizes an identifier for an item that declares none.
type GUIDStrategy func(item *gofeed.Item) string

// DerivedGUID hashes the item's title and link so the synthesized
// identifier is stable across runs. This is the default strategy.
func DerivedGUID(item *gofeed.Item) string {
	sum := sha256.Sum256([]byte(item.Title + "\n" + item.Link))
	return hex.EncodeToString(sum[:])
}

// RandomGUID generates a fresh identifier per item per run. An item
// lacking a declared identifier is then treated as new on every run,
// so DerivedGUID is preferred; this strategy is kept for the original
// per-run behavior.
func RandomGUID(item *gofeed.Item) string {
	return uuid.NewString()
}

// Extract turns a fetched document's items into Entry records. Pure,
// no I/O. Items appear in reverse document order. HTMLURL and
// FeedTitle come from the owning source rather than the item; all
// items of one feed share the feed's link and display title. Returns
// the entries plus the number of items skipped because their declared
// publication date matched no known format.
func Extract(res FetchResult, guid GUIDStrategy) ([]model.Entry, int) {
	if res.Doc == nil {
		return nil, 0
	}

	items := res.Doc.Items
	entries := make([]model.Entry, 0, len(items))
	skipped := 0
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if item == nil {
			continue
		}
		if item.Published != "" {
			if _, err := timeparse.Parse(item.Published); err != nil {
				skipped++
				continue
			}
		}

		title := item.Title
		if title == "" {
			title = NoTitle
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content == "" {
			content = NoContent
		}
		id := item.GUID
		if id == "" {
			id = guid(item)
		}

		entries = append(entries, model.Entry{
			Title:     title,
			Content:   content,
			FeedTitle: res.Source.Title,
			HTMLURL:   res.Source.HTMLURL,
			GUID:      id,
		})
	}
	return entries, skipped
}

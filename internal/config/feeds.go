package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"unread/internal/model"

	"github.com/BurntSushi/toml"
)

// feedsFile is the on-disk shape of the feed list. The file is meant
// to be hand-editable, so it stays a plain TOML array of tables.
type feedsFile struct {
	Feeds []model.FeedSource `toml:"feeds"`
}

// LoadFeeds reads the configured feed sources from the TOML file at
// path. A missing file is an error; import an OPML file or create the
// feeds file by hand first.
func LoadFeeds(path string) ([]model.FeedSource, error) {
	var f feedsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("feeds file %s does not exist (run an OPML import first)", path)
		}
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	return f.Feeds, nil
}

// SaveFeeds writes the feed sources to the TOML file at path, creating
// the parent directory if needed.
func SaveFeeds(path string, feeds []model.FeedSource) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(feedsFile{Feeds: feeds}); err != nil {
		return fmt.Errorf("encode feeds: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write feeds file %s: %w", path, err)
	}
	return nil
}

// Package config resolves file locations and runtime settings.
// Paths are resolved once at process start and passed in explicitly;
// nothing below main reads environment state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults for settings not overridden by flags.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultConcurrency  = 8
	DefaultPollInterval = 15 * time.Minute
)

// Config carries every resolved path and setting the application needs.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string
	// FeedsPath is the TOML file holding the configured feed sources.
	FeedsPath string
	// PostgresURL, when set, selects the PostgreSQL backend instead of SQLite.
	PostgresURL string
	// Addr is the HTTP listen address for the read-state API.
	Addr string
	// FetchConcurrency bounds the fetch fan-out.
	FetchConcurrency int
	// PollInterval is the delay between background sync runs.
	PollInterval time.Duration
}

// Default resolves the standard per-user locations under the home
// directory. An unresolvable home directory is fatal to the caller;
// without a configuration root nothing downstream can function.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	root := filepath.Join(home, ".config", "unread")
	return Config{
		DBPath:           filepath.Join(root, "unread.db"),
		FeedsPath:        filepath.Join(root, "feeds.toml"),
		Addr:             DefaultAddr,
		FetchConcurrency: DefaultConcurrency,
		PollInterval:     DefaultPollInterval,
	}, nil
}

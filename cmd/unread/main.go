// Command unread is a single-user feed reader: it pulls configured
// feeds into a local store and serves the unread set to a viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"unread/internal/config"
	"unread/internal/database"
	"unread/internal/feed"
	"unread/internal/model"
	"unread/internal/opml"
	"unread/internal/server"
)

var (
	dbPath      = flag.String("db", "", "Path to database file (default: ~/.config/unread/unread.db)")
	feedsPath   = flag.String("feeds", "", "Path to feeds file (default: ~/.config/unread/feeds.toml)")
	postgresURL = flag.String("postgres", "", "PostgreSQL connection string (uses SQLite when empty)")
	addr        = flag.String("addr", "", "HTTP listen address for serve")
	concurrency = flag.Int("concurrency", 0, "Parallel feed fetches")
	interval    = flag.Duration("interval", 0, "Background polling interval for serve")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: unread [flags] <command>

Commands:
  import <file>  Import feed sources from an OPML file
  fetch          Run one sync and exit
  serve          Start the read-state API with background polling (default)

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	logger := log.New(os.Stderr, "unread: ", log.LstdFlags)

	cfg, err := config.Default()
	if err != nil {
		logger.Fatalf("Failed to resolve configuration: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *feedsPath != "" {
		cfg.FeedsPath = *feedsPath
	}
	cfg.PostgresURL = *postgresURL
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *concurrency > 0 {
		cfg.FetchConcurrency = *concurrency
	}
	if *interval > 0 {
		cfg.PollInterval = *interval
	}

	cmd := "serve"
	if args := flag.Args(); len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "import":
		if flag.NArg() < 2 {
			logger.Fatalf("Usage: unread import <file.opml>")
		}
		runImport(logger, cfg, flag.Arg(1))
	case "fetch":
		runFetch(logger, cfg)
	case "serve":
		runServe(logger, cfg)
	default:
		logger.Fatalf("Unknown command %q", cmd)
	}
}

func runImport(logger *log.Logger, cfg config.Config, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("Failed to open OPML file: %v", err)
	}
	defer f.Close()

	sources, err := opml.Parse(f)
	if err != nil {
		logger.Fatalf("Failed to parse OPML: %v", err)
	}
	if err := config.SaveFeeds(cfg.FeedsPath, sources); err != nil {
		logger.Fatalf("Failed to save feeds: %v", err)
	}
	logger.Printf("Imported %d feeds to %s", len(sources), cfg.FeedsPath)
}

func runFetch(logger *log.Logger, cfg config.Config) {
	store := openStore(logger, cfg)
	defer store.Close()

	sources, err := config.LoadFeeds(cfg.FeedsPath)
	if err != nil {
		logger.Fatalf("Failed to load feeds: %v", err)
	}

	syncer := feed.NewSyncer(feed.NewFetcher(cfg.FetchConcurrency, logger), feed.DerivedGUID, logger)
	retrieved := syncer.Sync(context.Background(), sources, store)
	logger.Printf("Retrieved %d entries from %d feeds", retrieved, len(sources))
}

func runServe(logger *log.Logger, cfg config.Config) {
	store := openStore(logger, cfg)
	defer store.Close()

	sources := func() ([]model.FeedSource, error) {
		return config.LoadFeeds(cfg.FeedsPath)
	}
	syncer := feed.NewSyncer(feed.NewFetcher(cfg.FetchConcurrency, logger), feed.DerivedGUID, logger)
	poller := feed.NewPoller(syncer, store, sources, cfg.PollInterval, logger)

	srv := server.New(store, syncer, sources, poller)
	defer srv.Stop()
	if err := srv.Start(cfg.Addr); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

// openStore opens the configured backend. Failure here is fatal;
// without storage nothing downstream can function.
func openStore(logger *log.Logger, cfg config.Config) database.Store {
	if cfg.PostgresURL != "" {
		store, err := database.NewPostgres(cfg.PostgresURL)
		if err != nil {
			logger.Fatalf("Failed to open PostgreSQL database: %v", err)
		}
		logger.Printf("Using %s backend", store.DatabaseType())
		return store
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Fatalf("Failed to create database directory: %v", err)
	}
	store, err := database.New(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	logger.Printf("Using %s backend at %s", store.DatabaseType(), cfg.DBPath)
	return store
}

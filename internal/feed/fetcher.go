// Package feed provides feed fetching, entry extraction and the sync driver.
package feed

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"unread/internal/model"

	"github.com/mmcdole/gofeed"
)

// DefaultConcurrency is the fan-out limit used when the configuration
// does not set one.
const DefaultConcurrency = 8

// FetchResult pairs a configured source with its parsed document, or
// with the error that kept it out of this run. Exactly one of Doc and
// Err is set.
type FetchResult struct {
	Source model.FeedSource
	Doc    *gofeed.Feed
	Err    error
}

// Fetcher retrieves and parses remote feed documents.
type Fetcher struct {
	parser      *gofeed.Parser
	concurrency int
	logger      *log.Logger
}

// NewFetcher creates a fetcher with the given fan-out limit.
func NewFetcher(concurrency int, logger *log.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient()
	return &Fetcher{
		parser:      parser,
		concurrency: concurrency,
		logger:      logger,
	}
}

// newHTTPClient builds a client with explicit timeouts at every stage,
// so a single stalled host cannot hold a batch open indefinitely.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("stopped after 5 redirects")
			}
			return nil
		},
	}
}

// FetchAll retrieves every source concurrently and waits for the whole
// batch to finish. The result slice is order-preserving and has the
// same length as sources; a failed source carries its error and never
// cancels or delays the others.
func (f *Fetcher) FetchAll(ctx context.Context, sources []model.FeedSource) []FetchResult {
	results := make([]FetchResult, len(sources))
	sem := make(chan struct{}, f.concurrency)
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src model.FeedSource) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc, err := f.parser.ParseURLWithContext(src.XMLURL, ctx)
			if err != nil {
				f.logger.Printf("fetch %s: %v", src.XMLURL, err)
				results[i] = FetchResult{Source: src, Err: fmt.Errorf("fetch %s: %w", src.XMLURL, err)}
				return
			}
			results[i] = FetchResult{Source: src, Doc: doc}
		}(i, src)
	}

	wg.Wait()
	return results
}

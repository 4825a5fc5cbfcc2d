package feed

import (
	"context"
	"log"
	"sync"
	"time"

	"unread/internal/database"
	"unread/internal/model"
)

// SourceFunc is the read accessor for the configured feed list.
type SourceFunc func() ([]model.FeedSource, error)

// Poller runs sync repeatedly at a fixed interval. Runs execute one at
// a time from a single goroutine, which also keeps the store's writer
// side serialized with respect to syncing.
type Poller struct {
	syncer   *Syncer
	store    database.Store
	sources  SourceFunc
	interval time.Duration
	logger   *log.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPoller creates a background poller.
func NewPoller(syncer *Syncer, store database.Store, sources SourceFunc, interval time.Duration, logger *log.Logger) *Poller {
	return &Poller{
		syncer:   syncer,
		store:    store,
		sources:  sources,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the polling loop, running one sync immediately.
func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			p.runOnce()
			select {
			case <-p.stopChan:
				return
			case <-time.After(p.interval):
			}
		}
	}()
}

func (p *Poller) runOnce() {
	sources, err := p.sources()
	if err != nil {
		p.logger.Printf("poller: loading sources: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	p.syncer.Sync(ctx, sources, p.store)
}

// Stop stops the poller gracefully, waiting for an in-flight run.
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

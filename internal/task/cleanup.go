package task

import (
	"context"
	"sync"
	"time"

	"yt-dashboard/internal/logger"
	"yt-dashboard/internal/repository"
)

// Expirer drops expired entries and reports how many went
type Expirer interface {
	Cleanup() int
}

// SessionCleaner removes view states of sessions idle for longer than maxAge
// and expired cache entries
type SessionCleaner struct {
	repo          repository.ViewStateRepository
	cache         Expirer
	maxAge        time.Duration
	checkInterval time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

// NewSessionCleaner creates a new SessionCleaner instance. cache may be nil.
func NewSessionCleaner(repo repository.ViewStateRepository, cache Expirer, maxAge, checkInterval time.Duration) *SessionCleaner {
	return &SessionCleaner{
		repo:          repo,
		cache:         cache,
		maxAge:        maxAge,
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the background cleanup loop
func (c *SessionCleaner) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.run(ctx)
}

// Stop gracefully stops the cleaner
func (c *SessionCleaner) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *SessionCleaner) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	// Run immediately on start
	c.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single cleanup pass
func (c *SessionCleaner) RunOnce(ctx context.Context) {
	cutoff := timeNow().Add(-c.maxAge)

	removed, err := c.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("session cleaner: failed to delete idle view states", map[string]interface{}{
			"error": err.Error(),
		})
	} else if removed > 0 {
		logger.Info("Removed idle view states", map[string]interface{}{
			"count":  removed,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}

	if c.cache != nil {
		if n := c.cache.Cleanup(); n > 0 {
			logger.Debug("Dropped expired cache entries", map[string]interface{}{"count": n})
		}
	}
}

// timeNow is a variable so tests can pin the clock
var timeNow = time.Now

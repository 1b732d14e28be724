package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

const (
	// DefaultGCInterval is how often orphan usage counters are looked for
	DefaultGCInterval = 6 * time.Hour
)

// UsageCounters is the usage store as seen by the collector.
type UsageCounters interface {
	UsageStats(ctx context.Context) (map[int64]int64, error)
	DeleteUsage(ctx context.Context, id int64) error
}

// BookmarkLookup resolves a bookmark by id, returning domain.ErrNotFound when absent.
type BookmarkLookup interface {
	Get(ctx context.Context, id int64) (domain.Bookmark, error)
}

// GarbageCollector removes usage counters whose bookmark no longer exists.
// Counters are dropped best effort on delete, so a Redis outage at that
// moment leaves orphans behind.
type GarbageCollector struct {
	usage     UsageCounters
	bookmarks BookmarkLookup
	logger    logger.Logger
	interval  time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	usage UsageCounters,
	bookmarks BookmarkLookup,
	log logger.Logger,
	interval time.Duration,
) *GarbageCollector {
	if interval <= 0 {
		interval = DefaultGCInterval
	}

	return &GarbageCollector{
		usage:     usage,
		bookmarks: bookmarks,
		logger:    log.With(logger.String("component", "usage_gc")),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Run collects immediately, then on every tick until ctx is done or Stop is called.
func (gc *GarbageCollector) Run(ctx context.Context) error {
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed", logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := gc.Collect(ctx); err != nil {
				gc.logger.Error("garbage collection failed", logger.Error(err))
			}
		case <-gc.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
}

// Collect deletes orphan counters and returns how many were removed.
// A lookup failure other than ErrNotFound keeps the counter.
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	stats, err := gc.usage.UsageStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list usage counters: %w", err)
	}

	deleted := 0
	for id := range stats {
		_, err := gc.bookmarks.Get(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			gc.logger.Warn("bookmark lookup failed, keeping counter",
				logger.Int64("bookmark_id", id),
				logger.Error(err))
			continue
		}

		if err := gc.usage.DeleteUsage(ctx, id); err != nil {
			gc.logger.Warn("failed to delete orphan counter",
				logger.Int64("bookmark_id", id),
				logger.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("counters_scanned", len(stats)),
			logger.Int("counters_deleted", deleted))
	} else {
		gc.logger.Debug("no usage counters to garbage collect")
	}

	return deleted, nil
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/seed"
)

// DefaultReloadInterval is used when the configured interval is not positive.
const DefaultReloadInterval = 24 * time.Hour

// SeedStore is the part of the bookmark store the importer writes through.
type SeedStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error)
}

// SeedReloader imports the seed file on start, on every tick and on demand.
// It only ever inserts: existing rows are never updated or deleted.
type SeedReloader struct {
	loader        *seed.Loader
	store         SeedStore
	logger        logger.Logger
	metrics       *metrics.Metrics
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu     sync.RWMutex
	report seed.Report
}

// NewSeedReloader creates a new seed reloader. m may be nil.
func NewSeedReloader(
	seedFile string,
	store SeedStore,
	log logger.Logger,
	m *metrics.Metrics,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	return &SeedReloader{
		loader:        seed.NewLoader(seedFile),
		store:         store,
		logger:        log.With(logger.String("component", "seed")),
		metrics:       m,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		report:        seed.Report{File: seedFile},
	}
}

// Run imports once, then keeps importing until ctx is done or Stop is called.
// A failing initial import is returned; later failures are only logged.
func (sr *SeedReloader) Run(ctx context.Context) error {
	if _, err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sr.reloadLogged(ctx)
		case <-sr.manualTrigger:
			sr.logger.Info("manual seed reload triggered")
			sr.reloadLogged(ctx)
		case <-sr.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop stops the reloader. Safe to call more than once.
func (sr *SeedReloader) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
}

// Report returns the outcome of the last import.
func (sr *SeedReloader) Report() seed.Report {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.report
}

func (sr *SeedReloader) reloadLogged(ctx context.Context) {
	if _, err := sr.Reload(ctx); err != nil {
		sr.logger.Error("failed to reload seed file", logger.Error(err))
	}
}

// Reload reads the seed file and inserts every valid entry whose URL is not stored yet.
func (sr *SeedReloader) Reload(ctx context.Context) (seed.Report, error) {
	report := seed.Report{File: sr.loader.Path(), LastRun: time.Now()}

	file, err := sr.loader.Load()
	if err != nil {
		report.Error = err.Error()
		sr.finish(report, "error")
		return report, err
	}

	entries, rejected := seed.Map(ctx, file)
	for _, r := range rejected {
		sr.logger.Warn("skipping invalid seed entry",
			logger.Int("index", r.Index),
			logger.String("title", r.Title),
			logger.Error(r.Err))
	}
	report.Invalid = len(rejected)

	for _, nb := range entries {
		exists, err := sr.store.ExistsByURL(ctx, nb.URL)
		if err != nil {
			report.Failed++
			sr.logger.Warn("seed lookup failed", logger.String("url", nb.URL), logger.Error(err))
			continue
		}
		if exists {
			report.Existing++
			continue
		}

		b, err := sr.store.Insert(ctx, nb)
		if err != nil {
			report.Failed++
			sr.logger.Warn("seed insert failed", logger.String("url", nb.URL), logger.Error(err))
			continue
		}
		report.Imported++
		sr.logger.Debug("seed bookmark imported", logger.Int64("id", b.ID), logger.String("url", b.URL))
	}

	sr.logger.Info("seed import finished",
		logger.Int("imported", report.Imported),
		logger.Int("existing", report.Existing),
		logger.Int("invalid", report.Invalid),
		logger.Int("failed", report.Failed))

	sr.finish(report, "ok")
	return report, nil
}

func (sr *SeedReloader) finish(report seed.Report, result string) {
	sr.mu.Lock()
	sr.report = report
	sr.mu.Unlock()

	if sr.metrics == nil {
		return
	}
	sr.metrics.SeedRuns.WithLabelValues(result).Inc()
	sr.metrics.SeedEntries.WithLabelValues("imported").Add(float64(report.Imported))
	sr.metrics.SeedEntries.WithLabelValues("existing").Add(float64(report.Existing))
	sr.metrics.SeedEntries.WithLabelValues("invalid").Add(float64(report.Invalid))
	sr.metrics.SeedEntries.WithLabelValues("failed").Add(float64(report.Failed))
}

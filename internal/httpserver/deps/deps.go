package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/seed"
)

// BookmarkStore is the data access layer the handlers call.
type BookmarkStore interface {
	List(ctx context.Context) ([]domain.Bookmark, error)
	Get(ctx context.Context, id int64) (domain.Bookmark, error)
	Insert(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error)
	Update(ctx context.Context, id int64, patch domain.BookmarkPatch) (domain.Bookmark, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// UsageStore keeps per-bookmark read counters.
type UsageStore interface {
	IncrementUsage(ctx context.Context, id int64) (int64, error)
	Usage(ctx context.Context, id int64) (int64, error)
	DeleteUsage(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// SeedReporter exposes the outcome of the last seed import.
type SeedReporter interface {
	Report() seed.Report
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	APIToken      string           // bearer token guarding the bookmark API
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // IPs allowed to access healthz/readyz/metrics
	TrustProxy    bool             // true if running behind a trusted reverse proxy
	RateLimit     int              // burst per client IP on the bookmark API, 0 disables
	RatePerMin    int              // refill per client IP per minute
	Bookmarks     BookmarkStore    // PostgreSQL-backed store
	Usage         UsageStore       // nil when usage tracking is disabled
	Seed          SeedReporter     // nil when no seed file is configured
	Metrics       *metrics.Metrics // nil disables /metrics
	ReloadTrigger chan struct{}    // manual seed reload (nil if seeding disabled)
}

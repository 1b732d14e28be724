package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/migrations"
	"github.com/MrSnakeDoc/bookmarks/internal/postgres"
	"github.com/MrSnakeDoc/bookmarks/internal/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/scheduler"
	pgstore "github.com/MrSnakeDoc/bookmarks/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	db           *sqlx.DB
	redisClient  *goredis.Client
	seedReloader *scheduler.SeedReloader
	gc           *scheduler.GarbageCollector
}

// New loads the configuration and connects every backend. PostgreSQL is
// required; Redis is optional and its absence only disables usage tracking.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	db, err := postgres.New(ctx, postgres.ConnectOptions{
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnectTimeout:  cfg.DBConnectTimeout,
		RetryInterval:   cfg.DBRetryInterval,
		MaxWait:         cfg.DBMaxWait,
		PingTimeout:     cfg.DBPingTimeout,
		WarnThreshold:   cfg.DBWarnThreshold,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if cfg.Migrate {
		if err := migrations.Up(ctx, db.DB); err != nil {
			utils.Close(db)
			return nil, err
		}
		loggerClient.Info("database migrations applied")
	}

	bookmarks := pgstore.NewBookmarkStore(db)
	m := metrics.New()

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		APIToken:     cfg.APIToken,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		RateLimit:    cfg.RateLimitBurst,
		RatePerMin:   cfg.RateLimitPerMinute,
		Bookmarks:    bookmarks,
		Metrics:      m,
	}

	a := &App{
		cfg:    cfg,
		logger: loggerClient,
		db:     db,
	}

	// Usage tracking (optional)
	if cfg.UsageTracking() {
		redisClient, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, usage tracking disabled", logger.Error(err))
		} else {
			usage := redisstore.NewStore(redisClient)
			a.redisClient = redisClient
			a.gc = scheduler.NewGarbageCollector(usage, bookmarks, loggerClient, cfg.UsageGCInterval)
			d.Usage = usage
		}
	} else {
		loggerClient.Info("redis not configured, usage tracking disabled")
	}

	// Seed import (optional)
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured", logger.String("file", cfg.SeedFile))
		d.ReloadTrigger = make(chan struct{}, 1)
		a.seedReloader = scheduler.NewSeedReloader(
			cfg.SeedFile,
			bookmarks,
			loggerClient,
			m,
			cfg.ReloadInterval,
			d.ReloadTrigger,
		)
		d.Seed = a.seedReloader
	}

	a.server = httpserver.New(cfg, d)
	return a, nil
}

// Run serves until SIGINT/SIGTERM or until a component fails, then shuts
// everything down and releases the connections.
func (a *App) Run() error {
	a.logger.Info("starting bookmarks",
		logger.String("version", version.String()),
		logger.String("built", version.BuildDate),
		logger.String("addr", a.cfg.ListenPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.seedReloader != nil {
		g.Go(func() error {
			a.logger.Info("seed reloader started", logger.Duration("interval", a.cfg.ReloadInterval))
			return a.seedReloader.Run(gctx)
		})
	}

	if a.gc != nil {
		g.Go(func() error {
			a.logger.Info("usage garbage collector started", logger.Duration("interval", a.cfg.UsageGCInterval))
			return a.gc.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down gracefully")

		if a.seedReloader != nil {
			a.seedReloader.Stop()
		}
		if a.gc != nil {
			a.gc.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}
	utils.CloseLogged(a.db, "postgres", a.logger)
	_ = a.logger.Sync()

	if err != nil {
		return err
	}
	a.logger.Info("bookmarks stopped cleanly")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/okian/careshare/internal/adapters/http/api"
	"github.com/okian/careshare/internal/adapters/http/swagger"
	"github.com/okian/careshare/internal/adapters/ledger"
	"github.com/okian/careshare/internal/adapters/repository"
	app "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/internal/config"
	"github.com/okian/careshare/pkg/logger"
	"github.com/okian/careshare/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		_, _ = os.Stderr.WriteString("careshare: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	opts, cleanup, err := serviceOptions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		runEvery(gctx, metrics.RefreshInterval(), updateSystemMetrics)
		return nil
	})
	g.Go(func() error {
		runEvery(gctx, serviceMetricsInterval, func() { _ = svc.GetStats() })
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}

// serviceOptions builds service options from configuration. cleanup releases
// any backend connection opened here.
func serviceOptions(ctx context.Context, cfg *config.Config, log logger.Logger) ([]app.Option, func(), error) {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithDemoMode(cfg.DemoMode),
		app.WithRecentEventsLimit(cfg.RecentEventsLimit),
		app.WithBenchmarkWindows(cfg.BenchmarkClinicWindow, cfg.BenchmarkNetworkWindow),
	}
	cleanup := func() {}

	if cfg.SeedFile != "" {
		ds, err := repository.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, cleanup, err
		}
		log.Info(ctx, "loaded seed file",
			logger.String("path", cfg.SeedFile),
			logger.Int("clinics", len(ds.Clinics)),
			logger.Int("episodes", len(ds.Episodes)),
		)
		opts = append(opts, app.WithSeed(ds))
	}

	if cfg.LedgerBackend == config.LedgerRedis {
		client, err := ledger.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = closeRedis(client, log)
		l := ledger.NewRedisLedger(client, ledger.WithPrefix(cfg.RedisPrefix))
		opts = append(opts, app.WithLedger(l, config.LedgerRedis))
	}
	return opts, cleanup, nil
}

func closeRedis(client *redis.Client, log logger.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			log.Warn(context.Background(), "redis close failed", logger.Error(err))
		}
	}
}

// newHandler mounts the business API and the docs on one router.
func newHandler(cfg *config.Config, svc *app.Service, log logger.Logger) chi.Router {
	r := api.NewServer(svc,
		api.WithAllowedOrigins(cfg.Origins()),
		api.WithLogger(log),
	).Routes()
	swagger.Register(r)
	return r
}

// runEvery calls fn on every tick until ctx is done.
func runEvery(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine(), avgPauseMs)
}

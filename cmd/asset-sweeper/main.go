package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/internal/cron"
	"github.com/angelmondragon/siteadmin-backend/internal/sweeper"
	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
	"github.com/angelmondragon/siteadmin-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "asset-sweeper"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	apply := flag.Bool("apply", false, "delete orphans even when SITEADMIN_SWEEPER_DRY_RUN is set")
	interval := flag.Duration("interval", cfg.Sweeper.Interval, "run repeatedly on this interval; 0 runs once")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address while running on an interval")
	flag.Parse()

	logg = logger.New(logger.Options{
		ServiceName: "asset-sweeper",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	store, err := assets.OpenStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	jobMetrics := metrics.NewJobMetrics(registry)

	job, err := sweeper.New(sweeper.Params{
		Logger:      logg,
		Store:       store,
		References:  sweeper.NewRepository(dbClient.DB()),
		Metrics:     jobMetrics,
		GracePeriod: cfg.Sweeper.GracePeriod,
		DryRun:      cfg.Sweeper.DryRun && !*apply,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"dry_run":  cfg.Sweeper.DryRun && !*apply,
		"interval": interval.String(),
	})

	if *interval <= 0 {
		logg.Info(ctx, "running asset sweep once")
		report, err := job.Sweep(ctx)
		if err != nil {
			logg.Error(ctx, "asset sweep failed", err)
			os.Exit(1)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"scanned":  report.Scanned,
			"orphaned": len(report.Orphaned),
			"deleted":  report.Deleted,
		}), "asset sweep finished")
		return
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(sweeper.JobName), *interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper lock", err)
		os.Exit(1)
	}
	service, err := scheduleSweep(logg, job, lock, jobMetrics, *interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		srv := metricsServer(*metricsAddr, registry)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logg.Info(ctx, "starting asset sweeper")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "asset sweeper stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "asset sweeper shutting down gracefully")
}

func scheduleSweep(logg *logger.Logger, job cron.Job, lock cron.Lock, jobMetrics *metrics.JobMetrics, interval time.Duration) (*cron.Service, error) {
	jobRegistry, err := cron.NewRegistry(job)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobRegistry,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: interval,
	})
}

func metricsServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

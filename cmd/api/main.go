package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/siteadmin-backend/api/routes"
	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/internal/auth"
	"github.com/angelmondragon/siteadmin-backend/internal/blog"
	"github.com/angelmondragon/siteadmin-backend/internal/brands"
	"github.com/angelmondragon/siteadmin-backend/internal/leads"
	"github.com/angelmondragon/siteadmin-backend/internal/legal"
	productsvc "github.com/angelmondragon/siteadmin-backend/internal/products"
	"github.com/angelmondragon/siteadmin-backend/internal/scripts"
	"github.com/angelmondragon/siteadmin-backend/internal/settings"
	"github.com/angelmondragon/siteadmin-backend/pkg/auth/session"
	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
	"github.com/angelmondragon/siteadmin-backend/pkg/migrate"
	"github.com/angelmondragon/siteadmin-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
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

	store, err := assets.OpenStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	assetManager, err := assets.NewManager(store, logg, metrics.NewAssetMetrics(registry), assets.Config{
		MaxBytes:     cfg.Storage.MaxUploadBytes(),
		CacheControl: cfg.Storage.CacheControl,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create asset manager", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	authService, err := auth.NewService(auth.ServiceParams{
		Admins:         auth.NewRepository(gdb),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	mustBuild(logg, "auth service", err)
	brandService, err := brands.NewService(brands.NewRepository(gdb), assetManager)
	mustBuild(logg, "brand service", err)
	productService, err := productsvc.NewService(dbClient, productsvc.NewRepository(gdb), assetManager)
	mustBuild(logg, "product service", err)
	blogService, err := blog.NewService(blog.NewRepository(gdb), assetManager)
	mustBuild(logg, "blog service", err)
	leadService, err := leads.NewService(leads.NewRepository(gdb), logg)
	mustBuild(logg, "lead service", err)
	settingsService, err := settings.NewService(settings.NewRepository(gdb), assetManager)
	mustBuild(logg, "settings service", err)
	legalService, err := legal.NewService(legal.NewRepository(gdb))
	mustBuild(logg, "legal service", err)
	scriptService, err := scripts.NewService(scripts.NewRepository(gdb))
	mustBuild(logg, "script service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Storage:  store,
			Sessions: sessionManager,
			Gatherer: registry,
			HTTP:     metrics.NewHTTPMetrics(registry),
			Auth:     authService,
			Brands:   brandService,
			Products: productService,
			Blog:     blogService,
			Leads:    leadService,
			Settings: settingsService,
			Legal:    legalService,
			Scripts:  scriptService,
		}),
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func mustBuild(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}

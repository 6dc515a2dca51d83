// Package main is the entry point for the partsbin inventory server.
// It loads configuration, connects to optional services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"partsbin/internal/cache"
	"partsbin/internal/config"
	"partsbin/internal/export"
	"partsbin/internal/handlers"
	"partsbin/internal/middleware"
	"partsbin/internal/render"
	"partsbin/internal/router"
	"partsbin/internal/storage"
	"partsbin/internal/store"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"catalog", cfg.CatalogPath,
		"locale", cfg.SortLocale,
	)

	// Connect to Valkey for the page cache (optional).
	var pageCache *cache.PageCache
	if cfg.CacheEnabled() {
		var valkeyClient *redis.Client
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	} else {
		slog.Info("valkey not configured, page cache disabled")
	}

	// Connect to S3-compatible storage for published exports (optional).
	// The publisher stays a nil interface when storage is off.
	var publisher export.Publisher
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		publisher = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Info("s3 storage not configured, exports stay local")
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	catalogStore := store.NewCatalogStore(cfg.CatalogPath, cfg.Locale())
	if _, err := catalogStore.Load(); err != nil {
		// Not fatal: the API reports the error until the file is fixed.
		slog.Warn("catalog not readable", "path", cfg.CatalogPath, "error", err)
	}

	exportJob := export.NewJob(catalogStore, cfg.ExportPath, publisher)

	catalogHandlers := handlers.NewCatalog(catalogStore, renderer, pageCache, exportJob)
	assetHandlers := handlers.NewAssets(cfg.ImageDir)

	var limiter *middleware.RateLimiter
	if cfg.APIRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.APIRateLimit, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(catalogHandlers, assetHandlers, limiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

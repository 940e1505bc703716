// Package main is the entry point for the pricing API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"tokencost/config"
	"tokencost/internal/cache"
	"tokencost/internal/httpclient"
	"tokencost/internal/pricing"
	"tokencost/internal/server"
	"tokencost/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log)

	slog.Info("starting tokencost",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	snapCache, err := buildSnapshotCache(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize snapshot cache", "error", err)
		os.Exit(1)
	}

	loader := pricing.NewOfflineLoader(snapCache, cfg.Pricing.SnapshotPaths...)
	source := pricing.NewSource(cfg.Pricing.URL, httpclient.NewDefault())

	svc := pricing.NewService(pricing.ServiceConfig{
		Source:        source,
		Offline:       loader,
		OfflineMode:   cfg.Pricing.Offline,
		SnapCache:     snapCache,
		Prefixes:      cfg.Pricing.ProviderPrefixes,
		TierThreshold: cfg.Pricing.TierThreshold,
	})
	defer func() {
		if err := svc.Close(); err != nil {
			slog.Warn("error closing pricing service", "error", err)
		}
	}()

	// Warm the catalog before accepting traffic. Failures degrade to an
	// empty catalog and are logged inside the service.
	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if _, err := svc.FetchCatalog(startCtx); err != nil {
		slog.Error("failed to load pricing catalog", "error", err)
		cancel()
		os.Exit(1)
	}
	cancel()
	slog.Info("pricing catalog ready",
		"models", svc.ModelCount(),
		"source", svc.CatalogOrigin(),
	)

	if cfg.Server.MasterKey == "" {
		slog.Warn("MASTER_KEY not set, API routes are unauthenticated")
	} else {
		slog.Info("authentication enabled", "mode", "master_key")
	}

	srv := server.New(svc, &server.Config{
		MasterKey:      cfg.Server.MasterKey,
		MetricsEnabled: cfg.Server.MetricsEnabled,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

func setupLogging(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "pretty" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

// buildSnapshotCache picks the Redis backend when a URL is configured,
// otherwise the local file backend. An empty file path yields a no-op cache.
func buildSnapshotCache(cfg config.CacheConfig) (cache.SnapshotCache, error) {
	if cfg.RedisURL != "" {
		return cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL})
	}
	return cache.NewLocalCache(cfg.File), nil
}

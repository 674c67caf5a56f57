package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/vaccination-dashboard/internal/adapter/filestore"
	httpadapter "github.com/couchcryptid/vaccination-dashboard/internal/adapter/http"
	"github.com/couchcryptid/vaccination-dashboard/internal/config"
	"github.com/couchcryptid/vaccination-dashboard/internal/dashboard"
	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// The registry is a hard startup dependency: without it there is nothing to select.
	registry, err := filestore.LoadRegistry(cfg.StatesFile)
	if err != nil {
		logger.Error("failed to load state registry", "path", cfg.StatesFile, "error", err)
		os.Exit(1)
	}
	logger.Info("state registry loaded", "path", cfg.StatesFile, "states", registry.Len())

	resolver := domain.NewResolver(registry, domain.Layout{
		GraphsDir: cfg.GraphsDir,
		PlotsDir:  cfg.PlotsDir,
	})
	store := filestore.NewStore(logger, metrics)
	loader := filestore.NewCachedLoader(store, cfg.ArtifactCacheSize, metrics)

	dash := dashboard.New(resolver, loader, logger, metrics)
	if err := dash.CheckReadiness(context.Background()); err != nil {
		logger.Warn("artifact directories not ready", "error", err)
	}

	srv, err := httpadapter.NewServer(httpadapter.Options{
		Addr:            cfg.HTTPAddr,
		PlotlyJSURL:     cfg.PlotlyJSURL,
		BackgroundImage: cfg.BackgroundImage,
	}, dash, logger, metrics)
	if err != nil {
		logger.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

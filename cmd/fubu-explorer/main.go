package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/seaice-fubu-explorer/internal/adapter/http"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/adapter/snap"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/config"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/observability"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var opener snap.Opener
	if cfg.DataDir != "" {
		opener = snap.NewDir(cfg.DataDir)
		logger.Info("reading tables from disk", "dir", cfg.DataDir)
	} else {
		opener = snap.NewClient(cfg.SICURL, cfg.FUBUMarkURL, cfg.FUBUMikeURL, cfg.FetchTimeout, logger)
		logger.Info("fetching tables from snap", "sic_url", cfg.SICURL, "timeout", cfg.FetchTimeout)
	}

	mark := domain.MarkSource()
	mark.ContributesSegments = cfg.MarkSegments
	mike := domain.MikeSource()
	mike.ContributesSegments = cfg.MikeSegments

	loader := snap.NewLoader(opener, mark, mike, logger)
	svc := pipeline.NewService(loader, logger, metrics, cfg.MaxYear, cfg.DefaultYear)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load tables; /readyz reports 503 until this succeeds.
	go func() {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("dataset load error", "error", err)
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

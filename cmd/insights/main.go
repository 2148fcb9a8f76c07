package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/weatherinsights/insights-service/internal/adapter/http"
	"github.com/weatherinsights/insights-service/internal/adapter/openmeteo"
	"github.com/weatherinsights/insights-service/internal/config"
	"github.com/weatherinsights/insights-service/internal/observability"
	"github.com/weatherinsights/insights-service/internal/pipeline"
	"github.com/weatherinsights/insights-service/internal/service"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(cfg.GeocodingURL, cfg.ArchiveURL, cfg.FetchTimeout, logger)
	runner := pipeline.New(logger, metrics)
	analysis := service.New(client, runner, cfg.ResultCacheSize, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, analysis, analysis, logger)

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

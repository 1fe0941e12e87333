// Command server loads the trained model artifacts and serves congestion
// predictions over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/limaflow/congestion/internal/adapter/httpapi"
	"github.com/limaflow/congestion/internal/adapter/openweather"
	"github.com/limaflow/congestion/internal/artifact"
	"github.com/limaflow/congestion/internal/config"
	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/holiday"
	"github.com/limaflow/congestion/internal/observability"
	"github.com/limaflow/congestion/internal/predictor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	bundle, err := artifact.Load(cfg.ModelPath, cfg.SchemaPath)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			logger.Error("model artifacts missing, run the train command first",
				"model_path", cfg.ModelPath, "schema_path", cfg.SchemaPath)
		} else {
			logger.Error("failed to load model artifacts", "error", err)
		}
		os.Exit(1)
	}
	metrics.ModelLoaded.Set(1)
	logger.Info("model loaded",
		"run_id", bundle.RunID,
		"fingerprint", bundle.Fingerprint,
		"columns", len(bundle.Schema),
		"accuracy", bundle.Accuracy,
		"trained_at", bundle.CreatedAt,
	)

	calendar, err := holiday.ForRegion(cfg.HolidayRegion)
	if err != nil {
		logger.Error("failed to build holiday calendar", "region", cfg.HolidayRegion, "error", err)
		os.Exit(1)
	}

	// Live weather is feature-flagged via WEATHER_API_KEY.
	var weather domain.WeatherProvider
	if cfg.WeatherEnabled() {
		client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherCity, cfg.WeatherTimeout, metrics, logger)
		weather = openweather.NewCachedProvider(client, cfg.WeatherCacheTTL, metrics)
		metrics.WeatherEnabled.Set(1)
		logger.Info("live weather enabled", "city", cfg.WeatherCity, "cache_ttl", cfg.WeatherCacheTTL)
	} else {
		logger.Info("live weather disabled, predictions use the unknown weather category")
	}

	scorer, err := predictor.New(bundle, weather, calendar, logger)
	if err != nil {
		logger.Error("failed to build predictor", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, scorer, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	metrics.ModelLoaded.Set(0)

	logger.Info("shutdown complete")
}

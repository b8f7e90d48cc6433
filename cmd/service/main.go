package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/programmer-almanac/internal/client"
	"github.com/kjstillabower/programmer-almanac/internal/config"
	httphandler "github.com/kjstillabower/programmer-almanac/internal/http"
	"github.com/kjstillabower/programmer-almanac/internal/lifecycle"
	"github.com/kjstillabower/programmer-almanac/internal/observability"
	"github.com/kjstillabower/programmer-almanac/internal/refresh"
	"github.com/kjstillabower/programmer-almanac/internal/service"
	"github.com/kjstillabower/programmer-almanac/internal/settings"
)

const serviceName = "programmer-almanac"

func main() {
	logger, err := observability.NewLogger(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = observability.FlushTelemetry(logger) }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	weatherClient, err := client.NewWttrClient(cfg.WeatherAPIURL, cfg.WeatherAPITimeout, logger)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}
	almanacService := service.NewAlmanacService(weatherClient, cfg.DefaultLocation, cfg.Location)

	store, closeStore, err := newSettingsStore(cfg, logger)
	if err != nil {
		logger.Fatal("settings store", zap.Error(err))
	}
	defer closeStore()

	healthConfig := &httphandler.HealthConfig{
		OverloadWindow:       cfg.OverloadWindow,
		OverloadThresholdPct: cfg.OverloadThresholdPct,
		RateLimitRPS:         cfg.RateLimitRPS,
		DegradedWindow:       cfg.DegradedWindow,
		DegradedFallbackPct:  cfg.DegradedFallbackPct,
		StartTime:            time.Now(),
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	observability.RegisterRateLimitGauges(cfg.OverloadWindow)
	if len(cfg.TrackedLocations) > 0 {
		observability.SetTrackedLocations(cfg.TrackedLocations)
	}

	board := refresh.NewRefresher(almanacService, logger)
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		if err := board.Run(refreshCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("board refresher stopped", zap.Error(err))
		}
	}()

	handler := httphandler.NewHandler(almanacService, board, store, healthConfig, logger, cfg.LocationMaxLength, cfg.LocationMinLength)
	router := httphandler.NewRouter(handler, logger, limiter, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.String("time_zone", cfg.TimeZone),
			zap.String("default_location", cfg.DefaultLocation),
			zap.String("settings_backend", cfg.SettingsBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	select {
	case <-refreshDone:
	case <-waitCtx.Done():
		logger.Warn("board refresher did not stop in time")
	}

	logger.Info("shutdown complete")
}

// newSettingsStore builds the configured backend. The returned func releases
// its connection, if any.
func newSettingsStore(cfg *config.Config, logger *zap.Logger) (settings.Store, func(), error) {
	switch cfg.SettingsBackend {
	case "valkey":
		vc, err := settings.NewValkeyClient(cfg.ValkeyAddr)
		if err != nil {
			return nil, nil, err
		}
		store := settings.NewValkeyStore(vc, cfg.ValkeyKey)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Warn("valkey ping failed; settings unavailable until it recovers", zap.String("addr", cfg.ValkeyAddr), zap.Error(err))
		}
		logger.Info("settings backend: valkey", zap.String("addr", cfg.ValkeyAddr), zap.String("key", cfg.ValkeyKey))
		return store, store.Close, nil
	case "memory":
		logger.Info("settings backend: memory")
		return settings.NewMemoryStore(), func() {}, nil
	default:
		logger.Info("settings backend: file", zap.String("path", cfg.SettingsPath))
		return settings.NewFileStore(cfg.SettingsPath), func() {}, nil
	}
}

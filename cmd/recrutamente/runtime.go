package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/render/chrome"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/repository"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/config"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/layout"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

const (
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// setup loads configuration and initializes the global logger on logOut.
func setup(ctx context.Context, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.WithOutput(logOut), logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// storeDSN picks the connection string of the configured driver.
func storeDSN(cfg *config.Config) string {
	if cfg.Store.Driver == repository.DriverPostgres {
		return cfg.Store.DatabaseURL
	}
	return cfg.Store.SQLitePath
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	store, err := repository.Open(ctx, cfg.Store.Driver, storeDSN(cfg),
		repository.WithLogger(logger.Named("store")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	return store, nil
}

// newCompositor builds the report compositor over headless Chrome surfaces.
func newCompositor(cfg *config.Config) (*report.Compositor, error) {
	rc := cfg.Render
	factory := chrome.NewFactory(
		chrome.WithExecPath(rc.ChromePath),
		chrome.WithDeviceScale(rc.DeviceScale),
		chrome.WithLogger(logger.Named("chrome")),
	)
	opts := []report.Option{
		report.WithLayout(layout.Layout{
			PageWidth:    rc.PageWidth,
			PageHeight:   rc.PageHeight,
			TopMargin:    rc.TopMargin,
			FooterHeight: rc.FooterHeight,
		}),
		report.WithDeviceScale(rc.DeviceScale),
		report.WithBrand(rc.Brand),
		report.WithTimeout(time.Duration(rc.TimeoutSeconds) * time.Second),
		report.WithLogger(logger.Named("report")),
	}
	if rc.Measurer == "estimate" {
		opts = append(opts, report.WithMeasurer(layout.NewEstimator()))
	}
	return report.New(factory, opts...)
}

// startSystemMetricsUpdater refreshes process gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/adapters/http/api"
	"github.com/podiumhq/podium/internal/adapters/http/swagger"
	service "github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/config"
	"github.com/podiumhq/podium/pkg/logger"
	"github.com/podiumhq/podium/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":9090", "HTTP listen address")
	flags.String("data-dir", "data", "directory containing the dataset CSV files")
	flags.String("log-level", "info", "log verbosity: debug, info, warn, error")
	flags.Bool("watch-data", true, "invalidate cached datasets on file changes")
	flags.Int("preload-workers", runtime.NumCPU(), "cache warmup workers, 0 disables warmup")
	flags.Int("max-table-limit", 1000, "row cap for table responses")
	flags.Int("session-ttl-seconds", 3600, "idle lifetime of saved filter sessions")
	flags.String("reference-date", "2024-07-26", "date anchoring athlete age derivation")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	ctx := cmd.Context()

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	refDate, _ := time.Parse("2006-01-02", cfg.ReferenceDate)

	svc := service.New(
		service.WithLogger(log),
		service.WithDataDir(cfg.DataDir),
		service.WithWatchData(cfg.WatchData),
		service.WithPreloadWorkers(cfg.PreloadWorkers),
		service.WithReferenceDate(refDate),
		service.WithSessionTTL(time.Duration(cfg.SessionTTLSeconds)*time.Second),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	// Register API docs under /api-docs
	swagger.Register(ctx, r)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxTableLimit)
	apiServer.Register(ctx, r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
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

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // EXPORT_TIMEZONE must resolve on minimal images

	"github.com/JonMunkholm/iatacodes/internal/config"
	"github.com/JonMunkholm/iatacodes/internal/core"
	_ "github.com/JonMunkholm/iatacodes/internal/core/tables" // Register export tables
	"github.com/JonMunkholm/iatacodes/internal/database"
	"github.com/JonMunkholm/iatacodes/internal/logging"
	"github.com/JonMunkholm/iatacodes/internal/metrics"
	"github.com/JonMunkholm/iatacodes/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open record store", "store", cfg.Database.Scheme(), "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("record store ready", "store", cfg.Database.Scheme())

	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		slog.Error("failed to load export timezone", "timezone", cfg.Export.Timezone, "error", err)
		os.Exit(1)
	}
	formatter, err := core.NewFormatter(cfg.Export.Locale, loc)
	if err != nil {
		slog.Error("failed to configure export locale", "locale", cfg.Export.Locale, "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	opts := []core.Option{
		core.WithQueryTimeout(cfg.Database.QueryTimeout),
		core.WithFormatter(formatter),
		core.WithExportLimiter(core.NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWait)),
	}
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(cfg.Metrics.Namespace)
		opts = append(opts, core.WithObserver(m))
	}

	service := core.NewService(store, opts...)
	slog.Info("tables registered", "count", core.TableCount(), "locale", formatter.Locale())

	server := web.NewServer(service, cfg, m)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if err := service.DrainExports(shutdownCtx); err != nil {
			slog.Warn("exports still running at shutdown", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		store.Close()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}

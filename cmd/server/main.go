// Package main runs the diary API server: HTTP API, reminder scheduler and
// the push delivery task runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/yoman-app/yoman-api/internal/config"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "", "run a goose migration command (up, down, status, reset, version) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(migrateCommand string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("timezone", cfg.Server.Timezone),
		slog.Bool("redis", cfg.Redis.Enabled()),
		slog.Bool("uploads", cfg.Storage.Enabled()),
		slog.Bool("reminders", cfg.Reminders.Enabled),
		slog.String("push_driver", cfg.Push.Driver))

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if migrateCommand != "" {
		defer db.Close()
		return postgres.Migrate(ctx, db, migrateCommand, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

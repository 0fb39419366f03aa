package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/juan-malbeclabs/solana/migrator"
	"github.com/juan-malbeclabs/solana/migrator/config"
	"github.com/juan-malbeclabs/solana/pkg/logger"
	"github.com/juan-malbeclabs/solana/pkg/pgxdb"
)

// These values are overridden at build time using -ldflags
var (
	version = "dev"
	date    = "unknown"
)

func main() {
	cfg := config.New()

	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	migrationsDir := cfg.MigrationsDir
	if migrationsDir == "" {
		migrationsDir = "embedded"
	}
	log.Info("Starting database migrator",
		slog.String("migrationsDir", migrationsDir),
		slog.Bool("statusOnly", cfg.StatusOnly),
		slog.String("version", version),
		slog.String("date", date),
	)

	// Cancel on SIGINT/SIGTERM _or_ when the timeout elapses
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(baseCtx, cfg.OperationTimeout)
	defer cancel()

	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.StatusOnly {
		pending, err := migrator.Pending(db, cfg.MigrationsDir)
		if err != nil {
			log.Error("Failed to read migration status", slog.Any("error", err))
			os.Exit(1)
		}
		log.Info("Migration status", slog.Int("pending", len(pending)), slog.Any("ids", pending))
		return
	}

	applied, err := migrator.ApplyMigrations(db, cfg.MigrationsDir)
	if err != nil {
		log.Error("Failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("Database migrations applied successfully", slog.Int("applied", applied))
}

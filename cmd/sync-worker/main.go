package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finanze/internal/amqp"
	"finanze/internal/config"
	"finanze/internal/storage"
	"finanze/internal/transfer"
)

// sync-worker consumes transaction change messages and maintains a CSV
// snapshot of the full transaction set on disk. The snapshot is the
// always-current export: external tooling can read it without going
// through the API.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting sync-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("sync-worker requires AMQP_URL to be set")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot once on startup so a worker that was down still converges
	// before the first message arrives.
	if err := writeSnapshot(ctx, repo, cfg.SnapshotPath); err != nil {
		logger.Error("Initial snapshot failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Initial snapshot written", "path", cfg.SnapshotPath)

	err = client.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
		if err := writeSnapshot(ctx, repo, cfg.SnapshotPath); err != nil {
			return err
		}
		logger.Info("Snapshot refreshed",
			"id", msg.ID,
			"op", msg.Op,
			"path", cfg.SnapshotPath)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consume loop failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Sync-worker shutdown complete")
}

func writeSnapshot(ctx context.Context, repo *storage.SQLiteRepository, path string) error {
	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		return err
	}
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	return transfer.WriteSnapshot(path, txs, categories)
}

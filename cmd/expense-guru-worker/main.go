package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/brusiqueira9/expense-guru/internal/amqp"
	"github.com/brusiqueira9/expense-guru/internal/config"
	"github.com/brusiqueira9/expense-guru/internal/export"
	"github.com/brusiqueira9/expense-guru/internal/export/memory"
	"github.com/brusiqueira9/expense-guru/internal/export/sheets"
	"github.com/brusiqueira9/expense-guru/internal/log"
	"github.com/brusiqueira9/expense-guru/internal/storage"
	"github.com/brusiqueira9/expense-guru/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting expense-guru-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Spreadsheet export when configured, in-memory otherwise. The memory
	// target keeps the worker runnable in development without credentials.
	var (
		appender export.RowAppender
		deleter  export.RowDeleter
	)
	if cfg.SpreadsheetID != "" {
		client, err := sheets.New(ctx, cfg.SpreadsheetID, cfg.TransactionSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		appender, deleter = client, client
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.SpreadsheetID)
	} else {
		store := memory.New()
		appender, deleter = store, store
		logger.Info("Spreadsheet export disabled - using in-memory target")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, appender, deleter, cfg.SyncBatchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return syncWorker.Run(ctx, amqpClient, cfg.SyncInterval)
	})

	logger.Info("Worker running",
		"queue", cfg.AMQPQueue,
		"sync_interval", cfg.SyncInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

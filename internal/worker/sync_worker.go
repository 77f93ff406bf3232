// Package worker mirrors locally persisted transactions to the spreadsheet
// export. It consumes queue messages for near-real-time sync and periodically
// sweeps for rows the queue missed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brusiqueira9/expense-guru/internal/amqp"
	"github.com/brusiqueira9/expense-guru/internal/export"
	"github.com/brusiqueira9/expense-guru/internal/log"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

// SyncWorker pushes transactions from SQLite to the export target.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	appender  export.RowAppender
	deleter   export.RowDeleter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, appender export.RowAppender, deleter export.RowDeleter, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		storage:   storage,
		appender:  appender,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleMessage processes one queue message. Returning an error makes the
// consumer nack and requeue, so transient export failures retry.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Kind {
	case amqp.KindSync:
		return w.syncTransaction(ctx, msg.TransactionID)
	case amqp.KindDelete:
		return w.deleteFromExport(ctx, msg.TransactionID)
	default:
		// Unreachable after message validation, but don't requeue garbage.
		slog.WarnContext(ctx, "Ignoring message with unknown kind",
			log.FieldTransactionID, msg.TransactionID)
		return nil
	}
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id string) error {
	tx, err := w.storage.GetTransactionByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the sync message was consumed. Nothing to mirror.
		slog.InfoContext(ctx, "Transaction gone before sync, skipping",
			log.FieldTransactionID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error",
				log.FieldTransactionID, id,
				log.FieldError, markErr)
		}
		return fmt.Errorf("append to export: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced",
		log.FieldTransactionID, id,
		log.FieldExportRef, ref)
	return nil
}

func (w *SyncWorker) deleteFromExport(ctx context.Context, id string) error {
	if err := w.deleter.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete from export: %w", err)
	}
	slog.InfoContext(ctx, "Transaction removed from export",
		log.FieldTransactionID, id)
	return nil
}

// ProcessPending sweeps rows that never made it through the queue, in
// batches. Used at startup and from the periodic ticker.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	for {
		pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
		if err != nil {
			return fmt.Errorf("load pending transactions: %w", err)
		}
		if len(pending) == 0 {
			return nil
		}

		slog.InfoContext(ctx, "Processing pending sync batch", "batch", len(pending))
		for _, tx := range pending {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := w.syncTransaction(ctx, tx.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to sync pending transaction",
					log.FieldTransactionID, tx.ID,
					log.FieldError, err)
			}
		}

		if len(pending) < w.batchSize {
			return nil
		}
	}
}

// Run consumes queue messages and sweeps pending rows until the context is
// canceled.
func (w *SyncWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	if err := w.ProcessPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "Startup sync sweep failed", log.FieldError, err)
	}

	go w.sweepLoop(ctx, interval)

	return client.ConsumeMessages(ctx, w.HandleMessage)
}

func (w *SyncWorker) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "Periodic sync sweep failed", log.FieldError, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

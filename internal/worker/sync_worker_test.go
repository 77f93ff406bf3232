package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/brusiqueira9/expense-guru/internal/amqp"
	"github.com/brusiqueira9/expense-guru/internal/core"
	"github.com/brusiqueira9/expense-guru/internal/export/memory"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

func newTestWorker(t *testing.T) (*SyncWorker, *storage.SQLiteRepository, *memory.Store, string) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	user, err := repo.CreateUser(context.Background(), "worker@example.com", "hash", "Worker User")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	store := memory.New()
	return NewSyncWorker(repo, store, store, 10), repo, store, user.ID
}

func seedTransaction(t *testing.T, repo *storage.SQLiteRepository, userID string) string {
	t.Helper()
	id, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID:        userID,
		Type:          core.TypeExpense,
		Amount:        core.Money{Cents: 4200},
		CategoryID:    "cat-groceries",
		Date:          core.NewDate(2024, 3, 5),
		PaymentStatus: core.StatusPaid,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	return id
}

func TestHandleMessage_Sync(t *testing.T) {
	w, repo, store, userID := newTestWorker(t)
	ctx := context.Background()
	id := seedTransaction(t, repo, userID)

	if err := w.HandleMessage(ctx, amqp.NewSyncMessage(id)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 || rows[0].ID != id {
		t.Fatalf("export rows = %+v, want single row with id %s", rows, id)
	}

	// Marked synced, so the sweep has nothing left to do.
	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sync = %d rows, want 0", len(pending))
	}
}

func TestHandleMessage_SyncGoneRow(t *testing.T) {
	w, _, store, _ := newTestWorker(t)

	// A sync message can outlive its transaction; the worker must ack it.
	if err := w.HandleMessage(context.Background(), amqp.NewSyncMessage("no-such-id")); err != nil {
		t.Fatalf("HandleMessage() error = %v, want nil for missing row", err)
	}
	if len(store.Rows()) != 0 {
		t.Error("missing row must not reach the export")
	}
}

func TestHandleMessage_Delete(t *testing.T) {
	w, repo, store, userID := newTestWorker(t)
	ctx := context.Background()
	id := seedTransaction(t, repo, userID)

	if err := w.HandleMessage(ctx, amqp.NewSyncMessage(id)); err != nil {
		t.Fatalf("sync error = %v", err)
	}
	if err := w.HandleMessage(ctx, amqp.NewDeleteMessage(id)); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Errorf("export rows after delete = %d, want 0", len(store.Rows()))
	}
}

func TestProcessPending(t *testing.T) {
	w, repo, store, userID := newTestWorker(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, seedTransaction(t, repo, userID))
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}
	if got := len(store.Rows()); got != len(ids) {
		t.Errorf("export rows = %d, want %d", got, len(ids))
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sweep = %d rows, want 0", len(pending))
	}
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("export unavailable")
}

func TestSyncFailureMarksError(t *testing.T) {
	_, repo, store, userID := newTestWorker(t)
	ctx := context.Background()
	id := seedTransaction(t, repo, userID)

	w := NewSyncWorker(repo, failingAppender{}, store, 10)
	if err := w.HandleMessage(ctx, amqp.NewSyncMessage(id)); err == nil {
		t.Fatal("expected error from failing export")
	}

	// The flagged row is excluded from future sweeps.
	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after failure = %d rows, want 0", len(pending))
	}
}

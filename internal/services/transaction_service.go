package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brusiqueira9/expense-guru/internal/amqp"
	"github.com/brusiqueira9/expense-guru/internal/core"
	"github.com/brusiqueira9/expense-guru/internal/log"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

// TransactionService orchestrates transaction writes across SQLite and AMQP.
// The AMQP client is optional; without it, transactions are only persisted
// locally and picked up later by the pending-sync sweep.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction validates and persists a transaction. When the draft
// carries a recurrence, the stored template is expanded and each future
// occurrence is persisted as its own row linked by parent id. Returns the
// stored template followed by its occurrences.
func (s *TransactionService) CreateTransaction(ctx context.Context, draft core.Transaction) (core.Transaction, []core.Transaction, error) {
	if draft.Type == core.TypeExpense {
		draft.PaymentStatus = draft.PaymentStatus.Normalize()
	}
	if err := s.resolveCategory(ctx, &draft); err != nil {
		return core.Transaction{}, nil, err
	}
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, nil, err
	}

	// Save to SQLite first (fast, reliable)
	id, err := s.storage.CreateTransaction(ctx, draft)
	if err != nil {
		return core.Transaction{}, nil, fmt.Errorf("save transaction: %w", err)
	}
	draft.ID = id
	s.publishSync(ctx, id)

	occurrences := core.ExpandRecurrence(draft, id)
	for i := range occurrences {
		oid, err := s.storage.CreateTransaction(ctx, occurrences[i])
		if err != nil {
			// The template is already saved; surface the partial series
			// rather than unwinding it.
			slog.ErrorContext(ctx, "Failed to save occurrence",
				log.FieldParentID, id,
				log.FieldError, err)
			return draft, occurrences[:i], fmt.Errorf("save occurrence %d: %w", i+1, err)
		}
		occurrences[i].ID = oid
		s.publishSync(ctx, oid)
	}

	if len(occurrences) > 0 {
		slog.InfoContext(ctx, "Expanded recurring transaction",
			log.FieldTransactionID, id,
			log.FieldRecurrence, string(draft.Recurrence),
			log.FieldOccurrences, len(occurrences))
	}

	return draft, occurrences, nil
}

// GetTransaction returns a single transaction owned by the user.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

// ListTransactions returns the user's transactions narrowed by the filter.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, f core.Filter) ([]core.Transaction, error) {
	all, err := s.storage.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return f.Apply(all), nil
}

// Summary reduces the user's filtered transactions to period totals.
func (s *TransactionService) Summary(ctx context.Context, userID string, f core.Filter) (core.Summary, error) {
	transactions, err := s.ListTransactions(ctx, userID, f)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(transactions), nil
}

// DeleteTransaction soft deletes a transaction. With cascade set, live
// occurrences derived from it are removed in the same call.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id string, cascade bool) error {
	var children []core.Transaction
	if cascade {
		var err error
		children, err = s.storage.ListTransactionsByParent(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("list occurrences: %w", err)
		}
	}

	if err := s.storage.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.publishDelete(ctx, id)

	if cascade && len(children) > 0 {
		removed, err := s.storage.DeleteTransactionsByParent(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
		for _, child := range children {
			s.publishDelete(ctx, child.ID)
		}
		slog.InfoContext(ctx, "Deleted recurring series",
			log.FieldTransactionID, id,
			log.FieldOccurrences, removed)
	}

	return nil
}

// ListCategories returns all selectable categories.
func (s *TransactionService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.storage.ListCategories(ctx)
}

// CreateCategory adds a custom category.
func (s *TransactionService) CreateCategory(ctx context.Context, name string, typ core.TransactionType) (core.Category, error) {
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}
	if typ != core.TypeIncome && typ != core.TypeExpense {
		return core.Category{}, core.ErrInvalidType
	}
	return s.storage.CreateCategory(ctx, name, typ)
}

// resolveCategory denormalizes the category name onto a draft that carries
// only an id. Occurrences expanded from the draft then inherit the name.
func (s *TransactionService) resolveCategory(ctx context.Context, draft *core.Transaction) error {
	if draft.CategoryName != "" || draft.CategoryID == "" {
		return nil
	}
	cat, err := s.storage.GetCategory(ctx, draft.CategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.ErrUnknownCategory
	}
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	draft.CategoryName = cat.Name
	return nil
}

func (s *TransactionService) publishSync(ctx context.Context, id string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishSync(ctx, id); err != nil {
		// Don't fail the request; the transaction is saved locally and the
		// pending-sync sweep will retry it.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldTransactionID, id,
			log.FieldError, err)
	}
}

func (s *TransactionService) publishDelete(ctx context.Context, id string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			log.FieldTransactionID, id,
			log.FieldError, err)
	}
}

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}

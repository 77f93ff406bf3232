// Package export defines the outbound ports for mirroring transactions to an
// external spreadsheet. The worker drives these; the API server never blocks
// on them.
package export

import (
	"context"

	"github.com/brusiqueira9/expense-guru/internal/core"
)

// RowAppender mirrors a transaction into the export destination and returns
// a destination-specific reference for the written row.
type RowAppender interface {
	Append(ctx context.Context, t core.Transaction) (string, error)
}

// RowDeleter removes a previously mirrored transaction by its id.
type RowDeleter interface {
	Delete(ctx context.Context, transactionID string) error
}

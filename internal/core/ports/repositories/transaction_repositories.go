package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// TransactionCursor is the keyset position used to page transaction headers.
type TransactionCursor struct {
	PostingDate       time.Time
	TransactionNumber int64
}

// TransactionReader defines read operations for posted transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction header and its entries regardless of status.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.PostedTransaction, error)

	// ListTransactions retrieves headers ordered by posting date then number, newest first,
	// starting strictly after the cursor when one is given.
	ListTransactions(ctx context.Context, companyID string, status *domain.TransactionStatus, limit int, after *TransactionCursor) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for posted transactions
type TransactionWriter interface {
	// NextTransactionNumber reserves the next number in the company's sequence.
	NextTransactionNumber(ctx context.Context, companyID string) (int64, error)

	// SaveTransaction persists a header and all of its entries.
	SaveTransaction(ctx context.Context, txn domain.PostedTransaction) error

	// VoidTransaction moves a posted transaction to void.
	// It returns ErrNotFound for an unknown ID and a StateConflictError when
	// the transaction is not posted.
	VoidTransaction(ctx context.Context, companyID, transactionID, userID string, now time.Time) error
}

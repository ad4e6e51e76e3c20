package repositories

import (
	"context"
)

// TransactionManager runs a function as one atomic unit of work. Every write
// made through the Store handed to fn is committed together or not at all.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	// ReadSnapshot runs fn against one consistent, read-only view of the store.
	// Commits made while fn runs are not visible to it. fn must not write.
	ReadSnapshot(ctx context.Context, fn func(tx Store) error) error
}

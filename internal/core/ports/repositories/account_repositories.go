package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account of the company by its ID.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account of the company by its chart code.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts of the company, keyed by ID.
	// IDs that do not belong to the company are absent from the result. Inside
	// a unit of work the accounts stay readable but cannot be locked by
	// LockAccount until it ends.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the company's accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error)

	// HasPostedEntries reports whether any non-void transaction references the account.
	HasPostedEntries(ctx context.Context, companyID, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A code already used by the company yields ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// LockAccount reads an account and holds it until the unit of work ends.
	// Postings that read the account in their own unit of work wait for it.
	LockAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, companyID, accountID, userID string, now time.Time) error
}

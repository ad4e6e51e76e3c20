package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// ResolveAccount retrieves an account of the company by its ID.
	ResolveAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// ResolveSystemAccount retrieves an account of the company by its chart code.
	ResolveSystemAccount(ctx context.Context, companyID, code string) (*domain.Account, error)

	// ListAccounts retrieves the company's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account with its normal balance derived from its type.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Accounts with posted entries are refused.
	DeactivateAccount(ctx context.Context, companyID, accountID, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// TransactionReaderSvc defines read operations for posted transactions
type TransactionReaderSvc interface {
	// GetTransaction returns a transaction and its entries regardless of status.
	GetTransaction(ctx context.Context, companyID, transactionID string) (*domain.PostedTransaction, error)

	// ListTransactions returns one page of headers, newest first.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines the operations that change the ledger
type TransactionWriterSvc interface {
	// CreateTransaction validates and posts a balanced transaction atomically.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.PostedTransaction, error)

	// VoidTransaction moves a posted transaction to void.
	VoidTransaction(ctx context.Context, companyID, transactionID, userID string) (*domain.PostedTransaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

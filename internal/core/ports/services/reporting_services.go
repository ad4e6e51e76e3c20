package services

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// BalanceSvc computes balances from posted entries.
type BalanceSvc interface {
	// GetAccountBalance returns the balance of one account as of a date. A nil asOf is unbounded.
	GetAccountBalance(ctx context.Context, companyID, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// GetTrialBalance returns one row per active account as of a date.
	GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalance, error)
}

// LedgerSvc answers general ledger queries.
type LedgerSvc interface {
	// QueryGeneralLedger lazily yields ledger lines in display order.
	QueryGeneralLedger(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.LedgerLine, error]

	// ListGeneralLedger returns one page of ledger lines and a token for the next one.
	ListGeneralLedger(ctx context.Context, filter domain.LedgerFilter, limit int, nextToken *string) (*dto.GeneralLedgerPage, error)
}

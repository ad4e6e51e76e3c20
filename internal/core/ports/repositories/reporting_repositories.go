package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// LedgerReader aggregates entries of non-void transactions.
type LedgerReader interface {
	// SumEntries totals an account's entries with posting date in [from, to]. Nil bounds are open.
	SumEntries(ctx context.Context, companyID, accountID string, from, to *time.Time) (domain.EntryTotals, error)

	// SumEntriesByAccount totals every account's entries posted on or before asOf.
	SumEntriesByAccount(ctx context.Context, companyID string, asOf time.Time) (map[string]domain.EntryTotals, error)

	// ListLedgerLines returns up to limit lines in general ledger order
	// (posting date desc, transaction number desc, line number asc) after the cursor.
	ListLedgerLines(ctx context.Context, filter domain.LedgerFilter, after *domain.LedgerCursor, limit int) ([]domain.LedgerLine, error)
}

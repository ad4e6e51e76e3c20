package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the balance of one account as of a date.
type AccountBalance struct {
	Account     Account         `json:"account"`
	Balance     decimal.Decimal `json:"balance"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	AsOfDate    *time.Time      `json:"asOfDate,omitempty"`
}

// EntryTotals holds raw debit and credit sums.
type EntryTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// TrialBalanceCheck is the result of validating the display columns.
type TrialBalanceCheck struct {
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	IsBalanced  bool            `json:"isBalanced"`
	Difference  decimal.Decimal `json:"difference"`
}

// TrialBalance is a full trial balance report.
type TrialBalance struct {
	CompanyID string            `json:"companyID"`
	AsOfDate  time.Time         `json:"asOfDate"`
	Rows      []TrialBalanceRow `json:"rows"`
	TrialBalanceCheck
}

// LedgerFilter scopes a general ledger query.
type LedgerFilter struct {
	CompanyID string
	AccountID string // optional; enables running balances
	FromDate  *time.Time
	ToDate    *time.Time
	PageSize  int
}

// LedgerCursor is the keyset position of a ledger line in display order.
type LedgerCursor struct {
	PostingDate       time.Time
	TransactionNumber int64
	LineNumber        int
}

// LedgerLine is an entry joined with its transaction's metadata.
type LedgerLine struct {
	Entry                  TransactionEntry `json:"entry"`
	TransactionNumber      int64            `json:"transactionNumber"`
	PostingDate            time.Time        `json:"postingDate"`
	Reference              string           `json:"reference,omitempty"`
	TransactionDescription string           `json:"transactionDescription"`
	RunningBalance         *decimal.Decimal `json:"runningBalance,omitempty"`
}

// Cursor returns the keyset position of the line.
func (l LedgerLine) Cursor() LedgerCursor {
	return LedgerCursor{
		PostingDate:       l.PostingDate,
		TransactionNumber: l.TransactionNumber,
		LineNumber:        l.Entry.LineNumber,
	}
}

// CompareLedgerOrder orders cursors the way the general ledger is displayed:
// posting date desc, transaction number desc, line number asc.
func CompareLedgerOrder(a, b LedgerCursor) int {
	switch {
	case a.PostingDate.After(b.PostingDate):
		return -1
	case a.PostingDate.Before(b.PostingDate):
		return 1
	case a.TransactionNumber > b.TransactionNumber:
		return -1
	case a.TransactionNumber < b.TransactionNumber:
		return 1
	case a.LineNumber < b.LineNumber:
		return -1
	case a.LineNumber > b.LineNumber:
		return 1
	}
	return 0
}

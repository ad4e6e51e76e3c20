package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Assets      AccountType = "assets"
	Liabilities AccountType = "liabilities"
	Equity      AccountType = "equity"
	Revenue     AccountType = "revenue"
	Expenses    AccountType = "expenses"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Assets, Liabilities, Equity, Revenue, Expenses:
		return true
	}
	return false
}

// NormalBalance is the side on which an account's balance is positive.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

// NormalBalanceFor derives the normal balance from the account type.
// Assets and expenses are debit-normal; everything else is credit-normal.
func NormalBalanceFor(t AccountType) NormalBalance {
	if t == Assets || t == Expenses {
		return NormalDebit
	}
	return NormalCredit
}

// Account represents a financial account within a company's chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	CompanyID       string          `json:"companyID"`
	Code            string          `json:"code"` // unique per company
	Name            string          `json:"name"`
	Type            AccountType     `json:"type"`
	NormalBalance   NormalBalance   `json:"normalBalance"`
	ParentAccountID string          `json:"parentAccountID,omitempty"` // weak reference, may be empty
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	IsSystem        bool            `json:"isSystem"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	AuditFields
}

// SignedAmount returns the effect of a debit/credit pair on this account's
// balance under its normal-balance convention.
func (a Account) SignedAmount(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == NormalDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

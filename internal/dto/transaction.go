package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryRequest is one line of a candidate transaction.
type EntryRequest struct {
	AccountID    string             `json:"accountID"`
	DebitAmount  decimal.Decimal    `json:"debitAmount"`
	CreditAmount decimal.Decimal    `json:"creditAmount"`
	Description  string             `json:"description"`
	EntityID     *string            `json:"entityID,omitempty"`
	EntityType   *domain.EntityType `json:"entityType,omitempty" binding:"omitempty,oneof=customer vendor"`
}

// CreateTransactionRequest is a candidate journal entry. Entry rules are
// checked by the poster, which reports every failing line at once.
type CreateTransactionRequest struct {
	CompanyID       string                 `json:"-"`
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
	PostingDate     *time.Time             `json:"postingDate,omitempty"`
	Description     string                 `json:"description"`
	Type            domain.TransactionType `json:"type" binding:"omitempty,oneof=journal invoice bill payment receipt adjustment"`
	Entries         []EntryRequest         `json:"entries"`
	Reference       string                 `json:"reference"`
	CreatedBy       string                 `json:"-"`
}

// TransactionResponse is a posted transaction with its entries.
type TransactionResponse struct {
	domain.Transaction
	Entries     []domain.TransactionEntry `json:"entries"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// ToTransactionResponse converts a domain.PostedTransaction to TransactionResponse DTO.
func ToTransactionResponse(pt *domain.PostedTransaction) TransactionResponse {
	debit, credit := pt.Totals()
	return TransactionResponse{
		Transaction: pt.Transaction,
		Entries:     pt.Entries,
		TotalDebit:  debit,
		TotalCredit: credit,
	}
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=draft posted void"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of transaction headers.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

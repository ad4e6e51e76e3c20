package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID     string     `db:"transaction_id"`
	CompanyID         string     `db:"company_id"`
	TransactionNumber int64      `db:"transaction_number"`
	TransactionDate   time.Time  `db:"transaction_date"`
	PostingDate       time.Time  `db:"posting_date"`
	TransactionType   string     `db:"transaction_type"`
	Status            string     `db:"status"`
	Description       string     `db:"description"`
	Reference         *string    `db:"reference"` // Nullable
	VoidedBy          *string    `db:"voided_by"` // Nullable
	VoidedAt          *time.Time `db:"voided_at"` // Nullable
	AuditFields
}

// TransactionEntry is a row of the transaction_entries table.
type TransactionEntry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	CompanyID     string          `db:"company_id"`
	LineNumber    int             `db:"line_number"`
	AccountID     string          `db:"account_id"`
	DebitAmount   decimal.Decimal `db:"debit_amount"`
	CreditAmount  decimal.Decimal `db:"credit_amount"`
	Description   *string         `db:"description"` // Nullable
	EntityID      *string         `db:"entity_id"`   // Nullable
	EntityType    *string         `db:"entity_type"` // Nullable
}

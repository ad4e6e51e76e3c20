package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "draft"
	StatusPosted TransactionStatus = "posted"
	StatusVoid   TransactionStatus = "void"
)

// TransactionType classifies the business event behind a transaction.
type TransactionType string

const (
	TypeJournal      TransactionType = "journal"
	TypeInvoice      TransactionType = "invoice"
	TypeBill         TransactionType = "bill"
	TypePayment      TransactionType = "payment"
	TypeReceipt      TransactionType = "receipt"
	TypeAdjustment   TransactionType = "adjustment"
	TypeAISuggestion TransactionType = "ai_suggestion"
)

// EntityType names the kind of counterparty an entry refers to.
type EntityType string

const (
	EntityCustomer EntityType = "customer"
	EntityVendor   EntityType = "vendor"
)

// Transaction is the header of a balanced financial event.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	CompanyID         string            `json:"companyID"`
	TransactionNumber int64             `json:"transactionNumber"` // monotonic per company
	TransactionDate   time.Time         `json:"transactionDate"`
	PostingDate       time.Time         `json:"postingDate"`
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	Description       string            `json:"description"`
	Reference         string            `json:"reference,omitempty"`
	VoidedBy          string            `json:"voidedBy,omitempty"`
	VoidedAt          *time.Time        `json:"voidedAt,omitempty"`
	AuditFields
}

// TransactionEntry is a single debit or credit line of a transaction.
type TransactionEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	CompanyID     string          `json:"companyID"`
	LineNumber    int             `json:"lineNumber"`
	AccountID     string          `json:"accountID"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description,omitempty"`
	EntityID      *string         `json:"entityID,omitempty"`
	EntityType    *EntityType     `json:"entityType,omitempty"`
}

// PostedTransaction is a transaction header together with its entries.
type PostedTransaction struct {
	Transaction Transaction        `json:"transaction"`
	Entries     []TransactionEntry `json:"entries"`
}

// Totals returns the debit and credit sums of the entries.
func (p PostedTransaction) Totals() (decimal.Decimal, decimal.Decimal) {
	return SumEntries(p.Entries)
}

// SumEntries returns the debit and credit sums of a slice of entries.
func SumEntries(entries []TransactionEntry) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.DebitAmount)
		credit = credit.Add(e.CreditAmount)
	}
	return debit, credit
}

package repositories

// Store is every tenant-scoped read and write the ledger core performs.
// Each method takes the company ID; rows of other companies are never visible.
type Store interface {
	AccountReader
	AccountWriter
	TransactionReader
	TransactionWriter
	LedgerReader
	SuggestionReader
	SuggestionWriter
}

// LedgerStore is a Store that can also open atomic units of work.
type LedgerStore interface {
	Store
	TransactionManager
}

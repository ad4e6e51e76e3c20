package services

// ServiceContainer holds instances of all the application services.
// It is the entry point the handlers use to reach the ledger core.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Transaction TransactionSvcFacade
	Balance     BalanceSvc
	Ledger      LedgerSvc
	Suggestion  SuggestionSvcFacade
}

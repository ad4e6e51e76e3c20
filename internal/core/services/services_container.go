package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/events"
)

// ContainerDeps are the collaborators the services are built from.
type ContainerDeps struct {
	Store          portsrepo.LedgerStore
	Providers      ProviderResolver
	Publisher      events.Publisher
	LedgerPageSize int
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &portssvc.ServiceContainer{
		Account:     NewAccountService(deps.Store),
		Transaction: NewTransactionService(deps.Store, WithTransactionPublisher(publisher)),
		Balance:     NewBalanceService(deps.Store),
		Ledger:      NewLedgerService(deps.Store, WithLedgerPageSize(deps.LedgerPageSize)),
		Suggestion:  NewSuggestionService(deps.Store, WithProviders(deps.Providers), WithSuggestionPublisher(publisher)),
	}
}

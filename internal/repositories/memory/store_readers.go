package memory

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// Reads outside a unit of work see the last committed snapshot.
// Writes outside a unit of work run as their own unit of work.

func (s *Store) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindAccountByID(ctx, companyID, accountID)
}

func (s *Store) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindAccountByCode(ctx, companyID, code)
}

func (s *Store) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindAccountsByIDs(ctx, companyID, accountIDs)
}

func (s *Store) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListAccounts(ctx, companyID, activeOnly)
}

func (s *Store) HasPostedEntries(ctx context.Context, companyID, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().HasPostedEntries(ctx, companyID, accountID)
}

// LockAccount outside a unit of work is a plain read.
func (s *Store) LockAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().LockAccount(ctx, companyID, accountID)
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.SaveAccount(ctx, account)
	})
}

func (s *Store) DeactivateAccount(ctx context.Context, companyID, accountID, userID string, now time.Time) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.DeactivateAccount(ctx, companyID, accountID, userID, now)
	})
}

func (s *Store) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.PostedTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindTransactionByID(ctx, companyID, transactionID)
}

func (s *Store) ListTransactions(ctx context.Context, companyID string, status *domain.TransactionStatus, limit int, after *portsrepo.TransactionCursor) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListTransactions(ctx, companyID, status, limit, after)
}

func (s *Store) NextTransactionNumber(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := s.WithinTx(ctx, func(tx portsrepo.Store) error {
		var err error
		n, err = tx.NextTransactionNumber(ctx, companyID)
		return err
	})
	return n, err
}

func (s *Store) SaveTransaction(ctx context.Context, txn domain.PostedTransaction) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.SaveTransaction(ctx, txn)
	})
}

func (s *Store) VoidTransaction(ctx context.Context, companyID, transactionID, userID string, now time.Time) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.VoidTransaction(ctx, companyID, transactionID, userID, now)
	})
}

func (s *Store) SumEntries(ctx context.Context, companyID, accountID string, from, to *time.Time) (domain.EntryTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().SumEntries(ctx, companyID, accountID, from, to)
}

func (s *Store) SumEntriesByAccount(ctx context.Context, companyID string, asOf time.Time) (map[string]domain.EntryTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().SumEntriesByAccount(ctx, companyID, asOf)
}

func (s *Store) ListLedgerLines(ctx context.Context, filter domain.LedgerFilter, after *domain.LedgerCursor, limit int) ([]domain.LedgerLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListLedgerLines(ctx, filter, after, limit)
}

func (s *Store) FindSuggestionByID(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindSuggestionByID(ctx, companyID, suggestionID)
}

func (s *Store) ListSuggestions(ctx context.Context, companyID string, status *domain.SuggestionStatus, limit, offset int) ([]domain.AISuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListSuggestions(ctx, companyID, status, limit, offset)
}

func (s *Store) FindAgentByID(ctx context.Context, companyID, agentID string) (*domain.AIAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindAgentByID(ctx, companyID, agentID)
}

func (s *Store) SaveSuggestion(ctx context.Context, suggestion domain.AISuggestion) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.SaveSuggestion(ctx, suggestion)
	})
}

// LockSuggestion outside a unit of work is a plain read.
func (s *Store) LockSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	return s.FindSuggestionByID(ctx, companyID, suggestionID)
}

func (s *Store) UpdateSuggestion(ctx context.Context, suggestion domain.AISuggestion, from domain.SuggestionStatus) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.UpdateSuggestion(ctx, suggestion, from)
	})
}

func (s *Store) SaveAgent(ctx context.Context, agent domain.AIAgent) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.SaveAgent(ctx, agent)
	})
}

func (s *Store) IncrementAgentCounter(ctx context.Context, companyID, agentID string, counter domain.AgentCounter) error {
	return s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.IncrementAgentCounter(ctx, companyID, agentID, counter)
	})
}

package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// view implements the Store methods against one snapshot without locking.
// The caller owns the lock.
type view struct {
	d *data
}

var _ portsrepo.Store = (*view)(nil)

func (v *view) FindAccountByID(_ context.Context, companyID, accountID string) (*domain.Account, error) {
	acc, ok := v.d.accounts[key{companyID, accountID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return &acc, nil
}

func (v *view) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	id, ok := v.d.accountCodes[key{companyID, code}]
	if !ok {
		return nil, apperrors.NewNotFoundError("account with code " + code + " not found")
	}
	return v.FindAccountByID(ctx, companyID, id)
}

func (v *view) FindAccountsByIDs(_ context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := v.d.accounts[key{companyID, id}]; ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (v *view) ListAccounts(_ context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	var accounts []domain.Account
	for k, acc := range v.d.accounts {
		if k.companyID != companyID || (activeOnly && !acc.IsActive) {
			continue
		}
		accounts = append(accounts, acc)
	}
	slices.SortFunc(accounts, func(a, b domain.Account) int { return cmp.Compare(a.Code, b.Code) })
	return accounts, nil
}

func (v *view) HasPostedEntries(_ context.Context, companyID, accountID string) (bool, error) {
	for k, entries := range v.d.entries {
		if k.companyID != companyID || v.d.transactions[k].Status == domain.StatusVoid {
			continue
		}
		for _, e := range entries {
			if e.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (v *view) SaveAccount(_ context.Context, account domain.Account) error {
	codeKey := key{account.CompanyID, account.Code}
	if _, exists := v.d.accountCodes[codeKey]; exists {
		return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
	}
	idKey := key{account.CompanyID, account.AccountID}
	if _, exists := v.d.accounts[idKey]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	v.d.accounts[idKey] = account
	v.d.accountCodes[codeKey] = account.AccountID
	return nil
}

// LockAccount needs no row lock: the unit of work already holds the store lock.
func (v *view) LockAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	return v.FindAccountByID(ctx, companyID, accountID)
}

func (v *view) DeactivateAccount(_ context.Context, companyID, accountID, userID string, now time.Time) error {
	k := key{companyID, accountID}
	acc, ok := v.d.accounts[k]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	acc.IsActive = false
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	v.d.accounts[k] = acc
	return nil
}

func (v *view) FindTransactionByID(_ context.Context, companyID, transactionID string) (*domain.PostedTransaction, error) {
	k := key{companyID, transactionID}
	txn, ok := v.d.transactions[k]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	return &domain.PostedTransaction{
		Transaction: txn,
		Entries:     slices.Clone(v.d.entries[k]),
	}, nil
}

func (v *view) ListTransactions(_ context.Context, companyID string, status *domain.TransactionStatus, limit int, after *portsrepo.TransactionCursor) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for k, txn := range v.d.transactions {
		if k.companyID != companyID || (status != nil && txn.Status != *status) {
			continue
		}
		if after != nil && compareTransactionOrder(txn, after.PostingDate, after.TransactionNumber) <= 0 {
			continue
		}
		txns = append(txns, txn)
	}
	slices.SortFunc(txns, func(a, b domain.Transaction) int {
		return compareTransactionOrder(a, b.PostingDate, b.TransactionNumber)
	})
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// compareTransactionOrder places txn relative to a (date, number) position,
// newest first.
func compareTransactionOrder(txn domain.Transaction, postingDate time.Time, number int64) int {
	if c := postingDate.Compare(txn.PostingDate); c != 0 {
		return c
	}
	return cmp.Compare(number, txn.TransactionNumber)
}

func (v *view) NextTransactionNumber(_ context.Context, companyID string) (int64, error) {
	v.d.sequences[companyID]++
	return v.d.sequences[companyID], nil
}

func (v *view) SaveTransaction(_ context.Context, txn domain.PostedTransaction) error {
	header := txn.Transaction
	k := key{header.CompanyID, header.TransactionID}
	if _, exists := v.d.transactions[k]; exists {
		return fmt.Errorf("transaction %s: %w", header.TransactionID, apperrors.ErrDuplicate)
	}
	for _, e := range txn.Entries {
		if _, ok := v.d.accounts[key{header.CompanyID, e.AccountID}]; !ok {
			return apperrors.NewAppError(500, "entry references unknown account "+e.AccountID, apperrors.ErrIntegrity)
		}
	}
	v.d.transactions[k] = header
	v.d.entries[k] = slices.Clone(txn.Entries)
	return nil
}

func (v *view) VoidTransaction(_ context.Context, companyID, transactionID, userID string, now time.Time) error {
	k := key{companyID, transactionID}
	txn, ok := v.d.transactions[k]
	if !ok {
		return apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	if txn.Status != domain.StatusPosted {
		return apperrors.NewStateConflict("transaction", transactionID, "void", string(txn.Status))
	}
	voidedAt := now
	txn.Status = domain.StatusVoid
	txn.VoidedBy = userID
	txn.VoidedAt = &voidedAt
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID
	v.d.transactions[k] = txn
	return nil
}

// postedEntries yields the entries of the company's non-void transactions
// together with their header.
func (v *view) postedEntries(companyID string, fn func(domain.Transaction, domain.TransactionEntry)) {
	for k, entries := range v.d.entries {
		if k.companyID != companyID {
			continue
		}
		txn := v.d.transactions[k]
		if txn.Status == domain.StatusVoid {
			continue
		}
		for _, e := range entries {
			fn(txn, e)
		}
	}
}

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func (v *view) SumEntries(_ context.Context, companyID, accountID string, from, to *time.Time) (domain.EntryTotals, error) {
	totals := domain.EntryTotals{}
	v.postedEntries(companyID, func(txn domain.Transaction, e domain.TransactionEntry) {
		if e.AccountID != accountID || !inRange(txn.PostingDate, from, to) {
			return
		}
		totals.Debit = totals.Debit.Add(e.DebitAmount)
		totals.Credit = totals.Credit.Add(e.CreditAmount)
	})
	return totals, nil
}

func (v *view) SumEntriesByAccount(_ context.Context, companyID string, asOf time.Time) (map[string]domain.EntryTotals, error) {
	totals := make(map[string]domain.EntryTotals)
	v.postedEntries(companyID, func(txn domain.Transaction, e domain.TransactionEntry) {
		if txn.PostingDate.After(asOf) {
			return
		}
		t := totals[e.AccountID]
		t.Debit = t.Debit.Add(e.DebitAmount)
		t.Credit = t.Credit.Add(e.CreditAmount)
		totals[e.AccountID] = t
	})
	return totals, nil
}

func (v *view) ListLedgerLines(_ context.Context, filter domain.LedgerFilter, after *domain.LedgerCursor, limit int) ([]domain.LedgerLine, error) {
	var lines []domain.LedgerLine
	v.postedEntries(filter.CompanyID, func(txn domain.Transaction, e domain.TransactionEntry) {
		if filter.AccountID != "" && e.AccountID != filter.AccountID {
			return
		}
		if !inRange(txn.PostingDate, filter.FromDate, filter.ToDate) {
			return
		}
		line := domain.LedgerLine{
			Entry:                  e,
			TransactionNumber:      txn.TransactionNumber,
			PostingDate:            txn.PostingDate,
			Reference:              txn.Reference,
			TransactionDescription: txn.Description,
		}
		if after != nil && domain.CompareLedgerOrder(*after, line.Cursor()) >= 0 {
			return
		}
		lines = append(lines, line)
	})
	slices.SortFunc(lines, func(a, b domain.LedgerLine) int {
		return domain.CompareLedgerOrder(a.Cursor(), b.Cursor())
	})
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

func (v *view) FindSuggestionByID(_ context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	s, ok := v.d.suggestions[key{companyID, suggestionID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("suggestion " + suggestionID + " not found")
	}
	s.SuggestedEntries = slices.Clone(s.SuggestedEntries)
	return &s, nil
}

func (v *view) ListSuggestions(_ context.Context, companyID string, status *domain.SuggestionStatus, limit, offset int) ([]domain.AISuggestion, error) {
	var out []domain.AISuggestion
	for k, s := range v.d.suggestions {
		if k.companyID != companyID || (status != nil && s.Status != *status) {
			continue
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b domain.AISuggestion) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.SuggestionID, b.SuggestionID)
	})
	if offset >= len(out) {
		return []domain.AISuggestion{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *view) FindAgentByID(_ context.Context, companyID, agentID string) (*domain.AIAgent, error) {
	a, ok := v.d.agents[key{companyID, agentID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("agent " + agentID + " not found")
	}
	return &a, nil
}

func (v *view) SaveSuggestion(_ context.Context, suggestion domain.AISuggestion) error {
	k := key{suggestion.CompanyID, suggestion.SuggestionID}
	if _, exists := v.d.suggestions[k]; exists {
		return fmt.Errorf("suggestion %s: %w", suggestion.SuggestionID, apperrors.ErrDuplicate)
	}
	suggestion.SuggestedEntries = slices.Clone(suggestion.SuggestedEntries)
	v.d.suggestions[k] = suggestion
	return nil
}

// LockSuggestion needs no row lock: the unit of work already holds the store lock.
func (v *view) LockSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	return v.FindSuggestionByID(ctx, companyID, suggestionID)
}

func (v *view) UpdateSuggestion(_ context.Context, suggestion domain.AISuggestion, from domain.SuggestionStatus) error {
	k := key{suggestion.CompanyID, suggestion.SuggestionID}
	stored, ok := v.d.suggestions[k]
	if !ok {
		return apperrors.NewNotFoundError("suggestion " + suggestion.SuggestionID + " not found")
	}
	if stored.Status != from {
		return apperrors.NewStateConflict("suggestion", suggestion.SuggestionID, suggestion.Status.Action(), string(stored.Status))
	}
	stored.Status = suggestion.Status
	stored.ReviewedBy = suggestion.ReviewedBy
	stored.ReviewedAt = suggestion.ReviewedAt
	stored.ReviewNotes = suggestion.ReviewNotes
	stored.ImplementedTransactionID = suggestion.ImplementedTransactionID
	stored.ImplementedAt = suggestion.ImplementedAt
	stored.LastUpdatedAt = suggestion.LastUpdatedAt
	stored.LastUpdatedBy = suggestion.LastUpdatedBy
	v.d.suggestions[k] = stored
	return nil
}

func (v *view) SaveAgent(_ context.Context, agent domain.AIAgent) error {
	k := key{agent.CompanyID, agent.AgentID}
	if _, exists := v.d.agents[k]; exists {
		return fmt.Errorf("agent %s: %w", agent.AgentID, apperrors.ErrDuplicate)
	}
	v.d.agents[k] = agent
	return nil
}

func (v *view) IncrementAgentCounter(_ context.Context, companyID, agentID string, counter domain.AgentCounter) error {
	k := key{companyID, agentID}
	a, ok := v.d.agents[k]
	if !ok {
		return apperrors.NewNotFoundError("agent " + agentID + " not found")
	}
	switch counter {
	case domain.CounterTotal:
		a.TotalSuggestions++
	case domain.CounterApproved:
		a.ApprovedCount++
	case domain.CounterRejected:
		a.RejectedCount++
	case domain.CounterImplemented:
		a.ImplementedCount++
	default:
		return fmt.Errorf("unknown agent counter %q", counter)
	}
	v.d.agents[k] = a
	return nil
}

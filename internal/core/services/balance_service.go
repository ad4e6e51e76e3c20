package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// balanceService computes account balances and trial balances. It never writes.
type balanceService struct {
	BaseService
	store portsrepo.Store
}

// NewBalanceService creates a new balance service.
func NewBalanceService(store portsrepo.Store) portssvc.BalanceSvc {
	return &balanceService{store: store}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) GetAccountBalance(ctx context.Context, companyID, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	account, err := s.store.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to find account for balance", slog.String("account_id", accountID))
		}
		return nil, err
	}

	var to *time.Time
	if asOf != nil {
		day := startOfDay(*asOf)
		to = &day
	}

	totals, err := s.store.SumEntries(ctx, companyID, accountID, nil, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account entries", slog.String("account_id", accountID))
		return nil, err
	}

	return &domain.AccountBalance{
		Account:     *account,
		Balance:     account.SignedAmount(totals.Debit, totals.Credit),
		DebitTotal:  totals.Debit,
		CreditTotal: totals.Credit,
		AsOfDate:    to,
	}, nil
}

func (s *balanceService) GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = startOfDay(asOf)

	accounts, err := s.store.ListAccounts(ctx, companyID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for trial balance", slog.String("company_id", companyID))
		return nil, err
	}
	totals, err := s.store.SumEntriesByAccount(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum entries for trial balance", slog.String("company_id", companyID))
		return nil, err
	}

	rows := make([]domain.TrialBalanceRow, 0, len(accounts))
	for _, account := range accounts {
		t, ok := totals[account.AccountID]
		if !ok {
			t = domain.EntryTotals{Debit: decimal.Zero, Credit: decimal.Zero}
		}
		balance := account.SignedAmount(t.Debit, t.Credit)
		debit, credit := accounting.DisplayColumns(account, balance)
		rows = append(rows, domain.TrialBalanceRow{
			Account: account,
			Balance: balance,
			Debit:   debit,
			Credit:  credit,
		})
	}

	tb := &domain.TrialBalance{
		CompanyID:         companyID,
		AsOfDate:          asOf,
		Rows:              rows,
		TrialBalanceCheck: accounting.ValidateTrialBalance(rows),
	}
	if !tb.IsBalanced {
		s.GetLogger(ctx).Warn("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("difference", tb.Difference.StringFixed(2)))
	}
	return tb, nil
}

package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccounts(t *testing.T, s *Store, companyID string) {
	t.Helper()
	for _, acc := range []domain.Account{
		{AccountID: "cash", CompanyID: companyID, Code: "1000", Name: "Cash", Type: domain.Assets, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: "rev", CompanyID: companyID, Code: "4000", Name: "Sales", Type: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
	} {
		require.NoError(t, s.SaveAccount(context.Background(), acc))
	}
}

func postedTxn(companyID, id string, number int64, date time.Time, amount int64) domain.PostedTransaction {
	return domain.PostedTransaction{
		Transaction: domain.Transaction{
			TransactionID: id, CompanyID: companyID, TransactionNumber: number,
			TransactionDate: date, PostingDate: date, Type: domain.TypeJournal, Status: domain.StatusPosted,
		},
		Entries: []domain.TransactionEntry{
			{EntryID: id + "-1", TransactionID: id, CompanyID: companyID, LineNumber: 1, AccountID: "cash", DebitAmount: decimal.NewFromInt(amount), CreditAmount: decimal.Zero},
			{EntryID: id + "-2", TransactionID: id, CompanyID: companyID, LineNumber: 2, AccountID: "rev", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(amount)},
		},
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx portsrepo.Store) error {
		n, err := tx.NextTransactionNumber(ctx, "c1")
		require.NoError(t, err)
		require.NoError(t, tx.SaveTransaction(ctx, postedTxn("c1", "t1", n, time.Now(), 10)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindTransactionByID(ctx, "c1", "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	n, err := s.NextTransactionNumber(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "sequence must not advance on rollback")
}

func TestWithinTx_CommitHookFailure(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithCommitHook(func() error { return errors.New("disk full") }))

	err := s.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.SaveAgent(ctx, domain.AIAgent{AgentID: "a1", CompanyID: "c1"})
	})
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)

	_, err = s.FindAgentByID(ctx, "c1", "a1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")

	_, err := s.FindAccountByID(ctx, "c2", "cash")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	found, err := s.FindAccountsByIDs(ctx, "c2", []string{"cash", "rev"})
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t1", 1, time.Now(), 10)))
	_, err = s.FindTransactionByID(ctx, "c2", "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveAccount_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")

	err := s.SaveAccount(ctx, domain.Account{AccountID: "cash2", CompanyID: "c1", Code: "1000"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// same code in another company is fine
	assert.NoError(t, s.SaveAccount(ctx, domain.Account{AccountID: "cash", CompanyID: "c2", Code: "1000"}))
}

func TestVoidTransaction_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t1", 1, time.Now(), 10)))

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.VoidTransaction(ctx, "c1", "t1", "u1", time.Now())
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrStateConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, conflicts)

	got, err := s.FindTransactionByID(ctx, "c1", "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, got.Transaction.Status)
	assert.Len(t, got.Entries, 2)

	err = s.VoidTransaction(ctx, "c1", "missing", "u1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListLedgerLines_OrderAndCursor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")

	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t1", 1, d1, 10)))
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t2", 2, d2, 20)))
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t3", 3, d2, 30)))
	require.NoError(t, s.VoidTransaction(ctx, "c1", "t2", "u1", time.Now()))

	filter := domain.LedgerFilter{CompanyID: "c1"}
	lines, err := s.ListLedgerLines(ctx, filter, nil, 0)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "t3-1", lines[0].Entry.EntryID)
	assert.Equal(t, "t3-2", lines[1].Entry.EntryID)
	assert.Equal(t, "t1-1", lines[2].Entry.EntryID)
	assert.Equal(t, "t1-2", lines[3].Entry.EntryID)

	cursor := lines[1].Cursor()
	rest, err := s.ListLedgerLines(ctx, filter, &cursor, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "t1-1", rest[0].Entry.EntryID)
}

func TestSumEntries_ExcludesVoidAndFuture(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")

	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t1", 1, d1, 10)))
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t2", 2, d1, 5)))
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t3", 3, d2, 7)))
	require.NoError(t, s.VoidTransaction(ctx, "c1", "t2", "u1", time.Now()))

	asOf := d1
	totals, err := s.SumEntries(ctx, "c1", "cash", nil, &asOf)
	require.NoError(t, err)
	assert.True(t, totals.Debit.Equal(decimal.NewFromInt(10)))

	byAccount, err := s.SumEntriesByAccount(ctx, "c1", d2)
	require.NoError(t, err)
	assert.True(t, byAccount["rev"].Credit.Equal(decimal.NewFromInt(17)))

	has, err := s.HasPostedEntries(ctx, "c1", "cash")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestUpdateSuggestion_StateConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	sugg := domain.AISuggestion{SuggestionID: "s1", CompanyID: "c1", AgentID: "a1", Status: domain.SuggestionPending}
	require.NoError(t, s.SaveSuggestion(ctx, sugg))

	sugg.Status = domain.SuggestionRejected
	require.NoError(t, s.UpdateSuggestion(ctx, sugg, domain.SuggestionPending))

	sugg.Status = domain.SuggestionApproved
	err := s.UpdateSuggestion(ctx, sugg, domain.SuggestionPending)
	var sc *apperrors.StateConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, "rejected", sc.CurrentStatus)
	assert.Equal(t, "approve", sc.Action)
}

func TestReadSnapshot_IgnoresLaterCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccounts(t, s, "c1")
	require.NoError(t, s.SaveTransaction(ctx, postedTxn("c1", "t1", 1, time.Now(), 10)))

	err := s.ReadSnapshot(ctx, func(tx portsrepo.Store) error {
		require.NoError(t, s.VoidTransaction(ctx, "c1", "t1", "u1", time.Now()))

		got, err := tx.FindTransactionByID(ctx, "c1", "t1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPosted, got.Transaction.Status)
		return nil
	})
	require.NoError(t, err)

	got, err := s.FindTransactionByID(ctx, "c1", "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, got.Transaction.Status)
}

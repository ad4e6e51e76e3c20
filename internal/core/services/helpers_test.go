package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	companyA = "company-a"
	companyB = "company-b"
	userID   = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

// chart is a small chart of accounts keyed by code.
type chart map[string]domain.Account

func (c chart) id(code string) string { return c[code].AccountID }

var defaultChart = []struct {
	code string
	name string
	typ  domain.AccountType
}{
	{"1000", "Cash", domain.Assets},
	{"1100", "Accounts Receivable", domain.Assets},
	{"2000", "Accounts Payable", domain.Liabilities},
	{"3000", "Owner's Equity", domain.Equity},
	{"4000", "Sales", domain.Revenue},
	{"5000", "Rent Expense", domain.Expenses},
}

// seedChart writes the default chart for a company straight into the store.
func seedChart(t *testing.T, store portsrepo.LedgerStore, companyID string) chart {
	t.Helper()
	c := chart{}
	now := time.Now().UTC()
	err := store.WithinTx(context.Background(), func(tx portsrepo.Store) error {
		for _, a := range defaultChart {
			acc := domain.Account{
				AccountID:     uuid.NewString(),
				CompanyID:     companyID,
				Code:          a.code,
				Name:          a.name,
				Type:          a.typ,
				NormalBalance: domain.NormalBalanceFor(a.typ),
				IsActive:      true,
				AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: "seed", LastUpdatedAt: now, LastUpdatedBy: "seed"},
			}
			if err := tx.SaveAccount(context.Background(), acc); err != nil {
				return err
			}
			c[a.code] = acc
		}
		return nil
	})
	require.NoError(t, err)
	return c
}

func debit(accountID, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountID: accountID, DebitAmount: d(amount), CreditAmount: decimal.Zero}
}

func credit(accountID, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: d(amount)}
}

func txnRequest(date time.Time, desc string, entries ...dto.EntryRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		CompanyID:       companyA,
		TransactionDate: date,
		Description:     desc,
		Entries:         entries,
		CreatedBy:       userID,
	}
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

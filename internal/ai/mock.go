package ai

import (
	"context"
	"regexp"
	"sync/atomic"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MockProvider returns a canned proposal. With no canned proposal it books
// the first amount found in the document from the first credit-normal
// account hint to the first debit-normal one.
type MockProvider struct {
	Proposal *Proposal
	Err      error
	calls    atomic.Int64
}

// Calls reports how many times Analyze ran.
func (p *MockProvider) Calls() int64 { return p.calls.Load() }

func (p *MockProvider) Name() string { return "mock" }

var amountPattern = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)

func (p *MockProvider) Analyze(ctx context.Context, in AnalysisInput) (*Proposal, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Proposal != nil {
		cp := *p.Proposal
		cp.SuggestedEntries = append([]domain.SuggestedEntry(nil), p.Proposal.SuggestedEntries...)
		return &cp, nil
	}

	amount := decimal.NewFromInt(1)
	if m := amountPattern.FindString(in.DocumentText); m != "" {
		amount = decimal.RequireFromString(m)
	}

	var debitCode, creditCode string
	for _, a := range in.Accounts {
		switch domain.NormalBalanceFor(a.Type) {
		case domain.NormalDebit:
			if debitCode == "" {
				debitCode = a.Code
			}
		case domain.NormalCredit:
			if creditCode == "" {
				creditCode = a.Code
			}
		}
	}

	return &Proposal{
		SuggestedEntries: []domain.SuggestedEntry{
			{AccountCode: debitCode, DebitAmount: amount, CreditAmount: decimal.Zero, Description: in.Description},
			{AccountCode: creditCode, DebitAmount: decimal.Zero, CreditAmount: amount, Description: in.Description},
		},
		ConfidenceScore: decimal.RequireFromString("0.5"),
		Reasoning:       "mock provider",
		ModelUsed:       "mock",
	}, nil
}

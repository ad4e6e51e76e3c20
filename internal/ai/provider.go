// Package ai holds the adapters that turn a source document into proposed
// journal entries. The ledger core treats every provider as an opaque
// function and validates whatever it returns.
package ai

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountHint is a chart of accounts line offered to the model.
type AccountHint struct {
	Code string             `json:"code"`
	Name string             `json:"name"`
	Type domain.AccountType `json:"type"`
}

// AnalysisInput is what a provider sees.
type AnalysisInput struct {
	CompanyID       string
	AgentID         string
	Model           string
	DocumentText    string
	Description     string
	TransactionDate time.Time
	Accounts        []AccountHint
}

// Proposal is a provider's answer.
type Proposal struct {
	SuggestedEntries []domain.SuggestedEntry
	ConfidenceScore  decimal.Decimal
	Reasoning        string
	ModelUsed        string
	ProcessingTimeMS int64
}

// Provider is a strategy for producing proposals.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, in AnalysisInput) (*Proposal, error)
}

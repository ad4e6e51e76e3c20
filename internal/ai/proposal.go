package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

const systemPrompt = `You are a bookkeeping assistant for a double-entry ledger.
Read the source document and propose one balanced journal entry using only
account codes from the chart of accounts you are given.
Reply with a single JSON object and nothing else:
{"suggested_entries":[{"account_code":"...","debit_amount":"0.00","credit_amount":"0.00","description":"..."}],
 "confidence_score":0.0,"reasoning":"..."}
Every line has exactly one positive side. Total debits must equal total credits.`

type rawEntry struct {
	AccountCode  string          `json:"account_code"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Description  string          `json:"description"`
}

type rawProposal struct {
	SuggestedEntries []rawEntry      `json:"suggested_entries"`
	ConfidenceScore  decimal.Decimal `json:"confidence_score"`
	Reasoning        string          `json:"reasoning"`
}

var errNoJSON = errors.New("model reply contains no JSON object")

// buildUserPrompt renders the document and chart of accounts for the model.
func buildUserPrompt(in AnalysisInput) string {
	var b strings.Builder
	b.WriteString("Chart of accounts:\n")
	for _, a := range in.Accounts {
		fmt.Fprintf(&b, "- %s %s (%s)\n", a.Code, a.Name, a.Type)
	}
	if !in.TransactionDate.IsZero() {
		fmt.Fprintf(&b, "\nTransaction date: %s\n", in.TransactionDate.Format("2006-01-02"))
	}
	if in.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.Description)
	}
	b.WriteString("\nDocument:\n")
	b.WriteString(in.DocumentText)
	return b.String()
}

// parseProposal decodes the JSON object embedded in a model reply.
func parseProposal(reply string) (*Proposal, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, errNoJSON
	}

	var raw rawProposal
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode model reply: %w", err)
	}
	if len(raw.SuggestedEntries) == 0 {
		return nil, errors.New("model proposed no entries")
	}
	if raw.ConfidenceScore.IsNegative() || raw.ConfidenceScore.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("confidence score %s out of range", raw.ConfidenceScore)
	}

	entries := make([]domain.SuggestedEntry, len(raw.SuggestedEntries))
	for i, e := range raw.SuggestedEntries {
		entries[i] = domain.SuggestedEntry{
			AccountCode:  e.AccountCode,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Description:  e.Description,
		}
	}
	return &Proposal{
		SuggestedEntries: entries,
		ConfidenceScore:  raw.ConfidenceScore,
		Reasoning:        raw.Reasoning,
	}, nil
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SuggestionStatus is a state of the suggestion review workflow.
type SuggestionStatus string

const (
	SuggestionPending     SuggestionStatus = "pending"
	SuggestionApproved    SuggestionStatus = "approved"
	SuggestionRejected    SuggestionStatus = "rejected"
	SuggestionImplemented SuggestionStatus = "implemented"
)

// IsTerminal reports whether no further transition is possible.
func (s SuggestionStatus) IsTerminal() bool {
	return s == SuggestionRejected || s == SuggestionImplemented
}

// Action names the review action that moves a suggestion into s.
func (s SuggestionStatus) Action() string {
	switch s {
	case SuggestionApproved:
		return "approve"
	case SuggestionRejected:
		return "reject"
	case SuggestionImplemented:
		return "implement"
	}
	return "update"
}

// SuggestedEntry has the shape of a TransactionEntry but is not posted.
// AccountCode may be given instead of AccountID; it is resolved against the
// company's chart of accounts when the suggestion is implemented.
type SuggestedEntry struct {
	AccountID    string          `json:"accountID,omitempty"`
	AccountCode  string          `json:"accountCode,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
	EntityID     *string         `json:"entityID,omitempty"`
	EntityType   *EntityType     `json:"entityType,omitempty"`
}

// AISuggestion is an AI-proposed set of entries awaiting review.
type AISuggestion struct {
	SuggestionID             string           `json:"suggestionID"`
	CompanyID                string           `json:"companyID"`
	AgentID                  string           `json:"agentID"`
	Status                   SuggestionStatus `json:"status"`
	TransactionDate          time.Time        `json:"transactionDate"`
	Description              string           `json:"description"`
	SuggestedEntries         []SuggestedEntry `json:"suggestedEntries"`
	ConfidenceScore          decimal.Decimal  `json:"confidenceScore"`
	Reasoning                string           `json:"reasoning,omitempty"`
	ModelUsed                string           `json:"modelUsed,omitempty"`
	ProcessingTimeMS         int64            `json:"processingTimeMs"`
	Metadata                 json.RawMessage  `json:"metadata,omitempty"`
	ReviewedBy               string           `json:"reviewedBy,omitempty"`
	ReviewedAt               *time.Time       `json:"reviewedAt,omitempty"`
	ReviewNotes              string           `json:"reviewNotes,omitempty"`
	ImplementedTransactionID string           `json:"implementedTransactionID,omitempty"`
	ImplementedAt            *time.Time       `json:"implementedAt,omitempty"`
	AuditFields
}

// AIAgent is the configured policy entity that produces suggestions.
type AIAgent struct {
	AgentID             string          `json:"agentID"`
	CompanyID           string          `json:"companyID"`
	Name                string          `json:"name"`
	Provider            string          `json:"provider"`
	Model               string          `json:"model,omitempty"`
	ConfidenceThreshold decimal.Decimal `json:"confidenceThreshold"`
	AutoApprove         bool            `json:"autoApprove"`
	IsActive            bool            `json:"isActive"`
	TotalSuggestions    int64           `json:"totalSuggestions"`
	ApprovedCount       int64           `json:"approvedCount"`
	RejectedCount       int64           `json:"rejectedCount"`
	ImplementedCount    int64           `json:"implementedCount"`
	AuditFields
}

// AccuracyRate is the share of reviewed suggestions that were approved.
func (a AIAgent) AccuracyRate() float64 {
	reviewed := a.ApprovedCount + a.RejectedCount
	if reviewed == 0 {
		return 0
	}
	return float64(a.ApprovedCount) / float64(reviewed)
}

// ShouldAutoApprove applies the agent's policy to a confidence score.
func (a AIAgent) ShouldAutoApprove(confidence decimal.Decimal) bool {
	return a.AutoApprove && confidence.GreaterThanOrEqual(a.ConfidenceThreshold)
}

// AgentCounter names one of the agent's review counters.
type AgentCounter string

const (
	CounterTotal       AgentCounter = "total_suggestions"
	CounterApproved    AgentCounter = "approved_count"
	CounterRejected    AgentCounter = "rejected_count"
	CounterImplemented AgentCounter = "implemented_count"
)

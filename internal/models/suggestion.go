package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AISuggestion is a row of the ai_suggestions table. SuggestedEntries and
// Metadata are JSONB columns.
type AISuggestion struct {
	SuggestionID             string          `db:"suggestion_id"`
	CompanyID                string          `db:"company_id"`
	AgentID                  string          `db:"agent_id"`
	Status                   string          `db:"status"`
	TransactionDate          time.Time       `db:"transaction_date"`
	Description              string          `db:"description"`
	SuggestedEntries         []byte          `db:"suggested_entries"`
	ConfidenceScore          decimal.Decimal `db:"confidence_score"`
	Reasoning                *string         `db:"reasoning"`
	ModelUsed                *string         `db:"model_used"`
	ProcessingTimeMS         int64           `db:"processing_time_ms"`
	Metadata                 []byte          `db:"metadata"`
	ReviewedBy               *string         `db:"reviewed_by"`
	ReviewedAt               *time.Time      `db:"reviewed_at"`
	ReviewNotes              *string         `db:"review_notes"`
	ImplementedTransactionID *string         `db:"implemented_transaction_id"`
	ImplementedAt            *time.Time      `db:"implemented_at"`
	AuditFields
}

// AIAgent is a row of the ai_agents table.
type AIAgent struct {
	AgentID             string          `db:"agent_id"`
	CompanyID           string          `db:"company_id"`
	Name                string          `db:"name"`
	Provider            string          `db:"provider"`
	Model               *string         `db:"model"`
	ConfidenceThreshold decimal.Decimal `db:"confidence_threshold"`
	AutoApprove         bool            `db:"auto_approve"`
	IsActive            bool            `db:"is_active"`
	TotalSuggestions    int64           `db:"total_suggestions"`
	ApprovedCount       int64           `db:"approved_count"`
	RejectedCount       int64           `db:"rejected_count"`
	ImplementedCount    int64           `db:"implemented_count"`
	AuditFields
}

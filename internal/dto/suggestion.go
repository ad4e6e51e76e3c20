package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSuggestionRequest records an AI proposal for review.
type CreateSuggestionRequest struct {
	CompanyID        string                  `json:"-"`
	AgentID          string                  `json:"agentID" binding:"required"`
	TransactionDate  time.Time               `json:"transactionDate" binding:"required"`
	Description      string                  `json:"description"`
	SuggestedEntries []domain.SuggestedEntry `json:"suggestedEntries" binding:"required,min=1"`
	ConfidenceScore  decimal.Decimal         `json:"confidenceScore"`
	Reasoning        string                  `json:"reasoning"`
	ModelUsed        string                  `json:"modelUsed"`
	ProcessingTimeMS int64                   `json:"processingTimeMs"`
	Metadata         json.RawMessage         `json:"metadata,omitempty"`
	CreatedBy        string                  `json:"-"`
}

// ReviewSuggestionRequest is the body of approve and reject calls.
type ReviewSuggestionRequest struct {
	Notes         string `json:"notes"`
	AutoImplement bool   `json:"autoImplement"`
}

// ListSuggestionsParams defines query parameters for listing suggestions.
type ListSuggestionsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected implemented"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=200"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}

// CreateAgentRequest configures an AI agent for a company.
type CreateAgentRequest struct {
	CompanyID           string          `json:"-"`
	Name                string          `json:"name" binding:"required"`
	Provider            string          `json:"provider" binding:"required,oneof=openai anthropic ollama mock"`
	Model               string          `json:"model"`
	ConfidenceThreshold decimal.Decimal `json:"confidenceThreshold"`
	AutoApprove         bool            `json:"autoApprove"`
	CreatedBy           string          `json:"-"`
}

// AnalyzeRequest asks an agent to propose entries for a source document.
type AnalyzeRequest struct {
	CompanyID       string          `json:"-"`
	AgentID         string          `json:"-"`
	DocumentText    string          `json:"documentText" binding:"required"`
	TransactionDate *time.Time      `json:"transactionDate,omitempty"`
	Description     string          `json:"description"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	RequestedBy     string          `json:"-"`
}

// AnalyzeResponse reports the suggestion produced by an analysis and, when
// policy auto-approved it, the transaction it was implemented as.
// ImplementError is set when the suggestion was approved but could not be
// posted; it stays approved for correction.
type AnalyzeResponse struct {
	Suggestion     *domain.AISuggestion      `json:"suggestion"`
	AutoApproved   bool                      `json:"autoApproved"`
	Transaction    *domain.PostedTransaction `json:"transaction,omitempty"`
	ImplementError string                    `json:"implementError,omitempty"`
	AgentAccuracy  float64                   `json:"agentAccuracy"`
}

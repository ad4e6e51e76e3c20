package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// SuggestionReaderSvc defines read operations for AI suggestions
type SuggestionReaderSvc interface {
	GetSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error)
	ListSuggestions(ctx context.Context, companyID string, params dto.ListSuggestionsParams) ([]domain.AISuggestion, error)
}

// SuggestionWorkflowSvc moves suggestions through review.
type SuggestionWorkflowSvc interface {
	// CreateSuggestion records a pending suggestion for an active agent.
	CreateSuggestion(ctx context.Context, req dto.CreateSuggestionRequest) (*domain.AISuggestion, error)

	// ApproveSuggestion moves a pending suggestion to approved and optionally implements it.
	// The returned transaction is nil unless it was implemented.
	ApproveSuggestion(ctx context.Context, companyID, suggestionID, reviewerID, notes string, autoImplement bool) (*domain.AISuggestion, *domain.PostedTransaction, error)

	// RejectSuggestion moves a pending suggestion to rejected.
	RejectSuggestion(ctx context.Context, companyID, suggestionID, reviewerID, notes string) (*domain.AISuggestion, error)

	// ImplementSuggestion posts an approved suggestion exactly once.
	ImplementSuggestion(ctx context.Context, companyID, suggestionID, userID string) (*domain.AISuggestion, *domain.PostedTransaction, error)
}

// AgentSvc manages AI agents and runs analyses.
type AgentSvc interface {
	CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*domain.AIAgent, error)
	GetAgent(ctx context.Context, companyID, agentID string) (*domain.AIAgent, error)

	// Analyze asks the agent's provider for a proposal, records it and applies the agent's approval policy.
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
}

// SuggestionSvcFacade combines all suggestion-related service interfaces
type SuggestionSvcFacade interface {
	SuggestionReaderSvc
	SuggestionWorkflowSvc
	AgentSvc
}

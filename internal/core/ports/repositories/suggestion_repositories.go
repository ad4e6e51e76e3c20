package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// SuggestionReader defines read operations for AI suggestions and agents
type SuggestionReader interface {
	FindSuggestionByID(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error)

	// ListSuggestions retrieves the company's suggestions, newest first.
	ListSuggestions(ctx context.Context, companyID string, status *domain.SuggestionStatus, limit, offset int) ([]domain.AISuggestion, error)

	FindAgentByID(ctx context.Context, companyID, agentID string) (*domain.AIAgent, error)
}

// SuggestionWriter defines write operations for AI suggestions and agents
type SuggestionWriter interface {
	SaveSuggestion(ctx context.Context, suggestion domain.AISuggestion) error

	// LockSuggestion reads a suggestion and holds it until the unit of work ends.
	LockSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error)

	// UpdateSuggestion writes the review and implementation fields of s only if the
	// stored status still equals from. Otherwise it returns a StateConflictError
	// carrying the stored status.
	UpdateSuggestion(ctx context.Context, s domain.AISuggestion, from domain.SuggestionStatus) error

	SaveAgent(ctx context.Context, agent domain.AIAgent) error

	// IncrementAgentCounter bumps one of the agent's review counters by one.
	IncrementAgentCounter(ctx context.Context, companyID, agentID string, counter domain.AgentCounter) error
}

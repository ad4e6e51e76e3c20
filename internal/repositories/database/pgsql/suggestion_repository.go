package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxSuggestionRepository struct {
	BaseRepository
}

var (
	_ portsrepo.SuggestionReader = (*PgxSuggestionRepository)(nil)
	_ portsrepo.SuggestionWriter = (*PgxSuggestionRepository)(nil)
)

const suggestionSelect = `
	SELECT suggestion_id, company_id, agent_id, status, transaction_date, description, suggested_entries,
	       confidence_score, reasoning, model_used, processing_time_ms, metadata, reviewed_by, reviewed_at,
	       review_notes, implemented_transaction_id, implemented_at,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM ai_suggestions `

const agentSelect = `
	SELECT agent_id, company_id, name, provider, model, confidence_threshold, auto_approve, is_active,
	       total_suggestions, approved_count, rejected_count, implemented_count,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM ai_agents `

func (r *PgxSuggestionRepository) getSuggestions(ctx context.Context, filterQuery string, args ...any) ([]domain.AISuggestion, error) {
	rows, err := r.db.Query(ctx, suggestionSelect+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query suggestions", err)
	}
	modelRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AISuggestion])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect suggestion rows", err)
	}

	suggestions := make([]domain.AISuggestion, 0, len(modelRows))
	for _, m := range modelRows {
		s, err := mapping.ToDomainSuggestion(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to map suggestion", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

func (r *PgxSuggestionRepository) findSuggestion(ctx context.Context, companyID, suggestionID, suffix string) (*domain.AISuggestion, error) {
	suggestions, err := r.getSuggestions(ctx, "WHERE company_id = $1 AND suggestion_id = $2"+suffix, companyID, suggestionID)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, apperrors.NewNotFoundError("suggestion " + suggestionID + " not found")
	}
	return &suggestions[0], nil
}

func (r *PgxSuggestionRepository) FindSuggestionByID(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	return r.findSuggestion(ctx, companyID, suggestionID, "")
}

// LockSuggestion takes a row lock held until the surrounding transaction ends.
func (r *PgxSuggestionRepository) LockSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	return r.findSuggestion(ctx, companyID, suggestionID, " FOR UPDATE")
}

func (r *PgxSuggestionRepository) ListSuggestions(ctx context.Context, companyID string, status *domain.SuggestionStatus, limit, offset int) ([]domain.AISuggestion, error) {
	qb := &queryBuilder{}
	filter := "WHERE company_id = " + qb.arg(companyID)
	if status != nil {
		filter += " AND status = " + qb.arg(string(*status))
	}
	filter += " ORDER BY created_at DESC, suggestion_id LIMIT " + qb.arg(limit) + " OFFSET " + qb.arg(offset)
	return r.getSuggestions(ctx, filter, qb.args...)
}

func (r *PgxSuggestionRepository) SaveSuggestion(ctx context.Context, suggestion domain.AISuggestion) error {
	m, err := mapping.ToModelSuggestion(suggestion)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map suggestion", err)
	}
	query := `
		INSERT INTO ai_suggestions (
			suggestion_id, company_id, agent_id, status, transaction_date, description, suggested_entries,
			confidence_score, reasoning, model_used, processing_time_ms, metadata,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = r.db.Exec(ctx, query,
		m.SuggestionID,
		m.CompanyID,
		m.AgentID,
		m.Status,
		m.TransactionDate,
		m.Description,
		m.SuggestedEntries,
		m.ConfidenceScore,
		m.Reasoning,
		m.ModelUsed,
		m.ProcessingTimeMS,
		m.Metadata,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: suggestion %s already exists", apperrors.ErrDuplicate, m.SuggestionID)
		}
		return apperrors.NewAppError(500, "failed to save suggestion "+m.SuggestionID, err)
	}
	return nil
}

// UpdateSuggestion is a compare-and-set on status.
func (r *PgxSuggestionRepository) UpdateSuggestion(ctx context.Context, suggestion domain.AISuggestion, from domain.SuggestionStatus) error {
	m, err := mapping.ToModelSuggestion(suggestion)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map suggestion", err)
	}
	query := `
		UPDATE ai_suggestions
		SET status = $3, reviewed_by = $4, reviewed_at = $5, review_notes = $6,
		    implemented_transaction_id = $7, implemented_at = $8, last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND suggestion_id = $2 AND status = $11;
	`
	tag, err := r.db.Exec(ctx, query,
		m.CompanyID,
		m.SuggestionID,
		m.Status,
		m.ReviewedBy,
		m.ReviewedAt,
		m.ReviewNotes,
		m.ImplementedTransactionID,
		m.ImplementedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(from),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update suggestion "+m.SuggestionID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, "SELECT status FROM ai_suggestions WHERE company_id = $1 AND suggestion_id = $2", m.CompanyID, m.SuggestionID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("suggestion " + m.SuggestionID + " not found")
		}
		return apperrors.NewAppError(500, "failed to read status of suggestion "+m.SuggestionID, err)
	}
	return apperrors.NewStateConflict("suggestion", m.SuggestionID, suggestion.Status.Action(), current)
}

func (r *PgxSuggestionRepository) FindAgentByID(ctx context.Context, companyID, agentID string) (*domain.AIAgent, error) {
	rows, err := r.db.Query(ctx, agentSelect+"WHERE company_id = $1 AND agent_id = $2", companyID, agentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query agent "+agentID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.AIAgent])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("agent " + agentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan agent "+agentID, err)
	}
	agent := mapping.ToDomainAgent(m)
	return &agent, nil
}

func (r *PgxSuggestionRepository) SaveAgent(ctx context.Context, agent domain.AIAgent) error {
	m := mapping.ToModelAgent(agent)
	query := `
		INSERT INTO ai_agents (
			agent_id, company_id, name, provider, model, confidence_threshold, auto_approve, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.AgentID,
		m.CompanyID,
		m.Name,
		m.Provider,
		m.Model,
		m.ConfidenceThreshold,
		m.AutoApprove,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: agent %s already exists", apperrors.ErrDuplicate, m.AgentID)
		}
		return apperrors.NewAppError(500, "failed to save agent "+m.AgentID, err)
	}
	return nil
}

var agentCounterColumns = map[domain.AgentCounter]string{
	domain.CounterTotal:       "total_suggestions",
	domain.CounterApproved:    "approved_count",
	domain.CounterRejected:    "rejected_count",
	domain.CounterImplemented: "implemented_count",
}

func (r *PgxSuggestionRepository) IncrementAgentCounter(ctx context.Context, companyID, agentID string, counter domain.AgentCounter) error {
	column, ok := agentCounterColumns[counter]
	if !ok {
		return fmt.Errorf("unknown agent counter %q", counter)
	}
	query := fmt.Sprintf("UPDATE ai_agents SET %[1]s = %[1]s + 1 WHERE company_id = $1 AND agent_id = $2", column)
	tag, err := r.db.Exec(ctx, query, companyID, agentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update counters of agent "+agentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("agent " + agentID + " not found")
	}
	return nil
}

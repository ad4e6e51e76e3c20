package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/ai"
	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AutoApproveReviewer is recorded as the reviewer of suggestions approved by agent policy.
const AutoApproveReviewer = "system:auto-approve"

const defaultSuggestionPageSize = 20

// ProviderResolver finds the AI provider an agent is configured with.
type ProviderResolver interface {
	Get(name string) (ai.Provider, error)
}

// suggestionService runs the review workflow for AI suggestions.
type suggestionService struct {
	BaseService
	poster    poster
	store     portsrepo.LedgerStore
	providers ProviderResolver
	publisher events.Publisher
}

// SuggestionServiceOption is a functional option for configuring the suggestion service
type SuggestionServiceOption func(*suggestionService)

// WithProviders sets how agents' AI providers are resolved.
func WithProviders(r ProviderResolver) SuggestionServiceOption {
	return func(s *suggestionService) {
		s.providers = r
	}
}

// WithSuggestionPublisher sets where ledger events are published.
func WithSuggestionPublisher(p events.Publisher) SuggestionServiceOption {
	return func(s *suggestionService) {
		s.publisher = p
	}
}

// NewSuggestionService creates a new suggestion workflow service.
func NewSuggestionService(store portsrepo.LedgerStore, options ...SuggestionServiceOption) portssvc.SuggestionSvcFacade {
	svc := &suggestionService{
		store:     store,
		publisher: events.NoopPublisher{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SuggestionSvcFacade = (*suggestionService)(nil)

var decimalOne = decimal.NewFromInt(1)

func inUnitRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimalOne)
}

func (s *suggestionService) CreateSuggestion(ctx context.Context, req dto.CreateSuggestionRequest) (*domain.AISuggestion, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if !inUnitRange(req.ConfidenceScore) {
		return nil, apperrors.ValidationErrors{{Index: -1, Field: "confidenceScore", Message: "must be between 0 and 1"}}
	}

	now := utcNow()
	suggestion := domain.AISuggestion{
		SuggestionID:     uuid.NewString(),
		CompanyID:        req.CompanyID,
		AgentID:          req.AgentID,
		Status:           domain.SuggestionPending,
		TransactionDate:  startOfDay(req.TransactionDate),
		Description:      req.Description,
		SuggestedEntries: req.SuggestedEntries,
		ConfidenceScore:  req.ConfidenceScore,
		Reasoning:        req.Reasoning,
		ModelUsed:        req.ModelUsed,
		ProcessingTimeMS: req.ProcessingTimeMS,
		Metadata:         req.Metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: req.CreatedBy,
		},
	}

	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		agent, err := tx.FindAgentByID(ctx, req.CompanyID, req.AgentID)
		if err != nil {
			return err
		}
		if !agent.IsActive {
			return apperrors.ValidationErrors{{Index: -1, Field: "agentID", Message: "agent " + agent.Name + " is inactive"}}
		}
		if err := tx.SaveSuggestion(ctx, suggestion); err != nil {
			return err
		}
		return tx.IncrementAgentCounter(ctx, req.CompanyID, req.AgentID, domain.CounterTotal)
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to save suggestion", slog.String("agent_id", req.AgentID))
		}
		return nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Suggestion created",
		slog.String("suggestion_id", suggestion.SuggestionID),
		slog.String("agent_id", suggestion.AgentID),
		slog.String("confidence", suggestion.ConfidenceScore.String()))
	return &suggestion, nil
}

// review moves a pending suggestion to status to and bumps the matching agent counter.
func (s *suggestionService) review(ctx context.Context, companyID, suggestionID, reviewerID, notes string, to domain.SuggestionStatus, counter domain.AgentCounter) (*domain.AISuggestion, error) {
	var updated *domain.AISuggestion
	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		suggestion, err := tx.FindSuggestionByID(ctx, companyID, suggestionID)
		if err != nil {
			return err
		}
		if suggestion.Status != domain.SuggestionPending {
			return apperrors.NewStateConflict("suggestion", suggestionID, to.Action(), string(suggestion.Status))
		}

		now := utcNow()
		suggestion.Status = to
		suggestion.ReviewedBy = reviewerID
		suggestion.ReviewedAt = &now
		suggestion.ReviewNotes = notes
		suggestion.LastUpdatedAt = now
		suggestion.LastUpdatedBy = reviewerID
		if err := tx.UpdateSuggestion(ctx, *suggestion, domain.SuggestionPending); err != nil {
			return err
		}
		if err := tx.IncrementAgentCounter(ctx, companyID, suggestion.AgentID, counter); err != nil {
			return err
		}
		updated = suggestion
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to review suggestion",
				slog.String("suggestion_id", suggestionID),
				slog.String("action", to.Action()))
		}
		return nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Suggestion reviewed",
		slog.String("suggestion_id", suggestionID),
		slog.String("status", string(to)),
		slog.String("reviewer_id", reviewerID))
	return updated, nil
}

// ApproveSuggestion approves a pending suggestion. When autoImplement is set
// and posting fails, the approved suggestion is returned together with the error.
func (s *suggestionService) ApproveSuggestion(ctx context.Context, companyID, suggestionID, reviewerID, notes string, autoImplement bool) (*domain.AISuggestion, *domain.PostedTransaction, error) {
	approved, err := s.review(ctx, companyID, suggestionID, reviewerID, notes, domain.SuggestionApproved, domain.CounterApproved)
	if err != nil {
		return nil, nil, err
	}
	if !autoImplement {
		return approved, nil, nil
	}

	implemented, posted, err := s.ImplementSuggestion(ctx, companyID, suggestionID, reviewerID)
	if err != nil {
		return approved, nil, err
	}
	return implemented, posted, nil
}

func (s *suggestionService) RejectSuggestion(ctx context.Context, companyID, suggestionID, reviewerID, notes string) (*domain.AISuggestion, error) {
	return s.review(ctx, companyID, suggestionID, reviewerID, notes, domain.SuggestionRejected, domain.CounterRejected)
}

// toTransactionRequest converts suggested entries into a poster request,
// resolving chart codes to account IDs.
func (s *suggestionService) toTransactionRequest(ctx context.Context, tx portsrepo.Store, suggestion *domain.AISuggestion, userID string) (dto.CreateTransactionRequest, error) {
	req := dto.CreateTransactionRequest{
		CompanyID:       suggestion.CompanyID,
		TransactionDate: suggestion.TransactionDate,
		Description:     suggestion.Description,
		Type:            domain.TypeAISuggestion,
		Reference:       "AI-" + suggestion.SuggestionID,
		CreatedBy:       userID,
		Entries:         make([]dto.EntryRequest, len(suggestion.SuggestedEntries)),
	}
	if req.Description == "" {
		req.Description = "AI suggestion " + suggestion.SuggestionID
	}

	var verrs apperrors.ValidationErrors
	for i, e := range suggestion.SuggestedEntries {
		accountID := e.AccountID
		if accountID == "" && e.AccountCode != "" {
			account, err := tx.FindAccountByCode(ctx, suggestion.CompanyID, e.AccountCode)
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				verrs = append(verrs, apperrors.ValidationError{Index: i, Field: "accountCode", Message: "account code " + e.AccountCode + " not found"})
				continue
			case err != nil:
				return req, err
			}
			accountID = account.AccountID
		}
		req.Entries[i] = dto.EntryRequest{
			AccountID:    accountID,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Description:  e.Description,
			EntityID:     e.EntityID,
			EntityType:   e.EntityType,
		}
	}
	if len(verrs) > 0 {
		return req, verrs
	}
	return req, nil
}

// ImplementSuggestion locks the suggestion, posts its entries and marks it
// implemented in one unit of work. Any failure leaves the suggestion approved.
func (s *suggestionService) ImplementSuggestion(ctx context.Context, companyID, suggestionID, userID string) (*domain.AISuggestion, *domain.PostedTransaction, error) {
	var (
		updated *domain.AISuggestion
		posted  *domain.PostedTransaction
	)
	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		suggestion, err := tx.LockSuggestion(ctx, companyID, suggestionID)
		if err != nil {
			return err
		}
		if suggestion.Status != domain.SuggestionApproved || suggestion.ImplementedTransactionID != "" {
			return apperrors.NewStateConflict("suggestion", suggestionID, "implement", string(suggestion.Status))
		}

		req, err := s.toTransactionRequest(ctx, tx, suggestion, userID)
		if err != nil {
			return err
		}
		posted, err = s.poster.post(ctx, tx, req)
		if err != nil {
			return err
		}

		now := utcNow()
		suggestion.Status = domain.SuggestionImplemented
		suggestion.ImplementedTransactionID = posted.Transaction.TransactionID
		suggestion.ImplementedAt = &now
		suggestion.LastUpdatedAt = now
		suggestion.LastUpdatedBy = userID
		if err := tx.UpdateSuggestion(ctx, *suggestion, domain.SuggestionApproved); err != nil {
			return err
		}
		if err := tx.IncrementAgentCounter(ctx, companyID, suggestion.AgentID, domain.CounterImplemented); err != nil {
			return err
		}
		updated = suggestion
		return nil
	})
	if err != nil {
		if isExpected(err) {
			s.LogDebug(ctx, "Suggestion not implemented",
				slog.String("suggestion_id", suggestionID),
				slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to implement suggestion", slog.String("suggestion_id", suggestionID))
		}
		return nil, nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Suggestion implemented",
		slog.String("suggestion_id", suggestionID),
		slog.String("transaction_id", posted.Transaction.TransactionID),
		slog.Int64("transaction_number", posted.Transaction.TransactionNumber))

	debit, _ := posted.Totals()
	s.publish(ctx, s.publisher, events.Event{
		EventType:         events.SuggestionImplemented,
		CompanyID:         companyID,
		TransactionID:     posted.Transaction.TransactionID,
		TransactionNumber: posted.Transaction.TransactionNumber,
		SuggestionID:      suggestionID,
		Status:            string(domain.SuggestionImplemented),
		Amount:            debit,
		UserID:            userID,
		Timestamp:         posted.Transaction.CreatedAt,
	})
	return updated, posted, nil
}

func (s *suggestionService) GetSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	suggestion, err := s.store.FindSuggestionByID(ctx, companyID, suggestionID)
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to find suggestion", slog.String("suggestion_id", suggestionID))
		}
		return nil, err
	}
	return suggestion, nil
}

func (s *suggestionService) ListSuggestions(ctx context.Context, companyID string, params dto.ListSuggestionsParams) ([]domain.AISuggestion, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSuggestionPageSize
	}
	var status *domain.SuggestionStatus
	if params.Status != "" {
		st := domain.SuggestionStatus(params.Status)
		status = &st
	}

	suggestions, err := s.store.ListSuggestions(ctx, companyID, status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list suggestions", slog.String("company_id", companyID))
		return nil, err
	}
	if suggestions == nil {
		return []domain.AISuggestion{}, nil
	}
	return suggestions, nil
}

func (s *suggestionService) CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*domain.AIAgent, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if !inUnitRange(req.ConfidenceThreshold) {
		return nil, apperrors.ValidationErrors{{Index: -1, Field: "confidenceThreshold", Message: "must be between 0 and 1"}}
	}

	now := utcNow()
	agent := domain.AIAgent{
		AgentID:             uuid.NewString(),
		CompanyID:           req.CompanyID,
		Name:                req.Name,
		Provider:            req.Provider,
		Model:               req.Model,
		ConfidenceThreshold: req.ConfidenceThreshold,
		AutoApprove:         req.AutoApprove,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: req.CreatedBy,
		},
	}
	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		return tx.SaveAgent(ctx, agent)
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to save agent", slog.String("company_id", req.CompanyID))
		}
		return nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Agent created",
		slog.String("agent_id", agent.AgentID),
		slog.String("provider", agent.Provider))
	return &agent, nil
}

func (s *suggestionService) GetAgent(ctx context.Context, companyID, agentID string) (*domain.AIAgent, error) {
	agent, err := s.store.FindAgentByID(ctx, companyID, agentID)
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to find agent", slog.String("agent_id", agentID))
		}
		return nil, err
	}
	return agent, nil
}

// Analyze calls the agent's provider before touching the ledger, records the
// proposal as a pending suggestion and applies the agent's approval policy.
func (s *suggestionService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	agent, err := s.GetAgent(ctx, req.CompanyID, req.AgentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsActive {
		return nil, apperrors.ValidationErrors{{Index: -1, Field: "agentID", Message: "agent " + agent.Name + " is inactive"}}
	}
	if s.providers == nil {
		return nil, fmt.Errorf("%w: no providers configured", apperrors.ErrProviderUnavailable)
	}
	provider, err := s.providers.Get(agent.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProviderUnavailable, err)
	}

	accounts, err := s.store.ListAccounts(ctx, req.CompanyID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for analysis", slog.String("company_id", req.CompanyID))
		return nil, err
	}
	hints := make([]ai.AccountHint, len(accounts))
	for i, a := range accounts {
		hints[i] = ai.AccountHint{Code: a.Code, Name: a.Name, Type: a.Type}
	}

	txnDate := utcNow()
	if req.TransactionDate != nil {
		txnDate = *req.TransactionDate
	}

	proposal, err := provider.Analyze(ctx, ai.AnalysisInput{
		CompanyID:       req.CompanyID,
		AgentID:         agent.AgentID,
		Model:           agent.Model,
		DocumentText:    req.DocumentText,
		Description:     req.Description,
		TransactionDate: txnDate,
		Accounts:        hints,
	})
	if err != nil {
		s.LogError(ctx, err, "AI provider failed",
			slog.String("agent_id", agent.AgentID),
			slog.String("provider", provider.Name()))
		if errors.Is(err, apperrors.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProviderUnavailable, err)
	}

	modelUsed := proposal.ModelUsed
	if modelUsed == "" {
		modelUsed = agent.Model
	}
	suggestion, err := s.CreateSuggestion(ctx, dto.CreateSuggestionRequest{
		CompanyID:        req.CompanyID,
		AgentID:          agent.AgentID,
		TransactionDate:  txnDate,
		Description:      req.Description,
		SuggestedEntries: proposal.SuggestedEntries,
		ConfidenceScore:  proposal.ConfidenceScore,
		Reasoning:        proposal.Reasoning,
		ModelUsed:        modelUsed,
		ProcessingTimeMS: proposal.ProcessingTimeMS,
		Metadata:         req.Metadata,
		CreatedBy:        req.RequestedBy,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyzeResponse{Suggestion: suggestion}
	if agent.ShouldAutoApprove(suggestion.ConfidenceScore) {
		notes := fmt.Sprintf("confidence %s meets threshold %s",
			suggestion.ConfidenceScore.StringFixed(2), agent.ConfidenceThreshold.StringFixed(2))
		updated, posted, err := s.ApproveSuggestion(ctx, req.CompanyID, suggestion.SuggestionID, AutoApproveReviewer, notes, true)
		if updated != nil {
			resp.Suggestion = updated
			resp.AutoApproved = true
		}
		resp.Transaction = posted
		if err != nil {
			if updated == nil {
				return nil, err
			}
			s.GetLogger(ctx).Warn("Auto-approved suggestion could not be implemented",
				slog.String("suggestion_id", suggestion.SuggestionID),
				slog.String("error", err.Error()))
			resp.ImplementError = err.Error()
		}
	}

	if refreshed, err := s.store.FindAgentByID(ctx, req.CompanyID, agent.AgentID); err == nil {
		resp.AgentAccuracy = refreshed.AccuracyRate()
	}
	return resp, nil
}

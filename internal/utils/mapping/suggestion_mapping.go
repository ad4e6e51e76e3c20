package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelSuggestion converts a domain AISuggestion to a model AISuggestion,
// encoding the JSONB columns.
func ToModelSuggestion(d domain.AISuggestion) (models.AISuggestion, error) {
	entries, err := json.Marshal(d.SuggestedEntries)
	if err != nil {
		return models.AISuggestion{}, fmt.Errorf("failed to encode suggested entries: %w", err)
	}
	var metadata []byte
	if len(d.Metadata) > 0 {
		metadata = d.Metadata
	}
	var implementedID *string
	if d.ImplementedTransactionID != "" {
		implementedID = &d.ImplementedTransactionID
	}
	return models.AISuggestion{
		SuggestionID:             d.SuggestionID,
		CompanyID:                d.CompanyID,
		AgentID:                  d.AgentID,
		Status:                   string(d.Status),
		TransactionDate:          d.TransactionDate,
		Description:              d.Description,
		SuggestedEntries:         entries,
		ConfidenceScore:          d.ConfidenceScore,
		Reasoning:                nullable(d.Reasoning),
		ModelUsed:                nullable(d.ModelUsed),
		ProcessingTimeMS:         d.ProcessingTimeMS,
		Metadata:                 metadata,
		ReviewedBy:               nullable(d.ReviewedBy),
		ReviewedAt:               d.ReviewedAt,
		ReviewNotes:              nullable(d.ReviewNotes),
		ImplementedTransactionID: implementedID,
		ImplementedAt:            d.ImplementedAt,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainSuggestion converts a model AISuggestion to a domain AISuggestion.
func ToDomainSuggestion(m models.AISuggestion) (domain.AISuggestion, error) {
	var entries []domain.SuggestedEntry
	if len(m.SuggestedEntries) > 0 {
		if err := json.Unmarshal(m.SuggestedEntries, &entries); err != nil {
			return domain.AISuggestion{}, fmt.Errorf("failed to decode suggested entries of %s: %w", m.SuggestionID, err)
		}
	}
	return domain.AISuggestion{
		SuggestionID:             m.SuggestionID,
		CompanyID:                m.CompanyID,
		AgentID:                  m.AgentID,
		Status:                   domain.SuggestionStatus(m.Status),
		TransactionDate:          m.TransactionDate,
		Description:              m.Description,
		SuggestedEntries:         entries,
		ConfidenceScore:          m.ConfidenceScore,
		Reasoning:                deref(m.Reasoning),
		ModelUsed:                deref(m.ModelUsed),
		ProcessingTimeMS:         m.ProcessingTimeMS,
		Metadata:                 json.RawMessage(m.Metadata),
		ReviewedBy:               deref(m.ReviewedBy),
		ReviewedAt:               m.ReviewedAt,
		ReviewNotes:              deref(m.ReviewNotes),
		ImplementedTransactionID: deref(m.ImplementedTransactionID),
		ImplementedAt:            m.ImplementedAt,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelAgent converts a domain AIAgent to a model AIAgent
func ToModelAgent(d domain.AIAgent) models.AIAgent {
	return models.AIAgent{
		AgentID:             d.AgentID,
		CompanyID:           d.CompanyID,
		Name:                d.Name,
		Provider:            d.Provider,
		Model:               nullable(d.Model),
		ConfidenceThreshold: d.ConfidenceThreshold,
		AutoApprove:         d.AutoApprove,
		IsActive:            d.IsActive,
		TotalSuggestions:    d.TotalSuggestions,
		ApprovedCount:       d.ApprovedCount,
		RejectedCount:       d.RejectedCount,
		ImplementedCount:    d.ImplementedCount,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAgent converts a model AIAgent to a domain AIAgent
func ToDomainAgent(m models.AIAgent) domain.AIAgent {
	return domain.AIAgent{
		AgentID:             m.AgentID,
		CompanyID:           m.CompanyID,
		Name:                m.Name,
		Provider:            m.Provider,
		Model:               deref(m.Model),
		ConfidenceThreshold: m.ConfidenceThreshold,
		AutoApprove:         m.AutoApprove,
		IsActive:            m.IsActive,
		TotalSuggestions:    m.TotalSuggestions,
		ApprovedCount:       m.ApprovedCount,
		RejectedCount:       m.RejectedCount,
		ImplementedCount:    m.ImplementedCount,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

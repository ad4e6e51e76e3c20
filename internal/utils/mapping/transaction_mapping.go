package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		CompanyID:         d.CompanyID,
		TransactionNumber: d.TransactionNumber,
		TransactionDate:   d.TransactionDate,
		PostingDate:       d.PostingDate,
		TransactionType:   string(d.Type),
		Status:            string(d.Status),
		Description:       d.Description,
		Reference:         nullable(d.Reference),
		VoidedBy:          nullable(d.VoidedBy),
		VoidedAt:          d.VoidedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		CompanyID:         m.CompanyID,
		TransactionNumber: m.TransactionNumber,
		TransactionDate:   m.TransactionDate,
		PostingDate:       m.PostingDate,
		Type:              domain.TransactionType(m.TransactionType),
		Status:            domain.TransactionStatus(m.Status),
		Description:       m.Description,
		Reference:         deref(m.Reference),
		VoidedBy:          deref(m.VoidedBy),
		VoidedAt:          m.VoidedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain TransactionEntry to a model TransactionEntry
func ToModelEntry(d domain.TransactionEntry) models.TransactionEntry {
	m := models.TransactionEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		CompanyID:     d.CompanyID,
		LineNumber:    d.LineNumber,
		AccountID:     d.AccountID,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		Description:   nullable(d.Description),
		EntityID:      d.EntityID,
	}
	if d.EntityType != nil {
		et := string(*d.EntityType)
		m.EntityType = &et
	}
	return m
}

// ToDomainEntry converts a model TransactionEntry to a domain TransactionEntry
func ToDomainEntry(m models.TransactionEntry) domain.TransactionEntry {
	d := domain.TransactionEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		CompanyID:     m.CompanyID,
		LineNumber:    m.LineNumber,
		AccountID:     m.AccountID,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		Description:   deref(m.Description),
		EntityID:      m.EntityID,
	}
	if m.EntityType != nil {
		et := domain.EntityType(*m.EntityType)
		d.EntityType = &et
	}
	return d
}

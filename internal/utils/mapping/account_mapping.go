package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		CompanyID:       d.CompanyID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.Type),
		NormalBalance:   string(d.NormalBalance),
		ParentAccountID: nullable(d.ParentAccountID),
		Description:     nullable(d.Description),
		IsActive:        d.IsActive,
		IsSystem:        d.IsSystem,
		OpeningBalance:  d.OpeningBalance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		CompanyID:       m.CompanyID,
		Code:            m.Code,
		Name:            m.Name,
		Type:            domain.AccountType(m.AccountType),
		NormalBalance:   domain.NormalBalance(m.NormalBalance),
		ParentAccountID: deref(m.ParentAccountID),
		Description:     deref(m.Description),
		IsActive:        m.IsActive,
		IsSystem:        m.IsSystem,
		OpeningBalance:  m.OpeningBalance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	CompanyID       string             `json:"-"`
	Code            string             `json:"code" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required"`
	Type            domain.AccountType `json:"type" binding:"required,oneof=assets liabilities equity revenue expenses"`
	ParentAccountID string             `json:"parentAccountID"`
	Description     string             `json:"description"`
	IsSystem        bool               `json:"isSystem"`
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
	CreatedBy       string             `json:"-"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	Type            domain.AccountType   `json:"type"`
	NormalBalance   domain.NormalBalance `json:"normalBalance"`
	ParentAccountID string               `json:"parentAccountID,omitempty"`
	Description     string               `json:"description,omitempty"`
	IsActive        bool                 `json:"isActive"`
	IsSystem        bool                 `json:"isSystem"`
	OpeningBalance  decimal.Decimal      `json:"openingBalance"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		Type:            acc.Type,
		NormalBalance:   acc.NormalBalance,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		IsSystem:        acc.IsSystem,
		OpeningBalance:  acc.OpeningBalance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

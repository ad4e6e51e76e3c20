package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
)

// accountService manages a company's chart of accounts.
type accountService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewAccountService creates a new account service.
func NewAccountService(store portsrepo.LedgerStore) portssvc.AccountSvcFacade {
	return &accountService{store: store}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := utcNow()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       req.CompanyID,
		Code:            req.Code,
		Name:            req.Name,
		Type:            req.Type,
		NormalBalance:   domain.NormalBalanceFor(req.Type),
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		IsSystem:        req.IsSystem,
		OpeningBalance:  req.OpeningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: req.CreatedBy,
		},
	}

	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		if account.ParentAccountID != "" {
			if _, err := tx.FindAccountByID(ctx, req.CompanyID, account.ParentAccountID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.ValidationErrors{{Index: -1, Field: "parentAccountID", Message: "parent account not found"}}
				}
				return err
			}
		}
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to save account",
				slog.String("company_id", req.CompanyID),
				slog.String("code", req.Code))
		}
		return nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", account.CompanyID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) ResolveAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.store.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ResolveSystemAccount(ctx context.Context, companyID, code string) (*domain.Account, error) {
	account, err := s.store.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, companyID, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, companyID, accountID, userID string) error {
	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		account, err := tx.LockAccount(ctx, companyID, accountID)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return nil
		}
		used, err := tx.HasPostedEntries(ctx, companyID, accountID)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("account has posted entries: %w",
				apperrors.NewStateConflict("account", accountID, "deactivate", "active"))
		}
		return tx.DeactivateAccount(ctx, companyID, accountID, userID, utcNow())
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return asIntegrity(err)
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("company_id", companyID))
	return nil
}

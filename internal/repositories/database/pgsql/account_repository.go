package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxAccountRepository struct {
	BaseRepository
}

var (
	_ portsrepo.AccountReader = (*PgxAccountRepository)(nil)
	_ portsrepo.AccountWriter = (*PgxAccountRepository)(nil)
)

const accountColumns = `account_id, company_id, code, name, account_type, normal_balance, parent_account_id,
	description, is_active, is_system, opening_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.IsSystem,
		&m.OpeningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// getAccounts runs a SELECT over accounts with the given filter.
func (r *PgxAccountRepository) getAccounts(ctx context.Context, filterQuery string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, "SELECT "+accountColumns+" FROM accounts "+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, what string, filterQuery string, args ...any) (*domain.Account, error) {
	m, err := scanAccount(r.db.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts "+filterQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + what + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+what, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, accountID, "WHERE company_id = $1 AND account_id = $2", companyID, accountID)
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return r.findOne(ctx, "with code "+code, "WHERE company_id = $1 AND code = $2", companyID, code)
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := r.getAccounts(ctx, "WHERE company_id = $1 AND account_id = ANY($2)"+r.rowLock(" FOR SHARE"), companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		found[acc.AccountID] = acc
	}
	return found, nil
}

// LockAccount reads an account with FOR UPDATE. Concurrent postings holding
// the row FOR SHARE finish first, and later ones wait for this transaction.
func (r *PgxAccountRepository) LockAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, accountID, "WHERE company_id = $1 AND account_id = $2"+r.rowLock(" FOR UPDATE"), companyID, accountID)
}

// ListAccounts retrieves the company's chart of accounts.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	filter := "WHERE company_id = $1"
	if activeOnly {
		filter += " AND is_active"
	}
	accounts, err := r.getAccounts(ctx, filter+" ORDER BY code", companyID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (r *PgxAccountRepository) HasPostedEntries(ctx context.Context, companyID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM transaction_entries e
			JOIN transactions t ON t.company_id = e.company_id AND t.transaction_id = e.transaction_id
			WHERE e.company_id = $1 AND e.account_id = $2 AND t.status <> 'void'
		)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, companyID, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check entries of account "+accountID, err)
	}
	return exists, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.NormalBalance,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.IsSystem,
		m.OpeningBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return apperrors.NewAppError(500, "failed to save account "+m.AccountID, err)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, companyID, accountID, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND account_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, companyID, accountID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}

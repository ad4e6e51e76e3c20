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

type PgxTransactionRepository struct {
	BaseRepository
}

var (
	_ portsrepo.TransactionReader = (*PgxTransactionRepository)(nil)
	_ portsrepo.TransactionWriter = (*PgxTransactionRepository)(nil)
)

const transactionSelect = `
	SELECT transaction_id, company_id, transaction_number, transaction_date, posting_date, transaction_type,
	       status, description, reference, voided_by, voided_at, created_at, created_by, last_updated_at, last_updated_by
	FROM transactions `

const entrySelect = `
	SELECT entry_id, transaction_id, company_id, line_number, account_id, debit_amount, credit_amount,
	       description, entity_id, entity_type
	FROM transaction_entries `

// NextTransactionNumber reserves the next number of the company's sequence.
// The upsert holds the sequence row lock until the unit of work ends, so
// concurrent posters of one company are serialized.
func (r *PgxTransactionRepository) NextTransactionNumber(ctx context.Context, companyID string) (int64, error) {
	query := `
		INSERT INTO transaction_sequences (company_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_number = transaction_sequences.last_number + 1
		RETURNING last_number;
	`
	var n int64
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to reserve transaction number", err)
	}
	return n, nil
}

// SaveTransaction inserts the header and queues every entry in one batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.PostedTransaction) error {
	m := mapping.ToModelTransaction(txn.Transaction)
	headerQuery := `
		INSERT INTO transactions (
			transaction_id, company_id, transaction_number, transaction_date, posting_date, transaction_type,
			status, description, reference, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		m.TransactionID,
		m.CompanyID,
		m.TransactionNumber,
		m.TransactionDate,
		m.PostingDate,
		m.TransactionType,
		m.Status,
		m.Description,
		m.Reference,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO transaction_entries (
			entry_id, transaction_id, company_id, line_number, account_id, debit_amount, credit_amount,
			description, entity_id, entity_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, e := range txn.Entries {
		me := mapping.ToModelEntry(e)
		batch.Queue(entryQuery,
			me.EntryID,
			me.TransactionID,
			me.CompanyID,
			me.LineNumber,
			me.AccountID,
			me.DebitAmount,
			me.CreditAmount,
			me.Description,
			me.EntityID,
			me.EntityType,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert entries for transaction "+m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction and its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.PostedTransaction, error) {
	rows, err := r.db.Query(ctx, transactionSelect+"WHERE company_id = $1 AND transaction_id = $2", companyID, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction "+transactionID, err)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan transaction "+transactionID, err)
	}

	rows, err = r.db.Query(ctx, entrySelect+"WHERE company_id = $1 AND transaction_id = $2 ORDER BY line_number", companyID, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries of transaction "+transactionID, err)
	}
	modelEntries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionEntry])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect entries of transaction "+transactionID, err)
	}

	entries := make([]domain.TransactionEntry, len(modelEntries))
	for i, me := range modelEntries {
		entries[i] = mapping.ToDomainEntry(me)
	}
	return &domain.PostedTransaction{
		Transaction: mapping.ToDomainTransaction(header),
		Entries:     entries,
	}, nil
}

// ListTransactions retrieves a page of headers, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, status *domain.TransactionStatus, limit int, after *portsrepo.TransactionCursor) ([]domain.Transaction, error) {
	qb := &queryBuilder{}
	filter := "WHERE company_id = " + qb.arg(companyID)
	if status != nil {
		filter += " AND status = " + qb.arg(string(*status))
	}
	if after != nil {
		filter += fmt.Sprintf(" AND (posting_date, transaction_number) < (%s, %s)", qb.arg(after.PostingDate), qb.arg(after.TransactionNumber))
	}
	filter += " ORDER BY posting_date DESC, transaction_number DESC LIMIT " + qb.arg(limit)

	rows, err := r.db.Query(ctx, transactionSelect+filter, qb.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect transaction rows", err)
	}

	txns := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		txns[i] = mapping.ToDomainTransaction(h)
	}
	return txns, nil
}

// VoidTransaction flips posted to void with a compare-and-set update.
func (r *PgxTransactionRepository) VoidTransaction(ctx context.Context, companyID, transactionID, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = 'void', voided_by = $3, voided_at = $4, last_updated_by = $3, last_updated_at = $4
		WHERE company_id = $1 AND transaction_id = $2 AND status = 'posted';
	`
	tag, err := r.db.Exec(ctx, query, companyID, transactionID, userID, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, "SELECT status FROM transactions WHERE company_id = $1 AND transaction_id = $2", companyID, transactionID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return apperrors.NewAppError(500, "failed to read status of transaction "+transactionID, err)
	}
	return apperrors.NewStateConflict("transaction", transactionID, "void", current)
}

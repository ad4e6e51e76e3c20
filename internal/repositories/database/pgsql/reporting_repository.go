package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// reportingRepository answers aggregate and general ledger queries.
type reportingRepository struct {
	BaseRepository
}

var _ portsrepo.LedgerReader = (*reportingRepository)(nil)

// SumEntries totals one account's entries of non-void transactions.
func (r *reportingRepository) SumEntries(ctx context.Context, companyID, accountID string, from, to *time.Time) (domain.EntryTotals, error) {
	qb := &queryBuilder{}
	query := `
		SELECT COALESCE(SUM(e.debit_amount), 0), COALESCE(SUM(e.credit_amount), 0)
		FROM transaction_entries e
		JOIN transactions t ON t.company_id = e.company_id AND t.transaction_id = e.transaction_id
		WHERE t.status <> 'void' AND e.company_id = ` + qb.arg(companyID) + ` AND e.account_id = ` + qb.arg(accountID)
	if from != nil {
		query += " AND t.posting_date >= " + qb.arg(*from)
	}
	if to != nil {
		query += " AND t.posting_date <= " + qb.arg(*to)
	}

	var totals domain.EntryTotals
	if err := r.db.QueryRow(ctx, query, qb.args...).Scan(&totals.Debit, &totals.Credit); err != nil {
		return domain.EntryTotals{}, apperrors.NewAppError(500, "failed to sum entries of account "+accountID, err)
	}
	return totals, nil
}

// SumEntriesByAccount totals every account's entries posted on or before asOf.
func (r *reportingRepository) SumEntriesByAccount(ctx context.Context, companyID string, asOf time.Time) (map[string]domain.EntryTotals, error) {
	query := `
		SELECT e.account_id, SUM(e.debit_amount), SUM(e.credit_amount)
		FROM transaction_entries e
		JOIN transactions t ON t.company_id = e.company_id AND t.transaction_id = e.transaction_id
		WHERE e.company_id = $1 AND t.status <> 'void' AND t.posting_date <= $2
		GROUP BY e.account_id
	`
	rows, err := r.db.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying account totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]domain.EntryTotals)
	for rows.Next() {
		var accountID string
		var debit, credit decimal.Decimal
		if err := rows.Scan(&accountID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("error scanning account totals row: %w", err)
		}
		totals[accountID] = domain.EntryTotals{Debit: debit, Credit: credit}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account totals rows: %w", err)
	}
	return totals, nil
}

// ListLedgerLines returns entries joined with their header in general ledger
// order, continuing strictly after the cursor.
func (r *reportingRepository) ListLedgerLines(ctx context.Context, filter domain.LedgerFilter, after *domain.LedgerCursor, limit int) ([]domain.LedgerLine, error) {
	qb := &queryBuilder{}
	query := `
		SELECT e.entry_id, e.transaction_id, e.company_id, e.line_number, e.account_id, e.debit_amount,
		       e.credit_amount, e.description, e.entity_id, e.entity_type,
		       t.transaction_number, t.posting_date, t.reference, t.description
		FROM transaction_entries e
		JOIN transactions t ON t.company_id = e.company_id AND t.transaction_id = e.transaction_id
		WHERE t.status <> 'void' AND e.company_id = ` + qb.arg(filter.CompanyID)
	if filter.AccountID != "" {
		query += " AND e.account_id = " + qb.arg(filter.AccountID)
	}
	if filter.FromDate != nil {
		query += " AND t.posting_date >= " + qb.arg(*filter.FromDate)
	}
	if filter.ToDate != nil {
		query += " AND t.posting_date <= " + qb.arg(*filter.ToDate)
	}
	if after != nil {
		pd, tn, ln := qb.arg(after.PostingDate), qb.arg(after.TransactionNumber), qb.arg(after.LineNumber)
		query += fmt.Sprintf(` AND (t.posting_date < %[1]s
			OR (t.posting_date = %[1]s AND (t.transaction_number < %[2]s
				OR (t.transaction_number = %[2]s AND e.line_number > %[3]s))))`, pd, tn, ln)
	}
	query += " ORDER BY t.posting_date DESC, t.transaction_number DESC, e.line_number ASC"
	if limit > 0 {
		query += " LIMIT " + qb.arg(limit)
	}

	rows, err := r.db.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query general ledger", err)
	}
	defer rows.Close()

	var lines []domain.LedgerLine
	for rows.Next() {
		var me models.TransactionEntry
		var line domain.LedgerLine
		var reference *string
		if err := rows.Scan(
			&me.EntryID,
			&me.TransactionID,
			&me.CompanyID,
			&me.LineNumber,
			&me.AccountID,
			&me.DebitAmount,
			&me.CreditAmount,
			&me.Description,
			&me.EntityID,
			&me.EntityType,
			&line.TransactionNumber,
			&line.PostingDate,
			&reference,
			&line.TransactionDescription,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan general ledger row", err)
		}
		line.Entry = mapping.ToDomainEntry(me)
		if reference != nil {
			line.Reference = *reference
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating general ledger rows", err)
	}
	return lines, nil
}

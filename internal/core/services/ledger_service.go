package services

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultLedgerPageSize = 100

// errStopScan ends a snapshot early when the consumer stops ranging.
var errStopScan = errors.New("ledger scan stopped")

// ledgerService answers general ledger queries. It never writes.
type ledgerService struct {
	BaseService
	store    portsrepo.LedgerStore
	pageSize int
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerPageSize sets how many lines are fetched from the store at a time.
func WithLedgerPageSize(n int) LedgerServiceOption {
	return func(s *ledgerService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewLedgerService creates a new general ledger service.
func NewLedgerService(store portsrepo.LedgerStore, options ...LedgerServiceOption) portssvc.LedgerSvc {
	svc := &ledgerService{store: store, pageSize: defaultLedgerPageSize}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) QueryGeneralLedger(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.LedgerLine, error] {
	return s.scan(ctx, filter, nil, nil)
}

func (s *ledgerService) normalize(filter domain.LedgerFilter) (domain.LedgerFilter, error) {
	var verrs apperrors.ValidationErrors
	if filter.CompanyID == "" {
		verrs = append(verrs, apperrors.ValidationError{Index: -1, Field: "companyID", Message: "is required"})
	}
	if filter.FromDate != nil {
		from := startOfDay(*filter.FromDate)
		filter.FromDate = &from
	}
	if filter.ToDate != nil {
		to := startOfDay(*filter.ToDate)
		filter.ToDate = &to
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		verrs = append(verrs, apperrors.ValidationError{Index: -1, Field: "from", Message: "must not be after to"})
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.pageSize
	}
	if len(verrs) > 0 {
		return filter, verrs
	}
	return filter, nil
}

// scan yields the lines after the cursor, fetching one store page at a time.
// The range total and every page are read from one store snapshot, so a
// commit made during iteration cannot shift the running balances.
// When the filter names an account, seed is the running balance of the first
// yielded line. A nil seed starts from the total of the whole range, which is
// the running balance of the newest line.
func (s *ledgerService) scan(ctx context.Context, filter domain.LedgerFilter, after *domain.LedgerCursor, seed *decimal.Decimal) iter.Seq2[domain.LedgerLine, error] {
	return func(yield func(domain.LedgerLine, error) bool) {
		filter, err := s.normalize(filter)
		if err != nil {
			yield(domain.LedgerLine{}, err)
			return
		}

		err = s.store.ReadSnapshot(ctx, func(tx portsrepo.Store) error {
			var account *domain.Account
			balance := decimal.Zero
			if filter.AccountID != "" {
				acc, err := tx.FindAccountByID(ctx, filter.CompanyID, filter.AccountID)
				if err != nil {
					return err
				}
				account = acc
				if seed != nil {
					balance = *seed
				} else {
					totals, err := tx.SumEntries(ctx, filter.CompanyID, filter.AccountID, filter.FromDate, filter.ToDate)
					if err != nil {
						s.LogError(ctx, err, "Failed to sum ledger range", slog.String("account_id", filter.AccountID))
						return err
					}
					balance = account.SignedAmount(totals.Debit, totals.Credit)
				}
			}

			cursor := after
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				lines, err := tx.ListLedgerLines(ctx, filter, cursor, filter.PageSize)
				if err != nil {
					s.LogError(ctx, err, "Failed to fetch ledger lines", slog.String("company_id", filter.CompanyID))
					return err
				}
				for _, line := range lines {
					if account != nil {
						running := balance
						line.RunningBalance = &running
						balance = balance.Sub(account.SignedAmount(line.Entry.DebitAmount, line.Entry.CreditAmount))
					}
					if !yield(line, nil) {
						return errStopScan
					}
				}
				if len(lines) < filter.PageSize {
					return nil
				}
				next := lines[len(lines)-1].Cursor()
				cursor = &next
			}
		})
		if err != nil && !errors.Is(err, errStopScan) {
			yield(domain.LedgerLine{}, err)
		}
	}
}

func (s *ledgerService) ListGeneralLedger(ctx context.Context, filter domain.LedgerFilter, limit int, nextToken *string) (*dto.GeneralLedgerPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}

	var after *domain.LedgerCursor
	var seed *decimal.Decimal
	if nextToken != nil && *nextToken != "" {
		pos, err := pagination.DecodeLedgerToken(*nextToken)
		if err != nil || (filter.AccountID != "" && pos.RunningBalance == nil) {
			return nil, apperrors.ValidationErrors{{Index: -1, Field: "nextToken", Message: "invalid pagination token"}}
		}
		after = &domain.LedgerCursor{
			PostingDate:       pos.PostingDate,
			TransactionNumber: pos.TransactionNumber,
			LineNumber:        pos.LineNumber,
		}
		seed = pos.RunningBalance
	}
	if filter.PageSize <= 0 || filter.PageSize > limit+1 {
		filter.PageSize = limit + 1
	}

	page := &dto.GeneralLedgerPage{Lines: make([]domain.LedgerLine, 0, limit)}
	for line, err := range s.scan(ctx, filter, after, seed) {
		if err != nil {
			return nil, err
		}
		if len(page.Lines) == limit {
			last := page.Lines[limit-1]
			token := pagination.EncodeLedgerToken(pagination.LedgerPosition{
				PostingDate:       last.PostingDate,
				TransactionNumber: last.TransactionNumber,
				LineNumber:        last.Entry.LineNumber,
				RunningBalance:    line.RunningBalance,
			})
			page.NextToken = &token
			break
		}
		page.Lines = append(page.Lines, line)
	}
	return page, nil
}

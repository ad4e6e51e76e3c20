package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTransactionPageSize = 20

// poster validates candidate entries and writes them as one transaction.
// It always runs inside a unit of work opened by its caller.
type poster struct{}

// validate applies the posting rules in order and collects every failure.
// Fewer than two entries stops validation immediately.
func (p poster) validate(ctx context.Context, tx portsrepo.Store, req dto.CreateTransactionRequest) error {
	if len(req.Entries) < accounting.MinEntries {
		return apperrors.ValidationErrors{{Index: -1, Field: "entries", Message: "at least 2 entries are required"}}
	}

	var verrs apperrors.ValidationErrors
	for i, e := range req.Entries {
		verrs = append(verrs, accounting.CheckEntrySides(i, e.DebitAmount, e.CreditAmount)...)
	}

	ids := make([]string, 0, len(req.Entries))
	for _, e := range req.Entries {
		if e.AccountID != "" {
			ids = append(ids, e.AccountID)
		}
	}
	accounts, err := tx.FindAccountsByIDs(ctx, req.CompanyID, ids)
	if err != nil {
		return err
	}
	for i, e := range req.Entries {
		if e.AccountID == "" {
			verrs = append(verrs, apperrors.ValidationError{Index: i, Field: "accountID", Message: "is required"})
			continue
		}
		account, ok := accounts[e.AccountID]
		switch {
		case !ok:
			verrs = append(verrs, apperrors.ValidationError{Index: i, Field: "accountID", Message: "account " + e.AccountID + " not found"})
		case !account.IsActive:
			verrs = append(verrs, apperrors.ValidationError{Index: i, Field: "accountID", Message: "account " + account.Code + " is inactive"})
		}
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range req.Entries {
		debit = debit.Add(e.DebitAmount)
		credit = credit.Add(e.CreditAmount)
	}
	if verr := accounting.CheckBalance(debit, credit); verr != nil {
		verrs = append(verrs, *verr)
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

// post validates req and writes the header and all entries through tx.
func (p poster) post(ctx context.Context, tx portsrepo.Store, req dto.CreateTransactionRequest) (*domain.PostedTransaction, error) {
	if err := p.validate(ctx, tx, req); err != nil {
		return nil, err
	}

	number, err := tx.NextTransactionNumber(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	now := utcNow()
	txnDate := startOfDay(req.TransactionDate)
	postingDate := txnDate
	if req.PostingDate != nil {
		postingDate = startOfDay(*req.PostingDate)
	}
	txnType := req.Type
	if txnType == "" {
		txnType = domain.TypeJournal
	}

	posted := domain.PostedTransaction{
		Transaction: domain.Transaction{
			TransactionID:     uuid.NewString(),
			CompanyID:         req.CompanyID,
			TransactionNumber: number,
			TransactionDate:   txnDate,
			PostingDate:       postingDate,
			Type:              txnType,
			Status:            domain.StatusPosted,
			Description:       req.Description,
			Reference:         req.Reference,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     req.CreatedBy,
				LastUpdatedAt: now,
				LastUpdatedBy: req.CreatedBy,
			},
		},
		Entries: make([]domain.TransactionEntry, len(req.Entries)),
	}
	for i, e := range req.Entries {
		posted.Entries[i] = domain.TransactionEntry{
			EntryID:       uuid.NewString(),
			TransactionID: posted.Transaction.TransactionID,
			CompanyID:     req.CompanyID,
			LineNumber:    i + 1,
			AccountID:     e.AccountID,
			DebitAmount:   e.DebitAmount,
			CreditAmount:  e.CreditAmount,
			Description:   e.Description,
			EntityID:      e.EntityID,
			EntityType:    e.EntityType,
		}
	}

	if err := tx.SaveTransaction(ctx, posted); err != nil {
		return nil, err
	}
	return &posted, nil
}

// transactionService posts, voids and reads transactions.
type transactionService struct {
	BaseService
	poster    poster
	store     portsrepo.LedgerStore
	publisher events.Publisher
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionPublisher sets where ledger events are published.
func WithTransactionPublisher(p events.Publisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.publisher = p
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store portsrepo.LedgerStore, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		store:     store,
		publisher: events.NoopPublisher{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.PostedTransaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var posted *domain.PostedTransaction
	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		var err error
		posted, err = s.poster.post(ctx, tx, req)
		return err
	})
	if err != nil {
		if isExpected(err) {
			s.LogDebug(ctx, "Transaction rejected",
				slog.String("company_id", req.CompanyID),
				slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to post transaction", slog.String("company_id", req.CompanyID))
		}
		return nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Transaction posted successfully",
		slog.String("transaction_id", posted.Transaction.TransactionID),
		slog.Int64("transaction_number", posted.Transaction.TransactionNumber),
		slog.String("company_id", req.CompanyID))
	s.publishPosted(ctx, posted)
	return posted, nil
}

func (s *transactionService) publishPosted(ctx context.Context, posted *domain.PostedTransaction) {
	debit, _ := posted.Totals()
	s.publish(ctx, s.publisher, events.Event{
		EventType:         events.TransactionPosted,
		CompanyID:         posted.Transaction.CompanyID,
		TransactionID:     posted.Transaction.TransactionID,
		TransactionNumber: posted.Transaction.TransactionNumber,
		Status:            string(posted.Transaction.Status),
		Amount:            debit,
		UserID:            posted.Transaction.CreatedBy,
		Timestamp:         posted.Transaction.CreatedAt,
	})
}

func (s *transactionService) VoidTransaction(ctx context.Context, companyID, transactionID, userID string) (*domain.PostedTransaction, error) {
	var voided *domain.PostedTransaction
	err := s.store.WithinTx(ctx, func(tx portsrepo.Store) error {
		if err := tx.VoidTransaction(ctx, companyID, transactionID, userID, utcNow()); err != nil {
			return err
		}
		var err error
		voided, err = tx.FindTransactionByID(ctx, companyID, transactionID)
		return err
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to void transaction", slog.String("transaction_id", transactionID))
		}
		return nil, asIntegrity(err)
	}

	s.LogInfo(ctx, "Transaction voided",
		slog.String("transaction_id", transactionID),
		slog.String("company_id", companyID))

	debit, _ := voided.Totals()
	s.publish(ctx, s.publisher, events.Event{
		EventType:         events.TransactionVoided,
		CompanyID:         companyID,
		TransactionID:     transactionID,
		TransactionNumber: voided.Transaction.TransactionNumber,
		Status:            string(domain.StatusVoid),
		Amount:            debit,
		UserID:            userID,
		Timestamp:         utcNow(),
	})
	return voided, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, companyID, transactionID string) (*domain.PostedTransaction, error) {
	txn, err := s.store.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	var status *domain.TransactionStatus
	if params.Status != "" {
		st := domain.TransactionStatus(params.Status)
		status = &st
	}

	var after *portsrepo.TransactionCursor
	if params.NextToken != nil && *params.NextToken != "" {
		pos, err := pagination.DecodeTransactionToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.ValidationErrors{{Index: -1, Field: "nextToken", Message: "invalid pagination token"}}
		}
		after = &portsrepo.TransactionCursor{PostingDate: pos.PostingDate, TransactionNumber: pos.TransactionNumber}
	}

	txns, err := s.store.ListTransactions(ctx, companyID, status, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("company_id", companyID))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{Transactions: txns}
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeTransactionToken(pagination.TransactionPosition{
			PostingDate:       last.PostingDate,
			TransactionNumber: last.TransactionNumber,
		})
		resp.Transactions = txns[:limit]
		resp.NextToken = &token
	}
	if resp.Transactions == nil {
		resp.Transactions = []domain.Transaction{}
	}
	return resp, nil
}

package handlers_test

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ResolveAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ResolveSystemAccount(ctx context.Context, companyID, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID, accountID, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, companyID, transactionID string) (*domain.PostedTransaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedTransaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.PostedTransaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedTransaction), args.Error(1)
}
func (m *MockTransactionService) VoidTransaction(ctx context.Context, companyID, transactionID, userID string) (*domain.PostedTransaction, error) {
	args := m.Called(ctx, companyID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedTransaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetAccountBalance(ctx context.Context, companyID, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockBalanceService) GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) QueryGeneralLedger(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.LedgerLine, error] {
	args := m.Called(ctx, filter)
	return args.Get(0).(iter.Seq2[domain.LedgerLine, error])
}
func (m *MockLedgerService) ListGeneralLedger(ctx context.Context, filter domain.LedgerFilter, limit int, nextToken *string) (*dto.GeneralLedgerPage, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GeneralLedgerPage), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock SuggestionService ---
type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) GetSuggestion(ctx context.Context, companyID, suggestionID string) (*domain.AISuggestion, error) {
	args := m.Called(ctx, companyID, suggestionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AISuggestion), args.Error(1)
}
func (m *MockSuggestionService) ListSuggestions(ctx context.Context, companyID string, params dto.ListSuggestionsParams) ([]domain.AISuggestion, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AISuggestion), args.Error(1)
}
func (m *MockSuggestionService) CreateSuggestion(ctx context.Context, req dto.CreateSuggestionRequest) (*domain.AISuggestion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AISuggestion), args.Error(1)
}
func (m *MockSuggestionService) ApproveSuggestion(ctx context.Context, companyID, suggestionID, reviewerID, notes string, autoImplement bool) (*domain.AISuggestion, *domain.PostedTransaction, error) {
	args := m.Called(ctx, companyID, suggestionID, reviewerID, notes, autoImplement)
	s, _ := args.Get(0).(*domain.AISuggestion)
	t, _ := args.Get(1).(*domain.PostedTransaction)
	return s, t, args.Error(2)
}
func (m *MockSuggestionService) RejectSuggestion(ctx context.Context, companyID, suggestionID, reviewerID, notes string) (*domain.AISuggestion, error) {
	args := m.Called(ctx, companyID, suggestionID, reviewerID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AISuggestion), args.Error(1)
}
func (m *MockSuggestionService) ImplementSuggestion(ctx context.Context, companyID, suggestionID, userID string) (*domain.AISuggestion, *domain.PostedTransaction, error) {
	args := m.Called(ctx, companyID, suggestionID, userID)
	s, _ := args.Get(0).(*domain.AISuggestion)
	t, _ := args.Get(1).(*domain.PostedTransaction)
	return s, t, args.Error(2)
}
func (m *MockSuggestionService) CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*domain.AIAgent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AIAgent), args.Error(1)
}
func (m *MockSuggestionService) GetAgent(ctx context.Context, companyID, agentID string) (*domain.AIAgent, error) {
	args := m.Called(ctx, companyID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AIAgent), args.Error(1)
}
func (m *MockSuggestionService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyzeResponse), args.Error(1)
}

var _ portssvc.SuggestionSvcFacade = (*MockSuggestionService)(nil)

type stubBreakers map[string]string

func (s stubBreakers) BreakerStates() map[string]string { return s }

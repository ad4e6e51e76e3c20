package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/ledger_core/internal/ai"
	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SuggestionServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	store        *memory.Store
	chart        chart
	provider     *ai.MockProvider
	publisher    *recordingPublisher
	service      portssvc.SuggestionSvcFacade
	transactions portssvc.TransactionSvcFacade
	agent        *domain.AIAgent
}

func (suite *SuggestionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.chart = seedChart(suite.T(), suite.store, companyA)
	suite.provider = &ai.MockProvider{}
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewSuggestionService(suite.store,
		services.WithProviders(ai.NewStaticRegistry("mock", suite.provider)),
		services.WithSuggestionPublisher(suite.publisher))
	suite.transactions = services.NewTransactionService(suite.store)
	suite.agent = suite.createAgent("0.90", false)
}

func (suite *SuggestionServiceTestSuite) createAgent(threshold string, autoApprove bool) *domain.AIAgent {
	agent, err := suite.service.CreateAgent(suite.ctx, dto.CreateAgentRequest{
		CompanyID:           companyA,
		Name:                "bookkeeper",
		Provider:            "mock",
		ConfidenceThreshold: d(threshold),
		AutoApprove:         autoApprove,
		CreatedBy:           userID,
	})
	suite.Require().NoError(err)
	return agent
}

func (suite *SuggestionServiceTestSuite) entries(debitAmount, creditAmount string) []domain.SuggestedEntry {
	return []domain.SuggestedEntry{
		{AccountID: suite.chart.id("5000"), DebitAmount: d(debitAmount), CreditAmount: decimal.Zero, Description: "rent"},
		{AccountCode: "1000", DebitAmount: decimal.Zero, CreditAmount: d(creditAmount), Description: "paid from cash"},
	}
}

func (suite *SuggestionServiceTestSuite) createSuggestion(entries []domain.SuggestedEntry) *domain.AISuggestion {
	s, err := suite.service.CreateSuggestion(suite.ctx, dto.CreateSuggestionRequest{
		CompanyID:        companyA,
		AgentID:          suite.agent.AgentID,
		TransactionDate:  day(2024, 4, 1),
		Description:      "April rent",
		SuggestedEntries: entries,
		ConfidenceScore:  d("0.80"),
		CreatedBy:        userID,
	})
	suite.Require().NoError(err)
	return s
}

func (suite *SuggestionServiceTestSuite) postedCount() int {
	page, err := suite.transactions.ListTransactions(suite.ctx, companyA, dto.ListTransactionsParams{Limit: 200})
	suite.Require().NoError(err)
	return len(page.Transactions)
}

func (suite *SuggestionServiceTestSuite) TestCreateSuggestion() {
	s := suite.createSuggestion(suite.entries("1200", "1200"))
	suite.Equal(domain.SuggestionPending, s.Status)

	agent, err := suite.service.GetAgent(suite.ctx, companyA, suite.agent.AgentID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), agent.TotalSuggestions)

	got, err := suite.service.GetSuggestion(suite.ctx, companyA, s.SuggestionID)
	suite.Require().NoError(err)
	suite.Equal(s.SuggestedEntries, got.SuggestedEntries)

	_, err = suite.service.GetSuggestion(suite.ctx, companyB, s.SuggestionID)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *SuggestionServiceTestSuite) TestCreateSuggestion_Validation() {
	_, err := suite.service.CreateSuggestion(suite.ctx, dto.CreateSuggestionRequest{
		CompanyID:        companyA,
		AgentID:          suite.agent.AgentID,
		TransactionDate:  day(2024, 4, 1),
		SuggestedEntries: suite.entries("1", "1"),
		ConfidenceScore:  d("1.5"),
	})
	suite.True(errors.Is(err, apperrors.ErrValidation))

	_, err = suite.service.CreateSuggestion(suite.ctx, dto.CreateSuggestionRequest{
		CompanyID:        companyA,
		AgentID:          "missing",
		TransactionDate:  day(2024, 4, 1),
		SuggestedEntries: suite.entries("1", "1"),
		ConfidenceScore:  d("0.5"),
	})
	suite.True(errors.Is(err, apperrors.ErrNotFound))

	inactive := domain.AIAgent{AgentID: "retired", CompanyID: companyA, Name: "retired", Provider: "mock"}
	suite.Require().NoError(suite.store.WithinTx(suite.ctx, func(tx portsrepo.Store) error {
		return tx.SaveAgent(suite.ctx, inactive)
	}))
	_, err = suite.service.CreateSuggestion(suite.ctx, dto.CreateSuggestionRequest{
		CompanyID:        companyA,
		AgentID:          "retired",
		TransactionDate:  day(2024, 4, 1),
		SuggestedEntries: suite.entries("1", "1"),
		ConfidenceScore:  d("0.5"),
	})
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *SuggestionServiceTestSuite) TestApproveThenImplement() {
	s := suite.createSuggestion(suite.entries("1200", "1200"))

	approved, posted, err := suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "looks right", false)
	suite.Require().NoError(err)
	suite.Nil(posted)
	suite.Equal(domain.SuggestionApproved, approved.Status)
	suite.Equal("reviewer-1", approved.ReviewedBy)
	suite.Equal("looks right", approved.ReviewNotes)
	suite.NotNil(approved.ReviewedAt)

	implemented, posted, err := suite.service.ImplementSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1")
	suite.Require().NoError(err)
	suite.Equal(domain.SuggestionImplemented, implemented.Status)
	suite.Equal(posted.Transaction.TransactionID, implemented.ImplementedTransactionID)
	suite.NotNil(implemented.ImplementedAt)

	suite.Equal(domain.TypeAISuggestion, posted.Transaction.Type)
	suite.Equal("AI-"+s.SuggestionID, posted.Transaction.Reference)
	suite.Require().Len(posted.Entries, 2)
	suite.Equal(suite.chart.id("5000"), posted.Entries[0].AccountID)
	suite.Equal(suite.chart.id("1000"), posted.Entries[1].AccountID, "account code resolved to the company's account")

	agent, err := suite.service.GetAgent(suite.ctx, companyA, suite.agent.AgentID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), agent.ApprovedCount)
	suite.Equal(int64(1), agent.ImplementedCount)
	suite.Equal(1.0, agent.AccuracyRate())

	suite.Equal([]string{events.SuggestionImplemented}, suite.publisher.types())
}

func (suite *SuggestionServiceTestSuite) TestImplementTwiceIsConflict() {
	s := suite.createSuggestion(suite.entries("100", "100"))
	_, first, err := suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "", true)
	suite.Require().NoError(err)
	suite.Require().NotNil(first)

	_, _, err = suite.service.ImplementSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1")
	suite.True(errors.Is(err, apperrors.ErrStateConflict))
	var sc *apperrors.StateConflictError
	suite.Require().ErrorAs(err, &sc)
	suite.Equal(string(domain.SuggestionImplemented), sc.CurrentStatus)

	got, err := suite.service.GetSuggestion(suite.ctx, companyA, s.SuggestionID)
	suite.Require().NoError(err)
	suite.Equal(first.Transaction.TransactionID, got.ImplementedTransactionID)
	suite.Equal(1, suite.postedCount())
}

func (suite *SuggestionServiceTestSuite) TestImplementPendingIsConflict() {
	s := suite.createSuggestion(suite.entries("100", "100"))
	_, _, err := suite.service.ImplementSuggestion(suite.ctx, companyA, s.SuggestionID, userID)
	var sc *apperrors.StateConflictError
	suite.Require().ErrorAs(err, &sc)
	suite.Equal(string(domain.SuggestionPending), sc.CurrentStatus)
}

func (suite *SuggestionServiceTestSuite) TestFailedImplementLeavesSuggestionApproved() {
	s := suite.createSuggestion(suite.entries("100", "90"))
	_, _, err := suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "", false)
	suite.Require().NoError(err)

	_, _, err = suite.service.ImplementSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	got, err := suite.service.GetSuggestion(suite.ctx, companyA, s.SuggestionID)
	suite.Require().NoError(err)
	suite.Equal(domain.SuggestionApproved, got.Status)
	suite.Empty(got.ImplementedTransactionID)
	suite.Len(got.SuggestedEntries, 2)
	suite.Equal(0, suite.postedCount())

	agent, err := suite.service.GetAgent(suite.ctx, companyA, suite.agent.AgentID)
	suite.Require().NoError(err)
	suite.Zero(agent.ImplementedCount)
}

func (suite *SuggestionServiceTestSuite) TestImplementUnknownAccountCode() {
	entries := suite.entries("100", "100")
	entries[1].AccountCode = "9999"
	s := suite.createSuggestion(entries)
	_, _, err := suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "", false)
	suite.Require().NoError(err)

	_, _, err = suite.service.ImplementSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1")
	var verrs apperrors.ValidationErrors
	suite.Require().ErrorAs(err, &verrs)
	suite.Equal(1, verrs[0].Index)
	suite.Equal("accountCode", verrs[0].Field)
}

func (suite *SuggestionServiceTestSuite) TestConcurrentImplementPostsOnce() {
	s := suite.createSuggestion(suite.entries("100", "100"))
	_, _, err := suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "", false)
	suite.Require().NoError(err)
	const workers = 8

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := suite.service.ImplementSuggestion(suite.ctx, companyA, s.SuggestionID, userID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		if err == nil {
			ok++
		} else if errors.Is(err, apperrors.ErrStateConflict) {
			conflicts++
		}
	}
	suite.Equal(1, ok)
	suite.Equal(workers-1, conflicts)
	suite.Equal(1, suite.postedCount())
}

func (suite *SuggestionServiceTestSuite) TestRacingReviewersHaveOneWinner() {
	s := suite.createSuggestion(suite.entries("100", "100"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, errs[0] = suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "alice", "", false)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = suite.service.RejectSuggestion(suite.ctx, companyA, s.SuggestionID, "bob", "")
	}()
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			suite.True(errors.Is(err, apperrors.ErrStateConflict))
		}
	}
	suite.Equal(1, winners)

	agent, err := suite.service.GetAgent(suite.ctx, companyA, suite.agent.AgentID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), agent.ApprovedCount+agent.RejectedCount)
}

func (suite *SuggestionServiceTestSuite) TestRejectTwiceIsConflict() {
	s := suite.createSuggestion(suite.entries("100", "100"))

	rejected, err := suite.service.RejectSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "wrong account")
	suite.Require().NoError(err)
	suite.Equal(domain.SuggestionRejected, rejected.Status)

	_, err = suite.service.RejectSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "again")
	suite.True(errors.Is(err, apperrors.ErrStateConflict))
	var sc *apperrors.StateConflictError
	suite.Require().ErrorAs(err, &sc)
	suite.Equal("rejected", sc.CurrentStatus)
	suite.Equal("reject", sc.Action)

	_, _, err = suite.service.ApproveSuggestion(suite.ctx, companyA, s.SuggestionID, "reviewer-1", "", false)
	suite.Require().ErrorAs(err, &sc)
	suite.Equal("approve", sc.Action)

	agent, err := suite.service.GetAgent(suite.ctx, companyA, suite.agent.AgentID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), agent.RejectedCount)
	suite.Zero(agent.AccuracyRate())
}

func (suite *SuggestionServiceTestSuite) TestAnalyze_AutoApprovesAndImplements() {
	agent := suite.createAgent("0.90", true)
	suite.provider.Proposal = &ai.Proposal{
		SuggestedEntries: suite.entries("1200", "1200"),
		ConfidenceScore:  d("0.95"),
		Reasoning:        "monthly rent",
		ModelUsed:        "mock-1",
	}

	resp, err := suite.service.Analyze(suite.ctx, dto.AnalyzeRequest{
		CompanyID:    companyA,
		AgentID:      agent.AgentID,
		DocumentText: "Rent invoice April 1200.00",
		Description:  "April rent",
		RequestedBy:  userID,
	})
	suite.Require().NoError(err)
	suite.True(resp.AutoApproved)
	suite.Empty(resp.ImplementError)
	suite.Equal(domain.SuggestionImplemented, resp.Suggestion.Status)
	suite.Equal(services.AutoApproveReviewer, resp.Suggestion.ReviewedBy)
	suite.Equal("mock-1", resp.Suggestion.ModelUsed)
	suite.Require().NotNil(resp.Transaction)
	suite.Equal(1.0, resp.AgentAccuracy)

	suite.Equal(1, suite.postedCount())
	suite.Require().Len(resp.Transaction.Entries, 2)
	for i, e := range resp.Transaction.Entries {
		suite.True(suite.provider.Proposal.SuggestedEntries[i].DebitAmount.Equal(e.DebitAmount))
		suite.True(suite.provider.Proposal.SuggestedEntries[i].CreditAmount.Equal(e.CreditAmount))
	}
}

func (suite *SuggestionServiceTestSuite) TestAnalyze_BelowThresholdStaysPending() {
	agent := suite.createAgent("0.90", true)
	suite.provider.Proposal = &ai.Proposal{SuggestedEntries: suite.entries("10", "10"), ConfidenceScore: d("0.89")}

	resp, err := suite.service.Analyze(suite.ctx, dto.AnalyzeRequest{CompanyID: companyA, AgentID: agent.AgentID, DocumentText: "coffee 10"})
	suite.Require().NoError(err)
	suite.False(resp.AutoApproved)
	suite.Nil(resp.Transaction)
	suite.Equal(domain.SuggestionPending, resp.Suggestion.Status)
	suite.Equal(0, suite.postedCount())
}

func (suite *SuggestionServiceTestSuite) TestAnalyze_AutoApprovedButUnpostable() {
	agent := suite.createAgent("0.50", true)
	suite.provider.Proposal = &ai.Proposal{SuggestedEntries: suite.entries("10", "9"), ConfidenceScore: d("0.99")}

	resp, err := suite.service.Analyze(suite.ctx, dto.AnalyzeRequest{CompanyID: companyA, AgentID: agent.AgentID, DocumentText: "coffee"})
	suite.Require().NoError(err)
	suite.True(resp.AutoApproved)
	suite.Nil(resp.Transaction)
	suite.NotEmpty(resp.ImplementError)
	suite.Equal(domain.SuggestionApproved, resp.Suggestion.Status)
}

func (suite *SuggestionServiceTestSuite) TestAnalyze_ProviderFailureWritesNothing() {
	suite.provider.Err = errors.New("connection refused")

	_, err := suite.service.Analyze(suite.ctx, dto.AnalyzeRequest{CompanyID: companyA, AgentID: suite.agent.AgentID, DocumentText: "anything"})
	suite.True(errors.Is(err, apperrors.ErrProviderUnavailable))
	suite.Equal(int64(1), suite.provider.Calls())

	list, err := suite.service.ListSuggestions(suite.ctx, companyA, dto.ListSuggestionsParams{})
	suite.Require().NoError(err)
	suite.Empty(list)
	agent, err := suite.service.GetAgent(suite.ctx, companyA, suite.agent.AgentID)
	suite.Require().NoError(err)
	suite.Zero(agent.TotalSuggestions)
}

func (suite *SuggestionServiceTestSuite) TestAnalyze_DefaultMockProposal() {
	resp, err := suite.service.Analyze(suite.ctx, dto.AnalyzeRequest{CompanyID: companyA, AgentID: suite.agent.AgentID, DocumentText: "Paid 42.50 for supplies"})
	suite.Require().NoError(err)
	suite.Equal(domain.SuggestionPending, resp.Suggestion.Status)
	suite.Require().Len(resp.Suggestion.SuggestedEntries, 2)
	suite.Equal("1000", resp.Suggestion.SuggestedEntries[0].AccountCode)
	suite.Equal("2000", resp.Suggestion.SuggestedEntries[1].AccountCode)
	suite.Equal("42.50", resp.Suggestion.SuggestedEntries[0].DebitAmount.StringFixed(2))
}

func (suite *SuggestionServiceTestSuite) TestListSuggestions_StatusFilter() {
	a := suite.createSuggestion(suite.entries("1", "1"))
	suite.createSuggestion(suite.entries("2", "2"))
	_, err := suite.service.RejectSuggestion(suite.ctx, companyA, a.SuggestionID, "r", "")
	suite.Require().NoError(err)

	pending, err := suite.service.ListSuggestions(suite.ctx, companyA, dto.ListSuggestionsParams{Status: "pending"})
	suite.Require().NoError(err)
	suite.Len(pending, 1)

	all, err := suite.service.ListSuggestions(suite.ctx, companyA, dto.ListSuggestionsParams{})
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func TestSuggestionService(t *testing.T) {
	suite.Run(t, new(SuggestionServiceTestSuite))
}

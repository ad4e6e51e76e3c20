package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	chart   chart
	posted  map[string]*domain.PostedTransaction
	service portssvc.LedgerSvc
}

// SetupTest posts, for the cash account:
//
//	#1 2024-01-05 +100, #2 2024-01-05 +50, #3 2024-01-10 -30, #4 2024-01-02 +20
//
// and a voided #5 on 2024-01-08.
func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.chart = seedChart(suite.T(), suite.store, companyA)
	suite.service = services.NewLedgerService(suite.store)
	suite.posted = map[string]*domain.PostedTransaction{}

	txns := services.NewTransactionService(suite.store)
	cash, equity, sales, rent := suite.chart.id("1000"), suite.chart.id("3000"), suite.chart.id("4000"), suite.chart.id("5000")
	post := func(name string, date time.Time, entries ...dto.EntryRequest) {
		p, err := txns.CreateTransaction(suite.ctx, txnRequest(date, name, entries...))
		suite.Require().NoError(err)
		suite.posted[name] = p
	}
	post("t1", day(2024, 1, 5), debit(cash, "100"), credit(sales, "100"))
	post("t2", day(2024, 1, 5), debit(cash, "50"), credit(sales, "50"))
	post("t3", day(2024, 1, 10), debit(rent, "30"), credit(cash, "30"))
	post("t4", day(2024, 1, 2), debit(cash, "20"), credit(equity, "20"))
	post("t5", day(2024, 1, 8), debit(cash, "1000"), credit(sales, "1000"))
	_, err := txns.VoidTransaction(suite.ctx, companyA, suite.posted["t5"].Transaction.TransactionID, userID)
	suite.Require().NoError(err)
}

func (suite *LedgerServiceTestSuite) collect(filter domain.LedgerFilter) []domain.LedgerLine {
	var lines []domain.LedgerLine
	for line, err := range suite.service.QueryGeneralLedger(suite.ctx, filter) {
		suite.Require().NoError(err)
		lines = append(lines, line)
	}
	return lines
}

func balances(lines []domain.LedgerLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l.RunningBalance == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = l.RunningBalance.StringFixed(2)
	}
	return out
}

func numbers(lines []domain.LedgerLine) []int64 {
	out := make([]int64, len(lines))
	for i, l := range lines {
		out[i] = l.TransactionNumber
	}
	return out
}

func (suite *LedgerServiceTestSuite) TestQueryGeneralLedger_AccountRunningBalance() {
	lines := suite.collect(domain.LedgerFilter{CompanyID: companyA, AccountID: suite.chart.id("1000")})

	suite.Equal([]int64{3, 2, 1, 4}, numbers(lines))
	suite.Equal([]string{"140.00", "170.00", "120.00", "20.00"}, balances(lines))
	suite.Equal("t3", lines[0].TransactionDescription)
	suite.Equal(day(2024, 1, 10), lines[0].PostingDate)
}

func (suite *LedgerServiceTestSuite) TestQueryGeneralLedger_DateRangeStartsAtZero() {
	from, to := day(2024, 1, 5), day(2024, 1, 9)
	lines := suite.collect(domain.LedgerFilter{CompanyID: companyA, AccountID: suite.chart.id("1000"), FromDate: &from, ToDate: &to})

	suite.Equal([]int64{2, 1}, numbers(lines))
	suite.Equal([]string{"150.00", "100.00"}, balances(lines))
}

func (suite *LedgerServiceTestSuite) TestQueryGeneralLedger_AllAccountsOrder() {
	lines := suite.collect(domain.LedgerFilter{CompanyID: companyA})

	suite.Require().Len(lines, 8, "void transaction #5 is excluded")
	suite.Equal([]int64{3, 3, 2, 2, 1, 1, 4, 4}, numbers(lines))
	for i := 0; i < len(lines); i += 2 {
		suite.Equal(1, lines[i].Entry.LineNumber)
		suite.Equal(2, lines[i+1].Entry.LineNumber)
	}
	for _, l := range lines {
		suite.Nil(l.RunningBalance)
	}
}

func (suite *LedgerServiceTestSuite) TestQueryGeneralLedger_SmallStorePagesAndRestart() {
	filter := domain.LedgerFilter{CompanyID: companyA, AccountID: suite.chart.id("1000"), PageSize: 1}

	first := suite.collect(filter)
	second := suite.collect(filter)
	suite.Equal(balances(first), balances(second))
	suite.Equal([]string{"140.00", "170.00", "120.00", "20.00"}, balances(first))

	var taken int
	for _, err := range suite.service.QueryGeneralLedger(suite.ctx, filter) {
		suite.Require().NoError(err)
		taken++
		if taken == 2 {
			break
		}
	}
	suite.Equal(2, taken)
}

func (suite *LedgerServiceTestSuite) TestQueryGeneralLedger_VoidDuringIterationKeepsSnapshot() {
	filter := domain.LedgerFilter{CompanyID: companyA, AccountID: suite.chart.id("1000"), PageSize: 1}
	txns := services.NewTransactionService(suite.store)

	var lines []domain.LedgerLine
	for line, err := range suite.service.QueryGeneralLedger(suite.ctx, filter) {
		suite.Require().NoError(err)
		lines = append(lines, line)
		if len(lines) == 1 {
			_, err := txns.VoidTransaction(suite.ctx, companyA, suite.posted["t1"].Transaction.TransactionID, userID)
			suite.Require().NoError(err)
		}
	}
	suite.Equal([]int64{3, 2, 1, 4}, numbers(lines))
	suite.Equal([]string{"140.00", "170.00", "120.00", "20.00"}, balances(lines))

	after := suite.collect(filter)
	suite.Equal([]int64{3, 2, 4}, numbers(after))
	suite.Equal([]string{"40.00", "70.00", "20.00"}, balances(after))
}

func (suite *LedgerServiceTestSuite) TestQueryGeneralLedger_Errors() {
	for _, err := range suite.service.QueryGeneralLedger(suite.ctx, domain.LedgerFilter{CompanyID: companyA, AccountID: "missing"}) {
		suite.True(errors.Is(err, apperrors.ErrNotFound))
	}
	for _, err := range suite.service.QueryGeneralLedger(suite.ctx, domain.LedgerFilter{}) {
		suite.True(errors.Is(err, apperrors.ErrValidation))
	}
	from, to := day(2024, 2, 1), day(2024, 1, 1)
	for _, err := range suite.service.QueryGeneralLedger(suite.ctx, domain.LedgerFilter{CompanyID: companyA, FromDate: &from, ToDate: &to}) {
		suite.True(errors.Is(err, apperrors.ErrValidation))
	}
}

func (suite *LedgerServiceTestSuite) TestListGeneralLedger_PagesMatchFullQuery() {
	filter := domain.LedgerFilter{CompanyID: companyA, AccountID: suite.chart.id("1000")}
	full := suite.collect(filter)

	var paged []domain.LedgerLine
	var token *string
	for {
		page, err := suite.service.ListGeneralLedger(suite.ctx, filter, 1, token)
		suite.Require().NoError(err)
		paged = append(paged, page.Lines...)
		if page.NextToken == nil {
			break
		}
		token = page.NextToken
	}

	suite.Equal(numbers(full), numbers(paged))
	suite.Equal(balances(full), balances(paged))
}

func (suite *LedgerServiceTestSuite) TestListGeneralLedger_InvalidToken() {
	bad := "not-a-token"
	_, err := suite.service.ListGeneralLedger(suite.ctx, domain.LedgerFilter{CompanyID: companyA}, 2, &bad)
	suite.True(errors.Is(err, apperrors.ErrValidation))

	// a token from an unfiltered ledger carries no running balance
	page, err := suite.service.ListGeneralLedger(suite.ctx, domain.LedgerFilter{CompanyID: companyA}, 2, nil)
	suite.Require().NoError(err)
	suite.Require().NotNil(page.NextToken)
	_, err = suite.service.ListGeneralLedger(suite.ctx, domain.LedgerFilter{CompanyID: companyA, AccountID: suite.chart.id("1000")}, 2, page.NextToken)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

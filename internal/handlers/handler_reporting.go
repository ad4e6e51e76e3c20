package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for balances and the trial balance.
type reportingHandler struct {
	balanceService portssvc.BalanceSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(bs portssvc.BalanceSvc) *reportingHandler {
	return &reportingHandler{
		balanceService: bs,
	}
}

// registerReportingRoutes registers balance and report routes under a company group.
func registerReportingRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := newReportingHandler(balanceService)

	rg.GET("/accounts/:account_id/balance", h.getAccountBalance)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Balance of one account under its normal-balance convention. Void and future-dated entries are excluded.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param account_id path string true "Account ID"
// @Param asOf query string false "Balance date (YYYY-MM-DD); unbounded when omitted"
// @Success 200 {object} domain.AccountBalance
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to calculate balance"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id}/balance [get]
func (h *reportingHandler) getAccountBalance(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	asOf, err := parseDateParam(params.AsOf)
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	balance, err := h.balanceService.GetAccountBalance(c.Request.Context(), companyID, c.Param("account_id"), asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description One row per active account with its balance placed in the debit or credit column
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	asOf, err := parseDateParam(params.AsOf)
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}
	if asOf == nil {
		today := time.Now().UTC()
		asOf = &today
	}

	report, err := h.balanceService.GetTrialBalance(c.Request.Context(), companyID, *asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance report")
		return
	}
	c.JSON(http.StatusOK, report)
}

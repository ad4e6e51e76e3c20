package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
}

func newLedgerHandler(ls portssvc.LedgerSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/ledger", h.listGeneralLedger)
}

// listGeneralLedger godoc
// @Summary Query the general ledger
// @Description Ledger lines newest first. Filtering by account adds a running balance to every line.
// @Tags ledger
// @Produce json
// @Param company_id path string true "Company ID"
// @Param accountId query string false "Account ID"
// @Param from query string false "First posting date (YYYY-MM-DD)"
// @Param to query string false "Last posting date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.GeneralLedgerPage
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to query ledger"
// @Security BearerAuth
// @Router /companies/{company_id}/ledger [get]
func (h *ledgerHandler) listGeneralLedger(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.LedgerQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	from, err := parseDateParam(params.From)
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}
	to, err := parseDateParam(params.To)
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	filter := domain.LedgerFilter{
		CompanyID: companyID,
		AccountID: params.AccountID,
		FromDate:  from,
		ToDate:    to,
	}
	page, err := h.ledgerService.ListGeneralLedger(c.Request.Context(), filter, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to query ledger")
		return
	}
	c.JSON(http.StatusOK, page)
}

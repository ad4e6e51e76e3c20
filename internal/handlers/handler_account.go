package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for a company's chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers account routes under a company group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.POST("/:account_id/deactivate", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account to the company's chart of accounts. The normal balance is derived from the type.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Account code already exists"
// @Failure 500 {object} ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.CompanyID = companyID
	req.CreatedBy = userID

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the company's chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   activeOnly query bool false "Only active accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), companyID, params.ActiveOnly)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.ResolveAccount(c.Request.Context(), companyID, c.Param("account_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive. Accounts with posted entries cannot be deactivated.
// @Tags accounts
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Account has posted entries"
// @Failure 500 {object} ErrorResponse "Failed to deactivate account"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id}/deactivate [post]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), companyID, c.Param("account_id"), userID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

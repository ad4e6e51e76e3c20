package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for posting and voiding transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers transaction routes under a company group.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.POST("/:transaction_id/void", h.voidTransaction)
	}
}

// createTransaction godoc
// @Summary Post a transaction
// @Description Validates and posts a balanced set of entries as one transaction. Every failing check is reported.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction and entries"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Validation errors"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to post transaction"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.CompanyID = companyID
	req.CreatedBy = userID

	posted, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to post transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction posted",
		slog.String("transaction_id", posted.Transaction.TransactionID),
		slog.Int64("transaction_number", posted.Transaction.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(posted))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transaction headers newest first, paginated by token
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "Filter by status (draft, posted, void)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Returns a transaction with its entries in line order, whatever its status
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}

	posted, err := h.transactionService.GetTransaction(c.Request.Context(), companyID, c.Param("transaction_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(posted))
}

// voidTransaction godoc
// @Summary Void a transaction
// @Description Moves a posted transaction to void. Entries are kept but excluded from balances and reports.
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Transaction is not posted"
// @Failure 500 {object} ErrorResponse "Failed to void transaction"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/void [post]
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	voided, err := h.transactionService.VoidTransaction(c.Request.Context(), companyID, c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to void transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(voided))
}

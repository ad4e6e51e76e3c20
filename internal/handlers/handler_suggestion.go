package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// suggestionHandler handles HTTP requests for AI suggestions and agents.
type suggestionHandler struct {
	suggestionService portssvc.SuggestionSvcFacade
}

func newSuggestionHandler(ss portssvc.SuggestionSvcFacade) *suggestionHandler {
	return &suggestionHandler{
		suggestionService: ss,
	}
}

// registerSuggestionRoutes registers suggestion and agent routes under a company group.
func registerSuggestionRoutes(rg *gin.RouterGroup, suggestionService portssvc.SuggestionSvcFacade) {
	h := newSuggestionHandler(suggestionService)

	suggestions := rg.Group("/suggestions")
	{
		suggestions.POST("", h.createSuggestion)
		suggestions.GET("", h.listSuggestions)
		suggestions.GET("/:suggestion_id", h.getSuggestion)
		suggestions.POST("/:suggestion_id/approve", h.approveSuggestion)
		suggestions.POST("/:suggestion_id/reject", h.rejectSuggestion)
		suggestions.POST("/:suggestion_id/implement", h.implementSuggestion)
	}

	agents := rg.Group("/agents")
	{
		agents.POST("", h.createAgent)
		agents.GET("/:agent_id", h.getAgent)
		agents.POST("/:agent_id/analyze", h.analyze)
	}
}

// SuggestionReviewResponse is the result of approving or implementing a suggestion.
type SuggestionReviewResponse struct {
	Suggestion  *domain.AISuggestion     `json:"suggestion"`
	Transaction *dto.TransactionResponse `json:"transaction,omitempty"`
}

// createSuggestion godoc
// @Summary Record an AI suggestion
// @Description Stores proposed entries as a pending suggestion for review
// @Tags suggestions
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param suggestion body dto.CreateSuggestionRequest true "Suggestion"
// @Success 201 {object} domain.AISuggestion
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Agent not found"
// @Failure 500 {object} ErrorResponse "Failed to create suggestion"
// @Security BearerAuth
// @Router /companies/{company_id}/suggestions [post]
func (h *suggestionHandler) createSuggestion(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.CompanyID = companyID
	req.CreatedBy = userID

	suggestion, err := h.suggestionService.CreateSuggestion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create suggestion")
		return
	}
	c.JSON(http.StatusCreated, suggestion)
}

// listSuggestions godoc
// @Summary List suggestions
// @Tags suggestions
// @Produce json
// @Param company_id path string true "Company ID"
// @Param status query string false "Filter by status (pending, approved, rejected, implemented)"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} domain.AISuggestion
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list suggestions"
// @Security BearerAuth
// @Router /companies/{company_id}/suggestions [get]
func (h *suggestionHandler) listSuggestions(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListSuggestionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	suggestions, err := h.suggestionService.ListSuggestions(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err, "Failed to list suggestions")
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// getSuggestion godoc
// @Summary Get a suggestion
// @Tags suggestions
// @Produce json
// @Param company_id path string true "Company ID"
// @Param suggestion_id path string true "Suggestion ID"
// @Success 200 {object} domain.AISuggestion
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Suggestion not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve suggestion"
// @Security BearerAuth
// @Router /companies/{company_id}/suggestions/{suggestion_id} [get]
func (h *suggestionHandler) getSuggestion(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}

	suggestion, err := h.suggestionService.GetSuggestion(c.Request.Context(), companyID, c.Param("suggestion_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve suggestion")
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// approveSuggestion godoc
// @Summary Approve a suggestion
// @Description Approves a pending suggestion. With autoImplement the entries are posted in the same request.
// @Tags suggestions
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param suggestion_id path string true "Suggestion ID"
// @Param review body dto.ReviewSuggestionRequest false "Review notes"
// @Success 200 {object} SuggestionReviewResponse
// @Failure 400 {object} ErrorResponse "Suggested entries cannot be posted"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Suggestion not found"
// @Failure 409 {object} ErrorResponse "Suggestion is not pending"
// @Failure 500 {object} ErrorResponse "Failed to approve suggestion"
// @Security BearerAuth
// @Router /companies/{company_id}/suggestions/{suggestion_id}/approve [post]
func (h *suggestionHandler) approveSuggestion(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReviewSuggestionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	suggestion, posted, err := h.suggestionService.ApproveSuggestion(c.Request.Context(), companyID, c.Param("suggestion_id"), userID, req.Notes, req.AutoImplement)
	if err != nil {
		respondError(c, err, "Failed to approve suggestion")
		return
	}

	resp := SuggestionReviewResponse{Suggestion: suggestion}
	if posted != nil {
		txn := dto.ToTransactionResponse(posted)
		resp.Transaction = &txn
	}
	c.JSON(http.StatusOK, resp)
}

// rejectSuggestion godoc
// @Summary Reject a suggestion
// @Tags suggestions
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param suggestion_id path string true "Suggestion ID"
// @Param review body dto.ReviewSuggestionRequest false "Review notes"
// @Success 200 {object} domain.AISuggestion
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Suggestion not found"
// @Failure 409 {object} ErrorResponse "Suggestion is not pending"
// @Failure 500 {object} ErrorResponse "Failed to reject suggestion"
// @Security BearerAuth
// @Router /companies/{company_id}/suggestions/{suggestion_id}/reject [post]
func (h *suggestionHandler) rejectSuggestion(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReviewSuggestionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	suggestion, err := h.suggestionService.RejectSuggestion(c.Request.Context(), companyID, c.Param("suggestion_id"), userID, req.Notes)
	if err != nil {
		respondError(c, err, "Failed to reject suggestion")
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// implementSuggestion godoc
// @Summary Implement a suggestion
// @Description Posts an approved suggestion's entries. A suggestion is implemented at most once.
// @Tags suggestions
// @Produce json
// @Param company_id path string true "Company ID"
// @Param suggestion_id path string true "Suggestion ID"
// @Success 200 {object} SuggestionReviewResponse
// @Failure 400 {object} ErrorResponse "Suggested entries cannot be posted"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Suggestion not found"
// @Failure 409 {object} ErrorResponse "Suggestion is not approved"
// @Failure 500 {object} ErrorResponse "Failed to implement suggestion"
// @Security BearerAuth
// @Router /companies/{company_id}/suggestions/{suggestion_id}/implement [post]
func (h *suggestionHandler) implementSuggestion(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	suggestion, posted, err := h.suggestionService.ImplementSuggestion(c.Request.Context(), companyID, c.Param("suggestion_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to implement suggestion")
		return
	}

	txn := dto.ToTransactionResponse(posted)
	c.JSON(http.StatusOK, SuggestionReviewResponse{Suggestion: suggestion, Transaction: &txn})
}

// createAgent godoc
// @Summary Create an AI agent
// @Tags agents
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param agent body dto.CreateAgentRequest true "Agent"
// @Success 201 {object} domain.AIAgent
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create agent"
// @Security BearerAuth
// @Router /companies/{company_id}/agents [post]
func (h *suggestionHandler) createAgent(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.CompanyID = companyID
	req.CreatedBy = userID

	agent, err := h.suggestionService.CreateAgent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create agent")
		return
	}
	c.JSON(http.StatusCreated, agent)
}

// getAgent godoc
// @Summary Get an AI agent
// @Description Returns the agent with its review counters
// @Tags agents
// @Produce json
// @Param company_id path string true "Company ID"
// @Param agent_id path string true "Agent ID"
// @Success 200 {object} domain.AIAgent
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Agent not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve agent"
// @Security BearerAuth
// @Router /companies/{company_id}/agents/{agent_id} [get]
func (h *suggestionHandler) getAgent(c *gin.Context) {
	companyID, _, ok := requestScope(c)
	if !ok {
		return
	}

	agent, err := h.suggestionService.GetAgent(c.Request.Context(), companyID, c.Param("agent_id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve agent")
		return
	}
	c.JSON(http.StatusOK, agent)
}

// analyze godoc
// @Summary Analyze a document
// @Description Asks the agent's AI provider for entries, records them as a suggestion and applies the agent's auto-approve policy
// @Tags agents
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param agent_id path string true "Agent ID"
// @Param document body dto.AnalyzeRequest true "Document"
// @Success 201 {object} dto.AnalyzeResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Agent not found"
// @Failure 502 {object} ErrorResponse "AI provider unavailable"
// @Failure 500 {object} ErrorResponse "Failed to analyze document"
// @Security BearerAuth
// @Router /companies/{company_id}/agents/{agent_id}/analyze [post]
func (h *suggestionHandler) analyze(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.CompanyID = companyID
	req.AgentID = c.Param("agent_id")
	req.RequestedBy = userID

	resp, err := h.suggestionService.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to analyze document")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Document analyzed",
		slog.String("suggestion_id", resp.Suggestion.SuggestionID),
		slog.Bool("auto_approved", resp.AutoApproved))
	c.JSON(http.StatusCreated, resp)
}

// bindOptionalJSON binds a JSON body when one was sent.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}

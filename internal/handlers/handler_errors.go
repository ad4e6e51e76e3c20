package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error         string                     `json:"error"`
	Errors        apperrors.ValidationErrors `json:"errors,omitempty"`
	CurrentStatus string                     `json:"currentStatus,omitempty"`
}

// respondError maps a service error onto an HTTP status. fallback is the
// message shown for unexpected failures, whose details stay in the log.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var verrs apperrors.ValidationErrors
	var conflict *apperrors.StateConflictError
	switch {
	case errors.As(err, &verrs):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Errors: verrs})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Errors: apperrors.ValidationErrors{{Index: -1, Message: err.Error()}},
		})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.As(err, &conflict):
		logger.Warn("State conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), CurrentStatus: conflict.CurrentStatus})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		logger.Error("AI provider unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "AI provider unavailable"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// respondBindError reports a request body or query string that could not be bound.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Errors: dto.ToValidationErrors(err)})
}

// requestScope returns the company from the path and the caller from the token.
func requestScope(c *gin.Context) (companyID, userID string, ok bool) {
	companyID = c.Param("company_id")
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", "", false
	}
	return companyID, userID, true
}

// parseDateParam parses an optional YYYY-MM-DD query value. Binding tags
// have already checked the layout.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, apperrors.ValidationErrors{{Index: -1, Message: "invalid date " + value + ", use YYYY-MM-DD"}}
	}
	return &t, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// publish delivers an event after a commit. Failures are logged and dropped.
func (s *BaseService) publish(ctx context.Context, publisher events.Publisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		s.GetLogger(ctx).Warn("Failed to publish ledger event",
			slog.String("error", err.Error()),
			slog.String("event_type", event.EventType),
			slog.String("company_id", event.CompanyID))
	}
}

// isExpected reports whether err is one of the typed outcomes callers are
// meant to handle, as opposed to a store failure.
func isExpected(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrStateConflict) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrProviderUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// asIntegrity classifies an unexpected failure of a unit of work as an
// integrity error. Typed outcomes pass through unchanged.
func asIntegrity(err error) error {
	if err == nil || isExpected(err) || errors.Is(err, apperrors.ErrIntegrity) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrIntegrity, err)
}

// startOfDay keeps the calendar date of t at midnight UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrStateConflict indicates that a requested state transition is not allowed
// from the resource's current state.
var ErrStateConflict = errors.New("state conflict")

// ErrIntegrity indicates that the underlying store failed while committing a unit of work.
// Nothing from the failed unit of work is visible.
var ErrIntegrity = errors.New("integrity error")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// ErrProviderUnavailable indicates the AI provider could not produce a proposal.
var ErrProviderUnavailable = errors.New("ai provider unavailable")

// AppError wraps a lower level error with an HTTP-ish status code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError is a single failed check. Index is the zero-based entry
// position, or -1 when the check applies to the request as a whole.
type ValidationError struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("entry %d %s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("entry %d: %s", e.Index, e.Message)
}

// ValidationErrors is the structured result of a rejected request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

// Is lets errors.Is(err, ErrValidation) match a ValidationErrors value.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// StateConflictError reports an illegal state transition together with the
// status the resource actually had.
type StateConflictError struct {
	Entity        string
	ID            string
	Action        string
	CurrentStatus string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s %s %s: current status is %s", e.Action, e.Entity, e.ID, e.CurrentStatus)
}

// Is lets errors.Is(err, ErrStateConflict) match a StateConflictError.
func (e *StateConflictError) Is(target error) bool {
	return target == ErrStateConflict
}

// NewStateConflict builds a StateConflictError.
func NewStateConflict(entity, id, action, currentStatus string) *StateConflictError {
	return &StateConflictError{Entity: entity, ID: id, Action: action, CurrentStatus: currentStatus}
}

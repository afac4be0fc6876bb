// Package errors provides typed error definitions for ush.
// This package consolidates error handling and provides structured error types
// that can be used for better error classification and handling.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Configuration errors
	ErrConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrLockPoisoned     ErrorCode = "LOCK_POISONED"

	// External tool errors
	ErrToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	ErrCommandFailed   ErrorCode = "COMMAND_FAILED"

	// Discovery errors
	ErrParse ErrorCode = "PARSE"

	// Container errors
	ErrContainerNotFound   ErrorCode = "CONTAINER_NOT_FOUND"
	ErrContainerStart      ErrorCode = "CONTAINER_START_FAILED"
	ErrContainerStop       ErrorCode = "CONTAINER_STOP_FAILED"
	ErrContainerInspect    ErrorCode = "CONTAINER_INSPECT_FAILED"
	ErrProvisionFailed     ErrorCode = "PROVISION_FAILED"
	ErrEnvironmentNotFound ErrorCode = "ENVIRONMENT_NOT_FOUND"

	// Port allocation errors
	ErrInvalidPortBase     ErrorCode = "INVALID_PORT_BASE"
	ErrAllocationExhausted ErrorCode = "ALLOCATION_EXHAUSTED"
	ErrInvalidPort         ErrorCode = "INVALID_PORT"

	// Git errors
	ErrGitUnavailable    ErrorCode = "GIT_UNAVAILABLE"
	ErrGitWorktreeFailed ErrorCode = "GIT_WORKTREE_FAILED"
	ErrGitUncommitted    ErrorCode = "GIT_UNCOMMITTED_CHANGES"

	// Tmux errors
	ErrTmuxUnavailable ErrorCode = "TMUX_UNAVAILABLE"
	ErrPaneNotFound    ErrorCode = "PANE_NOT_FOUND"

	// Ticket errors
	ErrTicketNotFound      ErrorCode = "TICKET_NOT_FOUND"
	ErrInvalidTicketStatus ErrorCode = "INVALID_TICKET_STATUS"
	ErrConflict            ErrorCode = "CONFLICT"

	// Database errors
	ErrDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	ErrDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	ErrDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"

	// Validation errors
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrInvalidPath  ErrorCode = "INVALID_PATH"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrTimeout  ErrorCode = "TIMEOUT"
	ErrNotFound ErrorCode = "NOT_FOUND"
)

// UshError represents a structured error with additional context
type UshError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *UshError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *UshError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *UshError) WithContext(key string, value interface{}) *UshError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause error
func (e *UshError) WithCause(cause error) *UshError {
	e.Cause = cause
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *UshError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrConfigNotFound, ErrContainerNotFound, ErrEnvironmentNotFound, ErrTicketNotFound, ErrPaneNotFound, ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput, ErrInvalidPath, ErrInvalidPort, ErrInvalidPortBase, ErrInvalidTicketStatus:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrTimeout:
		return http.StatusRequestTimeout
	case ErrToolUnavailable, ErrGitUnavailable, ErrTmuxUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new UshError
func New(code ErrorCode, message string) *UshError {
	return &UshError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new UshError with details
func NewWithDetails(code ErrorCode, message, details string) *UshError {
	return &UshError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new UshError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *UshError {
	return &UshError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetails creates a new UshError with details that wraps an existing error
func WrapWithDetails(code ErrorCode, message, details string, cause error) *UshError {
	return &UshError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// IsUshError checks if an error is a UshError
func IsUshError(err error) bool {
	_, ok := err.(*UshError)
	return ok
}

// GetCode extracts the error code from an error, if it's a UshError
func GetCode(err error) ErrorCode {
	if ue, ok := err.(*UshError); ok {
		return ue.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// Common pre-defined errors for consistency
var (
	// Lock errors
	ErrContextPoisoned = New(ErrLockPoisoned, "application context lock is poisoned")
)

package engine

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error for retry and recovery logic.
type ErrorClass string

const (
	// ErrorClassConflict indicates the request clashes with the current state and may
	// succeed later, once that state changes.
	// Example: removing a component that an installed component still needs.
	ErrorClassConflict ErrorClass = "conflict"

	// ErrorClassPermanent indicates the request itself is invalid and will never succeed.
	// Examples: over-long component names, dependency cycles.
	ErrorClassPermanent ErrorClass = "permanent"
)

// EngineError represents a classified rejection with context.
// nolint:revive // EngineError is intentionally named to distinguish from standard errors
type EngineError struct {
	// Class is the error classification for retry logic.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is the error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Component is the component that caused the error, if applicable.
	Component string `json:"component,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Component != "" && e.Operation != "" {
		msg = fmt.Sprintf("%s (component=%s, operation=%s)", msg, e.Component, e.Operation)
	} else if e.Component != "" {
		msg = fmt.Sprintf("%s (component=%s)", msg, e.Component)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassConflict,
		Message: message,
		Err:     err,
	}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassPermanent,
		Message: message,
		Err:     err,
	}
}

// WithComponent adds component context to an error.
func (e *EngineError) WithComponent(name string) *EngineError {
	e.Component = name
	return e
}

// WithOperation adds operation context to an error.
func (e *EngineError) WithOperation(operation string) *EngineError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to an error.
func (e *EngineError) WithCode(code string) *EngineError {
	e.Code = code
	return e
}

// WithDetail adds a detail field to the error context.
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// DetailString returns a string detail, or "" when absent.
func (e *EngineError) DetailString(key string) string {
	if v, ok := e.Details[key].(string); ok {
		return v
	}
	return ""
}

// IsConflict returns true if the error is classified as a conflict.
func IsConflict(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class == ErrorClassConflict
	}
	return false
}

// IsPermanent returns true if the error is classified as permanent.
func IsPermanent(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class == ErrorClassPermanent
	}
	return false
}

// IsRetryable returns true if the request can succeed once the state changes.
func IsRetryable(err error) bool {
	return IsConflict(err)
}

// IsNameTooLong returns true if err rejects a declaration over a component name length.
func IsNameTooLong(err error) bool {
	return hasCode(err, ErrCodeNameTooLong)
}

// IsCycle returns true if err rejects a declaration that would introduce a cycle.
func IsCycle(err error) bool {
	return hasCode(err, ErrCodeCycleRejected)
}

// IsStillNeeded returns true if err blocks a removal because of an installed dependent.
func IsStillNeeded(err error) bool {
	return hasCode(err, ErrCodeStillNeeded)
}

// CodeOf returns the error code of err, or "" when err is not an EngineError.
func CodeOf(err error) string {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func hasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Error codes.
const (
	ErrCodeEmptyName     = "EMPTY_NAME"
	ErrCodeNameTooLong   = "NAME_TOO_LONG"
	ErrCodeCycleRejected = "CYCLE_REJECTED"
	ErrCodeStillNeeded   = "STILL_NEEDED"
)

// Detail keys.
const (
	// DetailDependency names the dependency whose edge would close a cycle.
	DetailDependency = "dependency"

	// DetailDependent names the installed component that still needs a component.
	DetailDependent = "dependent"

	// DetailLimit carries the maximum component name length.
	DetailLimit = "limit"
)

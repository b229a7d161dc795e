// Package errors provides custom error types for the wikibasekit system.
// These errors enable programmatic error checking across the write layer,
// the matching engine, and the query/search backends.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the wikibasekit system
var (
	// ErrNotFound indicates that a requested entity or claim was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAmbiguousMatch indicates that more than one existing claim matched
	// a proposed statement and the matcher refuses to guess
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrIncomparablePrecision indicates a time comparison below year precision
	ErrIncomparablePrecision = errors.New("incomparable time precision")

	// ErrModificationFailed indicates that the remote store reported a soft
	// conflict; the write is abandoned but processing continues
	ErrModificationFailed = errors.New("modification failed")

	// ErrDuplicateClaim indicates the remote store rejected a claim as an
	// identical duplicate of an existing one
	ErrDuplicateClaim = errors.New("duplicate identical claim")

	// ErrCollision indicates a label/description collision at entity creation
	ErrCollision = errors.New("label and description collision")

	// ErrQueryFailed indicates a graph query could not be executed or decoded
	ErrQueryFailed = errors.New("query failed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// AmbiguousMatchError is raised when the matching engine finds more than one
// existing claim that could receive a proposed statement. It always signals
// duplicate or semi-duplicate claims in the store; callers log and skip.
type AmbiguousMatchError struct {
	Property string
	Kind     string // "identical" or "semi-identical"
	Count    int
}

// Error implements the error interface
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d %s claims for %s", e.Count, e.Kind, e.Property)
}

// Is implements errors.Is support
func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// NewAmbiguousMatchError creates a new AmbiguousMatchError
func NewAmbiguousMatchError(property, kind string, count int) *AmbiguousMatchError {
	return &AmbiguousMatchError{Property: property, Kind: kind, Count: count}
}

// APIError represents an error from the knowledge-graph API
type APIError struct {
	Operation string
	EntityID  string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s on %s: %s", e.Operation, e.EntityID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(operation, entityID, message string, err error) *APIError {
	return &APIError{Operation: operation, EntityID: entityID, Message: message, Err: err}
}

// QueryError represents a failed or malformed graph query. A QueryError
// aborts the current record; the caller proceeds with the next one.
type QueryError struct {
	Query    string
	Position int // byte offset into the legacy query, -1 if not positional
	Message  string
	Err      error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("query error at offset %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("query error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}

// NewQueryError creates a new QueryError
func NewQueryError(query string, position int, message string) *QueryError {
	return &QueryError{Query: query, Position: position, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAmbiguousMatch checks if an error came from the matching engine
// refusing to choose between multiple candidate claims
func IsAmbiguousMatch(err error) bool {
	return errors.Is(err, ErrAmbiguousMatch)
}

// IsModificationFailed checks if an error is a recoverable remote soft
// conflict (duplicate claim, label collision, stale revision)
func IsModificationFailed(err error) bool {
	return errors.Is(err, ErrModificationFailed) || errors.Is(err, ErrDuplicateClaim) || errors.Is(err, ErrCollision)
}

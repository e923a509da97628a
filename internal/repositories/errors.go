package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEntry is returned when trying to create a duplicate entity
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidID is returned when an invalid ID is provided
	ErrInvalidID = errors.New("invalid ID")

	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")

	// ErrUpstream is returned when the data store or commerce API fails or answers with an unexpected shape
	ErrUpstream = errors.New("upstream error")

	// ErrConfiguration is returned when a required credential or endpoint is missing
	ErrConfiguration = errors.New("configuration error")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *RepositoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// DuplicateError creates a "duplicate entry" repository error
func DuplicateError(entity, field, value string) *RepositoryError {
	return &RepositoryError{
		Op:      "create",
		Entity:  entity,
		Err:     ErrDuplicateEntry,
		Message: fmt.Sprintf("%s with %s '%s' already exists", entity, field, value),
	}
}

// ValidationError creates a "validation" error wrapping the reason
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %v", ErrValidation, err),
		Message: err.Error(),
	}
}

// ValidationMessage creates a "validation" error from a plain message
func ValidationMessage(entity, format string, args ...interface{}) *RepositoryError {
	return ValidationError(entity, "", fmt.Errorf(format, args...))
}

// UpstreamError creates an error for a failed call to an external API
func UpstreamError(op, entity string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		Err:     fmt.Errorf("%w: %v", ErrUpstream, err),
		Message: fmt.Sprintf("%s %s failed: %v", entity, op, err),
	}
}

// ConfigurationError creates an error for a missing setting
func ConfigurationError(entity, setting string) *RepositoryError {
	return &RepositoryError{
		Op:      "configure",
		Entity:  entity,
		Err:     ErrConfiguration,
		Message: fmt.Sprintf("%s is not configured: %s is missing", entity, setting),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if an error is a "duplicate entry" error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidID)
}

// IsUpstream checks if an error came from an external API
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsConfiguration checks if an error is caused by missing configuration
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeTransientBackend indicates the primary store failed and
	// the operation was recovered via the fallback store. Never surfaced
	// to callers on its own.
	ErrorTypeTransientBackend ErrorType = "TRANSIENT_BACKEND"

	// ErrorTypePermanentWrite indicates both stores failed a write.
	ErrorTypePermanentWrite ErrorType = "PERMANENT_WRITE"

	// ErrorTypeHistoryWrite indicates a snapshot append failed. Logged
	// only; never blocks or fails the main write.
	ErrorTypeHistoryWrite ErrorType = "HISTORY_WRITE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewTransientBackendError wraps a primary-store failure that was (or is
// about to be) recovered locally.
func NewTransientBackendError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransientBackend,
		Message: message,
		Err:     err,
	}
}

// NewPermanentWriteError wraps a write that failed on every backend.
func NewPermanentWriteError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePermanentWrite,
		Message: message,
		Err:     err,
	}
}

// NewHistoryWriteError wraps a failed snapshot append.
func NewHistoryWriteError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeHistoryWrite,
		Message: message,
		Err:     err,
	}
}

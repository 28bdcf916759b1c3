// Package errors provides standardized error handling for the candidature API.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeFormatNotRecognized ErrorCode = "FORMAT_NOT_RECOGNIZED"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"

	ErrCodeDuplicateCandidature ErrorCode = "DUPLICATE_CANDIDATURE"
	ErrCodeCandidatureNotFound  ErrorCode = "CANDIDATURE_NOT_FOUND"

	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode        `json:"code"`
	Message    string           `json:"message"`
	Details    string           `json:"details,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewFormatNotRecognizedError signals that no payload shape matched.
func NewFormatNotRecognizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormatNotRecognized,
		Message:   "Payload format not recognized",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError carries the full set of field violations.
func NewValidationFailedError(message string, violations []FieldViolation) *StandardError {
	return &StandardError{
		Code:       ErrCodeValidationFailed,
		Message:    message,
		Violations: violations,
		Timestamp:  time.Now().UTC(),
	}
}

// NewDuplicateCandidatureError signals a uniqueness conflict on save.
func NewDuplicateCandidatureError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateCandidature,
		Message:   "A candidature with this email already exists",
		Details:   fmt.Sprintf("email: %s", email),
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidatureNotFoundError signals a lookup miss by id.
func NewCandidatureNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidatureNotFound,
		Message:   "Candidature not found",
		Details:   fmt.Sprintf("id: %d", id),
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError wraps an unexpected persistence error.
func NewDatabaseQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError wraps a confirmation email failure.
// Notification failures are logged only, never surfaced to the HTTP caller.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Confirmation email could not be sent",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

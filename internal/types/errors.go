package types

import (
	"fmt"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants. Handlers and services MUST use these
// constants instead of hardcoded strings.
const (
	// Validation
	ErrCodeValidationInvalidJSON  ErrorCode = "validation_invalid_json"
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidEmail ErrorCode = "validation_invalid_email"

	// Not Found (required row missing)
	ErrCodeNotFoundKudos     ErrorCode = "not_found_kudos"
	ErrCodeNotFoundReward    ErrorCode = "not_found_reward"
	ErrCodeNotFoundProfile   ErrorCode = "not_found_profile"
	ErrCodeNotFoundRecipient ErrorCode = "not_found_recipient"

	// Configuration (missing credential; never retried)
	ErrCodeConfigEmailProvider ErrorCode = "config_email_provider_missing"

	// Upstream (email provider)
	ErrCodeUpstreamEmailProvider ErrorCode = "upstream_email_provider"
	ErrCodeUpstreamRateLimited   ErrorCode = "upstream_rate_limited"
	ErrCodeUpstreamUnavailable   ErrorCode = "upstream_unavailable"

	// Internal
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// IsNotFound reports whether the code represents a missing required row.
func (c ErrorCode) IsNotFound() bool {
	return strings.HasPrefix(string(c), "not_found_")
}

// IsTransient reports whether the code represents a failure that may
// succeed on retry. Configuration and validation errors are never
// transient; upstream availability errors are.
func (c ErrorCode) IsTransient() bool {
	switch c {
	case ErrCodeUpstreamEmailProvider, ErrCodeUpstreamRateLimited, ErrCodeUpstreamUnavailable:
		return true
	default:
		return false
	}
}

// AppError is the standard application error type. All domain and handler
// errors are expressed as AppError to enable consistent logging,
// classification, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError with the given code, message, and
// optional wrapped error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails constructs an AppError carrying structured
// details for diagnostics.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

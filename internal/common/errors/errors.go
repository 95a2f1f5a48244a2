// Package errors provides standardized error handling for the moderation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Snapshot is structurally invalid; the caller must reject the
	// submission without recording a moderation result.
	ErrCodeValidationInputFailed ErrorCode = "VALIDATION_INPUT_FAILED"

	// Static lexicon/weight tables could not be loaded at startup.
	ErrCodeLexiconLoadFailed ErrorCode = "LEXICON_LOAD_FAILED"

	// Price estimator failures. These are always absorbed into the
	// fallback layer result inside the price validator.
	ErrCodeExternalServiceError  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodePriceAPITimeout       ErrorCode = "PRICE_API_TIMEOUT"
	ErrCodePriceResponseInvalid  ErrorCode = "PRICE_RESPONSE_INVALID"
	ErrCodeEstimateCacheDegraded ErrorCode = "ESTIMATE_CACHE_DEGRADED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationInputError creates a non-retryable snapshot validation error.
func NewValidationInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationInputFailed,
		Message:   "Listing snapshot failed input validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLexiconLoadError creates a fatal lexicon load error.
func NewLexiconLoadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLexiconLoadFailed,
		Message:   "Moderation lexicon could not be loaded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a retryable external service error.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalServiceError,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPriceAPITimeoutError creates a retryable estimator timeout error.
func NewPriceAPITimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePriceAPITimeout,
		Message:   "Price estimator call timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPriceResponseInvalidError creates a non-retryable malformed-response error.
func NewPriceResponseInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePriceResponseInvalid,
		Message:   "Price estimator returned an unusable response",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEstimateCacheDegradedError creates a non-fatal cache degradation error.
func NewEstimateCacheDegradedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEstimateCacheDegraded,
		Message:   "Estimate cache unavailable, falling through to estimator",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeExternalServiceError,
		ErrCodePriceAPITimeout,
		ErrCodeEstimateCacheDegraded:
		return true
	default:
		return false
	}
}

// IsValidationInputError reports whether err is a snapshot validation failure.
func IsValidationInputError(err error) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == ErrCodeValidationInputFailed
}

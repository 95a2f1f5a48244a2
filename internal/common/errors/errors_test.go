// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_Error(t *testing.T) {
	err := NewValidationInputError("price must be positive, got 0")

	assert.Equal(t, "StandardError[VALIDATION_INPUT_FAILED]: Listing snapshot failed input validation", err.Error())
	assert.False(t, err.Retryable)
	assert.False(t, err.Timestamp.IsZero())
}

func TestRetryableClassification(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeValidationInputFailed, false},
		{ErrCodeLexiconLoadFailed, false},
		{ErrCodeExternalServiceError, true},
		{ErrCodePriceAPITimeout, true},
		{ErrCodePriceResponseInvalid, false},
		{ErrCodeEstimateCacheDegraded, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConstructorsMatchClassification(t *testing.T) {
	cause := fmt.Errorf("boom")

	assert.True(t, NewExternalServiceError("price-estimator", cause).Retryable)
	assert.True(t, NewPriceAPITimeoutError(cause).Retryable)
	assert.False(t, NewPriceResponseInvalidError("bad body").Retryable)
	assert.False(t, NewLexiconLoadError(cause).Retryable)
}

func TestIsValidationInputError(t *testing.T) {
	assert.True(t, IsValidationInputError(NewValidationInputError("details")))
	assert.False(t, IsValidationInputError(NewLexiconLoadError(fmt.Errorf("x"))))
	assert.False(t, IsValidationInputError(fmt.Errorf("plain")))
	assert.False(t, IsValidationInputError(nil))
}

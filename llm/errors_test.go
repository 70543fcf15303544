package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLLMError(t *testing.T) {
	testCases := []struct {
		name          string
		errType       ErrorType
		message       string
		underlyingErr error
		expectedStr   string
	}{
		{
			name:          "Request error with underlying error",
			errType:       ErrorTypeRequest,
			message:       "failed to send request",
			underlyingErr: errors.New("connection refused"),
			expectedStr:   "RequestError (failed to send request): connection refused",
		},
		{
			name:        "API error without underlying error",
			errType:     ErrorTypeAPI,
			message:     "API error: status code 500",
			expectedStr: "APIError: API error: status code 500",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			llmErr := NewLLMError(tc.errType, tc.message, tc.underlyingErr)

			assert.Equal(t, tc.errType, llmErr.Type)
			assert.Equal(t, tc.expectedStr, llmErr.Error())
			if tc.underlyingErr != nil {
				assert.Equal(t, tc.underlyingErr, errors.Unwrap(llmErr))
			}

			fields := llmErr.LoggableFields()
			assert.Len(t, fields, 6)
			assert.Equal(t, "error_type", fields[0])
			assert.Equal(t, llmErr.TypeString(), fields[1])
		})
	}
}

func TestNewStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuthentication},
		{http.StatusForbidden, ErrorTypeAuthentication},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeAPI},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewStatusError(tt.status, "")
			assert.Equal(t, tt.want, err.Type)
			assert.Equal(t, tt.status, StatusCode(fmt.Errorf("wrapped: %w", err)))
		})
	}
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestFixedRetryStrategy(t *testing.T) {
	s := NewFixedRetryStrategy(3, 10*time.Millisecond)
	err := errors.New("fail")

	attempts := 1
	for s.ShouldRetry(err) {
		assert.Equal(t, 10*time.Millisecond, s.NextDelay())
		attempts++
	}
	assert.Equal(t, 3, attempts)
	assert.False(t, s.ShouldRetry(nil))

	s.Reset()
	assert.True(t, s.ShouldRetry(err))

	single := NewFixedRetryStrategy(0, 0)
	assert.False(t, single.ShouldRetry(err), "budget is floored at one attempt")
}

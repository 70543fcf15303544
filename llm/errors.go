package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of an error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeProvider
	ErrorTypeRequest
	ErrorTypeResponse
	ErrorTypeAPI
	ErrorTypeRateLimit
	ErrorTypeAuthentication
	ErrorTypeInvalidInput
)

// LLMError represents an error raised while talking to a model backend.
type LLMError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
}

func (e *LLMError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

func (e *LLMError) TypeString() string {
	switch e.Type {
	case ErrorTypeProvider:
		return "ProviderError"
	case ErrorTypeRequest:
		return "RequestError"
	case ErrorTypeResponse:
		return "ResponseError"
	case ErrorTypeAPI:
		return "APIError"
	case ErrorTypeRateLimit:
		return "RateLimitError"
	case ErrorTypeAuthentication:
		return "AuthenticationError"
	case ErrorTypeInvalidInput:
		return "InvalidInputError"
	default:
		return "UnknownError"
	}
}

// LoggableFields returns key/value pairs for a utils.Logger call.
func (e *LLMError) LoggableFields() []any {
	return []any{
		"error_type", e.TypeString(),
		"message", e.Message,
		"status", e.StatusCode,
	}
}

// NewLLMError creates a new LLMError
func NewLLMError(errType ErrorType, message string, err error) *LLMError {
	return &LLMError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// NewStatusError classifies a non-200 HTTP status.
func NewStatusError(status int, body string) *LLMError {
	errType := ErrorTypeAPI
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = ErrorTypeAuthentication
	case http.StatusTooManyRequests:
		errType = ErrorTypeRateLimit
	}
	e := NewLLMError(errType, fmt.Sprintf("API error: status code %d", status), nil)
	e.StatusCode = status
	if body != "" {
		e.Err = errors.New(body)
	}
	return e
}

// StatusCode extracts the HTTP status from err, or 0 if none was recorded.
func StatusCode(err error) int {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr.StatusCode
	}
	return 0
}

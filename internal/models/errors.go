package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents validation errors (400)
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuthentication represents authentication errors (401)
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeNotFound represents resource not found errors (404)
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeRateLimit represents rate limiting errors (429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeProvider represents provider-specific errors (502/503)
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeTimeout represents timeout errors (504)
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeInternal represents internal server errors (500)
	ErrorTypeInternal ErrorType = "internal"
)

// Stable machine-readable codes for the analysis pipeline's failure modes.
const (
	CodeUnknownAnalysisType = "UNKNOWN_ANALYSIS_TYPE"
	CodeUnsupportedModel    = "UNSUPPORTED_MODEL"
	CodeProviderHTTPError   = "PROVIDER_HTTP_ERROR"
	CodeMalformedResponse   = "MALFORMED_RESPONSE"
	CodeNoProviderAvailable = "NO_PROVIDER_AVAILABLE"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitzero"`
	Provider   string    `json:"provider,omitzero"`
	StatusCode int       `json:"-"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for the error
func (e *AppError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeProvider:
		return http.StatusBadGateway
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Retryable:  false,
		Cause:      cause,
	}
}

// NewUnknownAnalysisTypeError reports an analysis type outside the four
// supported kinds.
func NewUnknownAnalysisTypeError(analysisType AnalysisType) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("unknown analysis type: %q", analysisType),
		Code:       CodeUnknownAnalysisType,
		StatusCode: http.StatusBadRequest,
		Retryable:  false,
	}
}

// NewUnsupportedModelError reports a model identifier the provider has no
// configuration for.
func NewUnsupportedModelError(provider, model string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("model %q is not supported by provider %s", model, provider),
		Code:       CodeUnsupportedModel,
		Provider:   provider,
		StatusCode: http.StatusBadRequest,
		Retryable:  false,
	}
}

// NewProviderHTTPError wraps a transport or non-2xx failure from a provider.
func NewProviderHTTPError(provider string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProvider,
		Message:    fmt.Sprintf("provider %s request failed", provider),
		Code:       CodeProviderHTTPError,
		Provider:   provider,
		StatusCode: http.StatusBadGateway,
		Retryable:  true,
		Cause:      cause,
	}
}

// NewMalformedResponseError reports a provider answer with no parseable JSON
// object or with required sections missing.
func NewMalformedResponseError(provider, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeProvider,
		Message:    fmt.Sprintf("provider %s returned a malformed response: %s", provider, message),
		Code:       CodeMalformedResponse,
		Provider:   provider,
		StatusCode: http.StatusBadGateway,
		Retryable:  false,
	}
}

// NewNoProviderAvailableError reports that no provider has valid credentials
// configured.
func NewNoProviderAvailableError() *AppError {
	return &AppError{
		Type:       ErrorTypeProvider,
		Message:    "no AI provider is configured",
		Code:       CodeNoProviderAvailable,
		StatusCode: http.StatusServiceUnavailable,
		Retryable:  false,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError() *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    "rate limit exceeded",
		Code:       CodeRateLimitExceeded,
		StatusCode: http.StatusTooManyRequests,
		Retryable:  true,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    fmt.Sprintf("operation %s timed out", operation),
		StatusCode: http.StatusGatewayTimeout,
		Retryable:  true,
		Cause:      cause,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Retryable:  false,
		Cause:      cause,
	}
}

// AsAppError converts any error into an *AppError, wrapping unknown errors as
// internal ones so callers always have a typed error to render.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("an unexpected error occurred", err)
}

// SanitizeError sanitizes an error for external consumption
func SanitizeError(err error) *AppError {
	appErr := AsAppError(err)
	return &AppError{
		Type:       appErr.Type,
		Message:    appErr.Message,
		Code:       appErr.Code,
		Provider:   appErr.Provider,
		StatusCode: appErr.GetStatusCode(),
		Retryable:  appErr.Retryable,
		// Don't expose internal cause
	}
}

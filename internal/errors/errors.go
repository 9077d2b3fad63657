// Package errors provides the error types raised by chat backends and the invocation layer.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrMissingAPIKey    = errors.New("no API key configured")
	ErrEmptyResponse    = errors.New("backend returned no content")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrBusy             = errors.New("an invocation is already in flight")
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrBackendPanicked  = errors.New("backend panicked")
	ErrSystemNotFirst   = errors.New("system message must be the first message")
	ErrTemplateNotFound = errors.New("prompt template not found")
)

// BackendError represents a failed request to a chat backend
type BackendError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("backend error at %s: %s", e.Endpoint, e.Message)
}

// Is matches ErrAuthFailed for 401/403 responses
func (e *BackendError) Is(target error) bool {
	if target == ErrAuthFailed {
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	_, ok := target.(*BackendError)
	return ok
}

// NewBackendError creates a new BackendError
func NewBackendError(statusCode int, endpoint, message string) *BackendError {
	return &BackendError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewBackendErrorWithBody creates a BackendError that keeps the raw response body for diagnostics
func NewBackendErrorWithBody(statusCode int, endpoint, message, body string) *BackendError {
	e := NewBackendError(statusCode, endpoint, message)
	e.Body = body
	return e
}

// NetworkError represents a transport failure before any response was received
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s (%s): %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request that did not complete within its deadline
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var be *BackendError
	if errors.As(err, &be) {
		return be.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Endpoint
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Endpoint
	}
	return ""
}

// GetResponseBody returns the raw response body carried by err, or ""
func GetResponseBody(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Body
	}
	return ""
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrMissingAPIKey)
}

// IsRateLimitError reports whether err is an HTTP 429
func IsRateLimitError(err error) bool {
	return GetHTTPStatus(err) == 429
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Package errors provides custom error types for the ragchat client and service.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoSession       = errors.New("no session established")
	ErrBusy            = errors.New("a request is already in flight")
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrNetwork         = errors.New("network error")
	ErrTimeout         = errors.New("request timed out")
)

// APIError represents a non-success HTTP status from the service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NetworkError represents a transport failure (connection refused, reset, DNS)
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *TimeoutError) Is(target error) bool {
	if target == ErrTimeout {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsTimeoutError reports whether err is a request timeout
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsParseError reports whether err is a response parsing failure
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// GetHTTPStatus extracts the HTTP status from an APIError, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from an APIError or NetworkError
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

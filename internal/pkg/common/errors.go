package common

import (
	"net/http"
)

// ErrorResponse is the API error response body
type ErrorResponse struct {
	Code    string `json:"code"`              // stable error code
	Message string `json:"message"`           // human-readable message
	Details string `json:"details,omitempty"` // diagnostics, development mode only
}

// CustomError is the tagged error type carried through the request path
type CustomError struct {
	Code    string // stable error code
	Message string // human-readable message
	Err     error  // underlying cause
	Status  int    // HTTP status
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new tagged error
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// predefined error codes
const (
	// client errors (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeClientUnavailable  = "CLIENT_UNAVAILABLE"  // 500
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"      // 500
	ErrCodeRecoveryError      = "RECOVERY_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// predefined errors
var (
	// client errors
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "please provide household member details or select ingredients", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "method not allowed", http.StatusMethodNotAllowed, nil)
	ErrRequestTimeout   = NewError(ErrCodeRequestTimeout, "request timed out", http.StatusRequestTimeout, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// server errors
	ErrInternalError     = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrClientUnavailable = NewError(ErrCodeClientUnavailable, "completion client is not initialized, check API key", http.StatusInternalServerError, nil)

	// cache errors
	ErrCacheFull     = NewError("CACHE_FULL", "completion cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "completion cache is disabled", http.StatusServiceUnavailable, nil)
)

// NewUpstreamError tags a failure of the external completion call,
// keeping the provider-side message for diagnostics.
func NewUpstreamError(err error) *CustomError {
	return NewError(ErrCodeUpstreamError, "an error occurred with the completion API", http.StatusInternalServerError, err)
}

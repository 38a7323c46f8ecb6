package errorwrapper

import (
	"fmt"
	"net/http"
)

// ValidationError reports a rejected setting or argument.
// errors.Is matches it against ErrInvalidInput.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NetworkError is a transport failure while fetching a post page or media file
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{URL: url, Reason: reason, Wrapped: wrapped}
}

func (e *NetworkError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Wrapped)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// HTTPError is a non-2xx response
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

// NewHTTPErrorWithURL builds an HTTPError; an empty message uses the status text.
func NewHTTPErrorWithURL(statusCode int, message, url string) *HTTPError {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &HTTPError{StatusCode: statusCode, Message: message, URL: url}
}

func (e *HTTPError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Message)
}

// Retryable reports whether the status is worth another attempt: rate
// limiting and transient server errors.
func (e *HTTPError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

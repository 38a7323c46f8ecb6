package errorwrapper

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrClosed is returned by a client or store used after Close
	ErrClosed = errors.New("resource already closed")
)

// WrapError prefixes err with message. A nil error stays nil.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf is WrapError with a formatted message
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return WrapError(err, fmt.Sprintf(format, args...))
}

// NewError formats a new error; %w verbs wrap as with fmt.Errorf
func NewError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

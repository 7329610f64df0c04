// Package errors provides the structured error taxonomy shared by every outbound call and every
// argument check in the client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of a failure.
type ErrorType string

const (
	// TypeConfiguration indicates missing or invalid arguments supplied by the host.
	TypeConfiguration ErrorType = "configuration"
	// TypeUnauthorized indicates the remote service rejected the token (HTTP 401/403).
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeNotFound indicates the entity does not exist on the remote service (HTTP 404).
	TypeNotFound ErrorType = "not_found"
	// TypeTransport indicates a network error, an undecodable body or any other non-2xx status.
	TypeTransport ErrorType = "transport"
)

// Sentinels for errors.Is matching by category.
var (
	ErrConfiguration = &Error{Type: TypeConfiguration}
	ErrUnauthorized  = &Error{Type: TypeUnauthorized}
	ErrNotFound      = &Error{Type: TypeNotFound}
	ErrTransport     = &Error{Type: TypeTransport}
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
	Context    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a category sentinel of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Type == e.Type
}

// ConfigurationError creates a new configuration error.
func ConfigurationError(message string) *Error {
	return &Error{
		Type:    TypeConfiguration,
		Message: message,
		Context: make(map[string]any),
	}
}

// UnauthorizedError creates a new unauthorized error for the given remote status.
func UnauthorizedError(message string, status int) *Error {
	return &Error{
		Type:       TypeUnauthorized,
		Message:    message,
		StatusCode: status,
		Context:    make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:       TypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Context:    make(map[string]any),
	}
}

// TransportError creates a new transport error. status is zero when no response was received.
func TransportError(message string, status int, cause error) *Error {
	return &Error{
		Type:       TypeTransport,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
		Context:    make(map[string]any),
	}
}

// FromStatus classifies a non-2xx HTTP status code.
func FromStatus(status int, message string) *Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return UnauthorizedError(message, status)
	case http.StatusNotFound:
		return NotFoundError(message)
	default:
		return TransportError(message, status, nil)
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// LogAttrs flattens the error into slog key/value pairs.
func (e *Error) LogAttrs() []any {
	attrs := []any{"error_type", e.Type, "message", e.Message}
	if e.StatusCode != 0 {
		attrs = append(attrs, "status", e.StatusCode)
	}
	for k, v := range e.Context {
		attrs = append(attrs, k, v)
	}
	if e.Cause != nil {
		attrs = append(attrs, "cause", e.Cause)
	}
	return attrs
}

// IsType reports whether err carries a structured error of the given type.
func IsType(err error, t ErrorType) bool {
	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr.Type == t
	}
	return false
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as a transport error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return TransportError("request failed", 0, err)
}

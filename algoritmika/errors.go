package algoritmika

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrSessionClosed is returned when an operation is attempted on a
	// session that has no active authenticated transport.
	ErrSessionClosed = errors.New("session is closed, use Login to log in")

	// ErrInvalidCredentials is returned when the upstream rejects the
	// login or password during authentication.
	ErrInvalidCredentials = errors.New("login or password is incorrect")

	// ErrAlreadyLoggedIn is returned when Login is called on a session
	// that is already authenticated.
	ErrAlreadyLoggedIn = errors.New("session is already logged in")

	// ErrNotFound is returned when the upstream signals that the
	// requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidID is returned when a string id cannot be parsed as an
	// integer.
	ErrInvalidID = errors.New("id must be an integer")
)

// APIError represents an unexpected upstream response. It carries the raw
// response body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("algoritmika API error: status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// SchemaError indicates that a response payload did not match the shape
// this client expects: a required field was absent, null, or carried an
// unexpected type.
type SchemaError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("unsupported schema: field %q: %s", e.Field, e.Reason)
}

// Package apperr defines the recoverable error taxonomy shared by the
// repositories, the simulated API facade, and the remote backend client.
package apperr

import (
	"errors"
	"fmt"
)

// ErrSessionExpired signals that the bearer token was rejected by the backend.
var ErrSessionExpired = &AuthError{Message: "Session expired. Please log in again."}

// NotFoundError reports that a requested entity does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound builds a NotFoundError for the named resource ("Note", "Course", ...).
func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// ValidationError reports caller-supplied input that fails a precondition.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation builds a ValidationError with the exact message surfaced to callers.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// AuthError reports a credential mismatch or an invalid session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuth builds an AuthError with the exact message surfaced to callers.
func NewAuth(message string) *AuthError {
	return &AuthError{Message: message}
}

// IsAuth reports whether err is, or wraps, an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// ConnectivityError reports that a network call could not complete. Read paths
// degrade to empty results on this error; write paths propagate it.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "Unable to connect to the server. Please check your connection."
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// NewConnectivity wraps a transport failure.
func NewConnectivity(err error) *ConnectivityError {
	return &ConnectivityError{Err: err}
}

// IsConnectivity reports whether err is, or wraps, a ConnectivityError.
func IsConnectivity(err error) bool {
	var target *ConnectivityError
	return errors.As(err, &target)
}

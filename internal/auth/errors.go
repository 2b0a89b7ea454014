package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEnvelope is returned when a login answer is not a {success, data} envelope.
	ErrMalformedEnvelope = errors.New("malformed login response")

	// ErrMissingToken is returned when a successful login answer carries no token.
	ErrMissingToken = errors.New("login response without token")

	// ErrLoginCancelled is returned when the caller went away before the login committed.
	ErrLoginCancelled = errors.New("login cancelled")
)

// LoginErrorKind classifies login failures.
type LoginErrorKind string

const (
	// KindTransport is a network failure or timeout.
	KindTransport LoginErrorKind = "transport"
	// KindProtocol is an unexpected status or malformed answer.
	KindProtocol LoginErrorKind = "protocol"
	// KindRejected means the backend refused the credentials.
	KindRejected LoginErrorKind = "rejected"
	// KindStorage means the session could not be persisted.
	KindStorage LoginErrorKind = "storage"
	// KindInput is an invalid login request.
	KindInput LoginErrorKind = "input"
	// KindCancelled means the answer arrived after the caller gave up.
	KindCancelled LoginErrorKind = "cancelled"
)

// LoginError is the single failure shape of Login. Message is safe to show
// next to the login form.
type LoginError struct {
	Kind    LoginErrorKind
	Message string
	Err     error
}

// Error implements error.
func (e *LoginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login %s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("login %s: %s", e.Kind, e.Message)
}

// Unwrap returns the cause.
func (e *LoginError) Unwrap() error {
	return e.Err
}

const (
	msgUnreachable = "The server could not be reached. Please try again."
	msgUnexpected  = "Unexpected response from the server."
	msgRejected    = "Invalid email or password."
	msgStorage     = "Your session could not be saved. Please try again."
)

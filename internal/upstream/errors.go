package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network failures: unreachable backend, timeouts, broken connections.
	ErrTransport = errors.New("upstream transport failure")

	// ErrDecode is returned when a 2xx response body is not the expected JSON.
	ErrDecode = errors.New("upstream response could not be decoded")

	// ErrUnauthorized matches every 401 answer, see UnauthorizedError.
	ErrUnauthorized = errors.New("upstream rejected credentials")

	// ErrEmptyBaseURL is returned by New without a base URL.
	ErrEmptyBaseURL = errors.New("upstream base url is empty")
)

// StatusError is a non-2xx, non-401 answer. It is passed through untouched.
type StatusError struct {
	Code int
	Body []byte
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream answered %d", e.Code)
}

// UnauthorizedError is a 401 answer. Redirect is set when the session was
// cleared and the console must send the browser to a login page; it is empty
// when the request came from a login page.
type UnauthorizedError struct {
	Redirect string
	Body     []byte
}

// Error implements error.
func (e *UnauthorizedError) Error() string {
	return ErrUnauthorized.Error()
}

// Is lets errors.Is(err, ErrUnauthorized) match.
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

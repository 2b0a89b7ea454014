package credential

import "errors"

var (
	// ErrNilStorage is returned when the store is created without a backend.
	ErrNilStorage = errors.New("credential storage is nil")

	// ErrEmptySessionID is returned for operations without a console session id.
	ErrEmptySessionID = errors.New("session id is empty")

	// ErrEmptyToken is returned when Save is called without a token.
	ErrEmptyToken = errors.New("token is empty")

	// ErrNilUser is returned when Save is called without a user.
	ErrNilUser = errors.New("user is nil")
)

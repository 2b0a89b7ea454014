package identity

import "errors"

var (
	// ErrUnknownRole is returned when a role value or payload shape does not map to a known role.
	ErrUnknownRole = errors.New("unknown role")

	// ErrMissingRole is returned when a user record carries no role information at all.
	ErrMissingRole = errors.New("user record has no role")
)

// Package login provides the role login pages of the console.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed
	// or fails validation.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrRoleNotAllowed is returned when a form asks for a role the page does not serve.
	ErrRoleNotAllowed = errors.New("role not allowed on this login page")
)

package auth

import (
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
)

// Reason tells why a session ended.
type Reason string

const (
	// ReasonUser is an explicit logout.
	ReasonUser Reason = "user"
	// ReasonIdle is the idle timeout.
	ReasonIdle Reason = "idle"
	// ReasonExpired means the token expiry claim passed.
	ReasonExpired Reason = "expired"
	// ReasonRemote is a logout received from another tab or node.
	ReasonRemote Reason = "remote"
	// ReasonUnauthorized means the backend rejected the token.
	ReasonUnauthorized Reason = "unauthorized"
)

// Event describes a login or logout of one console session.
type Event struct {
	SessionID string
	User      *identity.User
	Reason    Reason
}

// Observer is told about logins and logouts. Calls happen synchronously
// after the state change with no lock held; implementations must not block.
type Observer interface {
	LoggedIn(ev Event)
	LoggedOut(ev Event)
}

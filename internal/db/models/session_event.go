// Package models contains database model definitions.
package models

import (
	"time"
)

// Session event kinds.
const (
	EventLogin  = "login"
	EventLogout = "logout"
	EventBeacon = "beacon"
)

// SessionEvent is one entry of the local session audit trail.
type SessionEvent struct {
	ID uint64 `gorm:"primaryKey"`

	// EventID is a uuid, unique across nodes writing to the same database.
	EventID string `gorm:"size:36;uniqueIndex"`
	Kind    string `gorm:"size:16;index"`

	// Session is a fingerprint of the console session id, never the id itself.
	Session   string    `gorm:"size:16;index"`
	UserID    string    `gorm:"size:64;index"`
	Role      string    `gorm:"size:32"`
	Reason    string    `gorm:"size:32"`
	Page      string    `gorm:"size:255"`
	Node      string    `gorm:"size:36"`
	CreatedAt time.Time `gorm:"index"`
}

// Package broadcast carries session events between the tabs and the nodes of the console.
//
// A logout on one node must end the same session everywhere, and a login of a
// different user must evict stale state elsewhere. Messages are typed; the
// Origin field lets a node skip what it published itself.
package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind is the message type.
type Kind string

const (
	// KindLogout ends a session.
	KindLogout Kind = "logout"
	// KindLogin announces a new login on a session.
	KindLogin Kind = "login"
)

// Message is a session event.
type Message struct {
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId,omitempty"`
	Role      string    `json:"role,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Origin    string    `json:"origin"`
	At        time.Time `json:"at"`
}

// Handler receives messages.
type Handler func(ctx context.Context, msg Message)

// Bus publishes and delivers session events.
type Bus interface {
	// Publish sends msg to every subscriber, including this node's.
	Publish(ctx context.Context, msg Message) error
	// Subscribe registers a handler.
	Subscribe(h Handler)
	// Origin identifies this node.
	Origin() string
	// Run delivers messages until ctx is done.
	Run(ctx context.Context) error
	// Close releases resources.
	Close() error
}

// ErrInvalidMessage is returned for messages without kind or session.
var ErrInvalidMessage = errors.New("invalid broadcast message")

// NewOrigin returns a random node id.
func NewOrigin() string {
	return uuid.NewString()
}

func (m Message) validate() error {
	if (m.Kind != KindLogout && m.Kind != KindLogin) || m.SessionID == "" {
		return ErrInvalidMessage
	}

	return nil
}

// Encode serializes a message.
func Encode(m Message) ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(m)

	return data, errors.Wrap(err, "failed to encode broadcast message")
}

// Decode parses a message.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.Wrap(err, "failed to decode broadcast message")
	}

	return m, m.validate()
}

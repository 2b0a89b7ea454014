// Package tabs streams session signals to the open console tabs of a session.
//
// Every tab opens a server-sent events stream on /session/events. When the
// session ends anywhere, the hub pushes a logout signal and the tab navigates
// to the login page.
package tabs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

const (
	// KindLogout tells tabs to leave.
	KindLogout = "logout"
	// KindLogin tells tabs that the session changed hands.
	KindLogin = "login"

	bufferSize       = 4
	defaultHeartbeat = 25 * time.Second
)

// Signal is pushed to the tabs of a session.
type Signal struct {
	Kind     string `json:"kind"`
	Reason   string `json:"reason,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type subscriber struct {
	ch chan Signal
}

// Hub fans signals out to tab subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// Subscribe registers a tab of sid. The returned cancel func must be called when the tab goes away.
func (h *Hub) Subscribe(sid string) (<-chan Signal, func()) {
	s := &subscriber{ch: make(chan Signal, bufferSize)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(s.ch)

		return s.ch, func() {}
	}

	if h.subs[sid] == nil {
		h.subs[sid] = make(map[*subscriber]struct{})
	}

	h.subs[sid][s] = struct{}{}

	var once sync.Once

	return s.ch, func() {
		once.Do(func() { h.remove(sid, s) })
	}
}

func (h *Hub) remove(sid string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sid]
	if !ok {
		return
	}

	if _, ok = set[s]; !ok {
		return
	}

	delete(set, s)
	close(s.ch)

	if len(set) == 0 {
		delete(h.subs, sid)
	}
}

// Notify pushes sig to every tab of sid and returns how many received it.
// Slow tabs whose buffer is full miss the signal.
func (h *Hub) Notify(sid string, sig Signal) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0

	for s := range h.subs[sid] {
		select {
		case s.ch <- sig:
			delivered++
		default:
			log.Debug().Msg("tab too slow, dropping session signal")
		}
	}

	return delivered
}

// Count returns the number of open tabs of sid.
func (h *Hub) Count(sid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[sid])
}

// Close ends every stream.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for sid, set := range h.subs {
		for s := range set {
			close(s.ch)
		}

		delete(h.subs, sid)
	}
}

// Handler serves the event stream of the requesting session. Signed-out
// requests get 204, which tells EventSource not to reconnect.
func (h *Hub) Handler(heartbeat time.Duration) fiber.Handler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return func(c *fiber.Ctx) error {
		actx := sessionctx.FromCtx(c)
		if actx == nil || actx.User() == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		ch, cancel := h.Subscribe(actx.SessionID())

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()

			stream(w, ch, heartbeat)
		})

		return nil
	}
}

func stream(w *bufio.Writer, ch <-chan Signal, heartbeat time.Duration) {
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	if _, err := fmt.Fprint(w, "retry: 3000\n\n"); err != nil || w.Flush() != nil {
		return
	}

	for {
		select {
		case sig, ok := <-ch:
			if !ok {
				return
			}

			data, err := json.Marshal(sig)
			if err != nil {
				continue
			}

			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sig.Kind, data); err != nil || w.Flush() != nil {
				return
			}

			if sig.Kind == KindLogout {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil || w.Flush() != nil {
				return
			}
		}
	}
}

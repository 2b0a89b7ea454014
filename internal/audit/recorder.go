// Package audit keeps the local trail of console session events.
//
// The Recorder is registered as an auth observer and as the beacon sink. Events
// are queued and written by a single goroutine, so observers never wait on the
// database.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db/controller/sessionevent"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db/models"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
)

const queueSize = 256

// Recorder writes session events to the database.
type Recorder struct {
	db    *gorm.DB
	node  string
	queue chan models.SessionEvent
	done  chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewRecorder starts the writer goroutine. node tags every event with the
// server node that saw it.
func NewRecorder(db *gorm.DB, node string) (*Recorder, error) {
	if db == nil {
		return nil, sessionevent.ErrDBNil
	}

	r := &Recorder{
		db:    db,
		node:  node,
		queue: make(chan models.SessionEvent, queueSize),
		done:  make(chan struct{}),
	}

	go r.run()

	return r, nil
}

func (r *Recorder) run() {
	defer close(r.done)

	for ev := range r.queue {
		if err := sessionevent.Create(r.db, &ev); err != nil {
			log.Error().Err(err).Str("kind", ev.Kind).Msg("can't write session event")
		}
	}
}

// Close stops accepting events and waits until the queue is written.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
	})

	<-r.done
}

func (r *Recorder) enqueue(ev models.SessionEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	ev.Node = r.node
	ev.CreatedAt = time.Now()

	select {
	case r.queue <- ev:
	default:
		log.Warn().Str("kind", ev.Kind).Msg("session audit queue full, event dropped")
	}
}

// LoggedIn implements auth.Observer.
func (r *Recorder) LoggedIn(ev auth.Event) {
	r.enqueue(newEvent(models.EventLogin, ev.SessionID, ev.User, ""))
}

// LoggedOut implements auth.Observer.
func (r *Recorder) LoggedOut(ev auth.Event) {
	out := newEvent(models.EventLogout, ev.SessionID, ev.User, "")
	out.Reason = string(ev.Reason)
	r.enqueue(out)
}

// Beacon implements security.BeaconSink.
func (r *Recorder) Beacon(sessionID string, user *identity.User, page string) {
	r.enqueue(newEvent(models.EventBeacon, sessionID, user, page))
}

// Recent returns the newest events for the admin dashboard.
func (r *Recorder) Recent(limit int) ([]models.SessionEvent, error) {
	return sessionevent.Recent(r.db, limit)
}

// Summary counts the events of each kind since the given time.
func (r *Recorder) Summary(since time.Time) (map[string]int64, error) {
	return sessionevent.CountByKind(r.db, since)
}

// Prune removes events older than retention.
func (r *Recorder) Prune(retention time.Duration) (int64, error) {
	return sessionevent.Prune(r.db, time.Now().Add(-retention))
}

func newEvent(kind, sid string, user *identity.User, page string) models.SessionEvent {
	ev := models.SessionEvent{
		Kind:    kind,
		Session: Fingerprint(sid),
		Page:    page,
	}

	if user != nil {
		ev.UserID = user.ID
		ev.Role = user.Role.String()
	}

	return ev
}

// Fingerprint returns a short stable digest of a session id.
func Fingerprint(sid string) string {
	if sid == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(sid))

	return hex.EncodeToString(sum[:8])
}

// Package sessionevent provides the queries of the session audit trail.
package sessionevent

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DishDash-Admin/DishDash-Admin/internal/db/models"
)

const (
	// DefaultLimit caps list queries without an explicit limit.
	DefaultLimit = 50

	newestFirst = "created_at DESC, id DESC"
)

var (
	// ErrEventNotFound is returned when an event is not found.
	ErrEventNotFound = errors.New("session event not found")
	// ErrEventKindEmpty is returned when attempting to create an event without a kind.
	ErrEventKindEmpty = errors.New("session event kind cannot be empty")
	// ErrUserIDEmpty is returned when a per user query has no user id.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores ev. EventID and CreatedAt are filled in when empty.
func Create(db *gorm.DB, ev *models.SessionEvent) error {
	if db == nil {
		return ErrDBNil
	}

	if ev == nil || ev.Kind == "" {
		return ErrEventKindEmpty
	}

	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}

	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	return db.Create(ev).Error
}

// Get retrieves an event by its EventID.
func Get(db *gorm.DB, eventID string) (*models.SessionEvent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ev models.SessionEvent

	result := db.Where("event_id = ?", eventID).First(&ev)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, result.Error
	}

	return &ev, nil
}

// Recent returns the newest events, newest first.
func Recent(db *gorm.DB, limit int) ([]models.SessionEvent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	events := []models.SessionEvent{}

	result := db.Order(newestFirst).Limit(clamp(limit)).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// ForUser returns the newest events of one backend user.
func ForUser(db *gorm.DB, userID string, limit int) ([]models.SessionEvent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	events := []models.SessionEvent{}

	result := db.Where("user_id = ?", userID).Order(newestFirst).Limit(clamp(limit)).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// CountByKind counts the events of each kind created at or after since.
func CountByKind(db *gorm.DB, since time.Time) (map[string]int64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []struct {
		Kind  string
		Total int64
	}

	result := db.Model(&models.SessionEvent{}).
		Select("kind, count(*) as total").
		Where("created_at >= ?", since).
		Group("kind").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Kind] = r.Total
	}

	return out, nil
}

// Prune deletes events created before cutoff and returns how many were removed.
func Prune(db *gorm.DB, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	result := db.Where("created_at < ?", cutoff).Delete(&models.SessionEvent{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func clamp(limit int) int {
	if limit <= 0 || limit > DefaultLimit*10 {
		return DefaultLimit
	}

	return limit
}

package sessionevent

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DishDash-Admin/DishDash-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.SessionEvent{}), "failed to migrate test database")

	return db
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedEvents(t *testing.T, db *gorm.DB, events []models.SessionEvent) {
	t.Helper()

	for i := range events {
		require.NoError(t, Create(db, &events[i]), "failed to seed test data")
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		event         *models.SessionEvent
		expectedError error
	}{
		{name: "nil database", event: &models.SessionEvent{Kind: models.EventLogin}, expectedError: ErrDBNil},
		{name: "nil event", dbParam: db, expectedError: ErrEventKindEmpty},
		{name: "empty kind", dbParam: db, event: &models.SessionEvent{UserID: "u1"}, expectedError: ErrEventKindEmpty},
		{name: "successful create", dbParam: db, event: &models.SessionEvent{Kind: models.EventLogin, UserID: "u1", Role: "restaurant"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Create(tc.dbParam, tc.event)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)

				return
			}

			require.NoError(t, err)
			assert.NotZero(t, tc.event.ID)
			assert.Len(t, tc.event.EventID, 36)
			assert.False(t, tc.event.CreatedAt.IsZero())

			stored, err := Get(db, tc.event.EventID)
			require.NoError(t, err)
			assert.Equal(t, "u1", stored.UserID)
		})
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	_, err := Get(nil, "x")
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Get(db, "missing")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestRecentAndForUser(t *testing.T) {
	db := setupTestDB(t)

	seedEvents(t, db, []models.SessionEvent{
		{Kind: models.EventLogin, UserID: "u1", CreatedAt: base},
		{Kind: models.EventLogin, UserID: "u2", CreatedAt: base.Add(time.Minute)},
		{Kind: models.EventLogout, UserID: "u1", Reason: "idle", CreatedAt: base.Add(2 * time.Minute)},
	})

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		userID        string
		limit         int
		expectedError error
		expectedUsers []string
	}{
		{name: "nil database", expectedError: ErrDBNil},
		{name: "all newest first", dbParam: db, expectedUsers: []string{"u1", "u2", "u1"}},
		{name: "limit", dbParam: db, limit: 1, expectedUsers: []string{"u1"}},
		{name: "one user", dbParam: db, userID: "u2", expectedUsers: []string{"u2"}},
		{name: "unknown user", dbParam: db, userID: "nobody", expectedUsers: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				events []models.SessionEvent
				err    error
			)

			if tc.userID != "" {
				events, err = ForUser(tc.dbParam, tc.userID, tc.limit)
			} else {
				events, err = Recent(tc.dbParam, tc.limit)
			}

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, events)

				return
			}

			require.NoError(t, err)

			users := make([]string, 0, len(events))
			for _, ev := range events {
				users = append(users, ev.UserID)
			}

			assert.Equal(t, tc.expectedUsers, users)
		})
	}

	_, err := ForUser(db, "", 0)
	require.ErrorIs(t, err, ErrUserIDEmpty)
}

func TestCountByKindAndPrune(t *testing.T) {
	db := setupTestDB(t)

	seedEvents(t, db, []models.SessionEvent{
		{Kind: models.EventLogin, CreatedAt: base.Add(-48 * time.Hour)},
		{Kind: models.EventLogin, CreatedAt: base},
		{Kind: models.EventLogout, CreatedAt: base.Add(time.Hour)},
		{Kind: models.EventBeacon, CreatedAt: base.Add(2 * time.Hour)},
	})

	counts, err := CountByKind(db, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{models.EventLogin: 1, models.EventLogout: 1, models.EventBeacon: 1}, counts)

	removed, err := Prune(db, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	events, err := Recent(db, 0)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	_, err = Prune(nil, base)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = CountByKind(nil, base)
	require.ErrorIs(t, err, ErrDBNil)
}

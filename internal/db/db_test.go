package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db/models"
)

func TestOpenSQLite(t *testing.T) {
	gdb, err := db.Open(config.DB{GormEngine: "sqlite"})
	require.NoError(t, err)

	assert.True(t, gdb.Migrator().HasTable(&models.SessionEvent{}))
}

func TestDialector(t *testing.T) {
	for _, engine := range []string{"sqlite", "mysql", "postgres"} {
		d, err := db.Dialector(config.DB{GormEngine: engine, Host: "localhost", Port: 1})
		require.NoError(t, err, engine)
		assert.Equal(t, engine, d.Name())
	}

	_, err := db.Dialector(config.DB{GormEngine: "oracle"})
	require.ErrorIs(t, err, db.ErrUnknownEngine)
}

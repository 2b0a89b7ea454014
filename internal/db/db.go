// Package db opens the gorm connection of the session audit trail.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db/dsn"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db/models"
	"github.com/DishDash-Admin/DishDash-Admin/internal/logger/adapter/stdlogger"
)

// ErrUnknownEngine is returned for a gorm engine other than sqlite, mysql or postgres.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case "sqlite", "":
		return sqlite.Open(dsn.SQLite(cfg)), nil
	case "mysql":
		return mysql.Open(dsn.MySQL(cfg)), nil
	case "postgres":
		return postgres.Open(dsn.Postgres(cfg)), nil
	default:
		return nil, errors.Wrap(ErrUnknownEngine, cfg.GormEngine)
	}
}

// Open connects and migrates the audit schema. SQL is logged through zerolog,
// slow statements at warn level.
func Open(cfg config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			stdlogger.New().Named("gorm").WithPrintLevel(zerolog.WarnLevel),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.GormEngine == "sqlite" || cfg.GormEngine == "" {
		// sqlite allows a single writer
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err = db.AutoMigrate(&models.SessionEvent{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}

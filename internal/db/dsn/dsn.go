// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg config.DB) string {
	switch cfg.GormEngine {
	case "mysql":
		return MySQL(cfg)
	case "postgres":
		return Postgres(cfg)
	default:
		return SQLite(cfg)
	}
}

// MySQL builds a go-sql-driver DSN.
func MySQL(cfg config.DB) string {
	extras := cfg.Extras
	if extras == "" {
		extras = "parseTime=true"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		extras,
	)
}

// Postgres builds a postgres connection URI.
func Postgres(cfg config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: cfg.Extras,
	}

	if u.RawQuery == "" {
		u.RawQuery = "sslmode=disable"
	}

	return u.String()
}

// SQLite returns the database file, with Extras as query parameters.
func SQLite(cfg config.DB) string {
	p := cfg.Path
	if p == "" {
		p = ":memory:"
	}

	if cfg.Extras != "" {
		sep := "?"
		if strings.Contains(p, "?") {
			sep = "&"
		}

		p += sep + cfg.Extras
	}

	return p
}

package config

import "time"

// DB holds the database configuration of the audit trail and of the sql
// storage backends.
type DB struct {
	Enabled    bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine" json:"gormEngine" validate:"oneof=sqlite mysql postgres"`
	Path       string `mapstructure:"path" toml:"path" json:"path"` // sqlite only
	Extras     string `mapstructure:"extras" toml:"extras" json:"extras"`
	Host       string `mapstructure:"host" toml:"host" json:"host"`
	Port       int    `mapstructure:"port" toml:"port" json:"port"`
	User       string `mapstructure:"user" toml:"user" json:"user"`
	Password   string `mapstructure:"password" toml:"password" json:"-"`
	Name       string `mapstructure:"name" toml:"name" json:"name"`

	// Retention of session events; older rows are pruned on PruneSchedule. Zero keeps everything.
	Retention     time.Duration `mapstructure:"retention" toml:"retention" json:"retention"`
	PruneSchedule string        `mapstructure:"pruneSchedule" toml:"pruneSchedule" json:"pruneSchedule"`
}

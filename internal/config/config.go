// Package config handles input from etc/*.toml files.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvJSON names the environment variable holding a JSON document that is
// merged over the TOML file.
const EnvJSON = "DISHDASH_ADMIN_CONFIG_JSON"

const invalidErrMessage = "invalid config"

// ReadConfig reads main.toml from the directory path.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if override := os.Getenv(EnvJSON); override != "" {
		if err := mergeJSON(v, override); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

func mergeJSON(v *viper.Viper, configAsJSON string) error {
	v.SetConfigType("json")

	if err := v.MergeConfig(strings.NewReader(configAsJSON)); err != nil {
		return errors.Wrap(err, "failed to merge "+EnvJSON)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "DishDash Admin")

	v.SetDefault("webserver.port", 8080)
	v.SetDefault("webserver.shutDownTime", 5)
	v.SetDefault("webserver.session.cookieName", "dishdash_session")
	v.SetDefault("webserver.session.expiry", 24*time.Hour)
	v.SetDefault("webserver.session.hydrateWait", 2*time.Second)
	v.SetDefault("webserver.session.storage", "memory")
	v.SetDefault("webserver.session.table", "console_sessions")
	v.SetDefault("webserver.session.gcInterval", 10*time.Second)
	v.SetDefault("webserver.session.pruneSchedule", "@every 1m")

	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.endpoints.superAdminLogin", "/api/superadmin/login")
	v.SetDefault("upstream.endpoints.restaurantLogin", "/api/restaurant/login")
	v.SetDefault("upstream.endpoints.deliveryLogin", "/api/delivery/login")
	v.SetDefault("upstream.endpoints.genericLogin", "/api/auth/login")
	v.SetDefault("upstream.endpoints.logout", "/api/auth/logout")
	v.SetDefault("upstream.resources.adminAnalytics", "/api/admin/analytics")
	v.SetDefault("upstream.resources.restaurantOrders", "/api/restaurant/orders")
	v.SetDefault("upstream.resources.deliveryAssignments", "/api/delivery/assignments")
	v.SetDefault("upstream.auditPath", "/api/audit/session")

	v.SetDefault("security.noCache", true)
	v.SetDefault("security.beacon", true)
	v.SetDefault("security.idle.timeout", 30*time.Minute)
	v.SetDefault("security.idle.warning", 2*time.Minute)
	v.SetDefault("security.idle.sweepSchedule", "@every 1m")
	v.SetDefault("security.monitor.schedule", "@every 2m")
	v.SetDefault("security.monitor.skew", 5*time.Second)
	v.SetDefault("security.propagation.bus", "memory")
	v.SetDefault("security.propagation.channel", "dishdash-admin:session")
	v.SetDefault("security.propagation.heartbeat", 25*time.Second)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("db.gormEngine", "sqlite")
	v.SetDefault("db.path", "dishdash-admin.db")
	v.SetDefault("db.retention", 30*24*time.Hour)
	v.SetDefault("db.pruneSchedule", "@daily")
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate runs the struct tags and the cross field rules the tags can't express.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	if c.Security.Idle.Enabled && c.Security.Idle.Warning >= c.Security.Idle.Timeout {
		return errors.Wrap(ErrIdleWarning, invalidErrMessage)
	}

	redisNeeded := c.Webserver.Session.Storage == "redis" ||
		(c.Security.Propagation.Enabled && c.Security.Propagation.Bus == "redis")
	if redisNeeded && c.Redis.Host == "" {
		return errors.Wrap(ErrRedisHost, invalidErrMessage)
	}

	switch c.Webserver.Session.Storage {
	case "mysql", "postgres":
		if c.DB.GormEngine != c.Webserver.Session.Storage {
			return errors.Wrap(ErrSQLStorage, invalidErrMessage)
		}
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5
	}

	return nil
}

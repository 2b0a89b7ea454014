package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrIdleWarning error if the idle warning is not shorter than the idle timeout.
	ErrIdleWarning = errors.New("toml config security.idle.warning must be shorter than the timeout")

	// ErrRedisHost error if a redis backed component has no redis host.
	ErrRedisHost = errors.New("toml config redis.host required by the redis storage or bus")

	// ErrSQLStorage error if a sql storage backend does not match db.gormEngine.
	ErrSQLStorage = errors.New("toml config webserver.session.storage needs db.gormEngine of the same kind")
)

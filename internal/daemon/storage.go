package daemon

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	redisstore "github.com/gofiber/storage/redis/v3"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db/dsn"
)

// ErrUnknownStorage is returned for an unsupported session storage.
var ErrUnknownStorage = errors.New("unknown session storage")

// newStorage opens the fiber storage backing the credential store.
func newStorage(cfg *config.Config) (fiber.Storage, error) {
	sess := cfg.Webserver.Session

	switch sess.Storage {
	case "", "memory":
		return memory.New(memory.Config{GCInterval: sess.GCInterval}), nil
	case "redis":
		return redisstore.New(redisstore.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			Database: cfg.Redis.Database,
		}), nil
	case "mysql":
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         sess.Table,
			GCInterval:    sess.GCInterval,
		}), nil
	case "postgres":
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.Postgres(cfg.DB),
			Table:         sess.Table,
			GCInterval:    sess.GCInterval,
		}), nil
	}

	return nil, errors.Wrap(ErrUnknownStorage, sess.Storage)
}

func newRedisClient(cfg config.Redis) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
}

package config

import (
	"time"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode" toml:"devMode" json:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title" toml:"title" json:"title" validate:"required"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver" json:"webserver"`
	Upstream  Upstream   `mapstructure:"upstream" toml:"upstream" json:"upstream"`
	Security  Security   `mapstructure:"security" toml:"security" json:"security"`
	Redis     Redis      `mapstructure:"redis" toml:"redis" json:"redis"`
	DB        DB         `mapstructure:"db" toml:"db" json:"db"`
	Log       logger.Log `mapstructure:"log" toml:"log" json:"log"`
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    `mapstructure:"browseStatic" toml:"browseStatic" json:"browseStatic"`       // static file browsing, development only
	DisableRecover bool    `mapstructure:"disableRecover" toml:"disableRecover" json:"disableRecover"` // disable recover middleware
	Port           int     `mapstructure:"port" toml:"port" json:"port" validate:"min=0,max=65535"`
	ShutDownTime   int     `mapstructure:"shutDownTime" toml:"shutDownTime" json:"shutDownTime"` // seconds
	URL            string  `mapstructure:"url" toml:"url" json:"url"`
	Session        Session `mapstructure:"session" toml:"session" json:"session"`
}

// Session settings of the console session.
type Session struct {
	CookieName  string        `mapstructure:"cookieName" toml:"cookieName" json:"cookieName"`
	Expiry      time.Duration `mapstructure:"expiry" toml:"expiry" json:"expiry"`
	HydrateWait time.Duration `mapstructure:"hydrateWait" toml:"hydrateWait" json:"hydrateWait"`
	// Storage backend of the credential store: memory, redis, mysql or postgres.
	Storage    string        `mapstructure:"storage" toml:"storage" json:"storage" validate:"oneof=memory redis mysql postgres"`
	Table      string        `mapstructure:"table" toml:"table" json:"table"`
	GCInterval time.Duration `mapstructure:"gcInterval" toml:"gcInterval" json:"gcInterval"`
	// PruneSchedule forgets signed-out session contexts of this node.
	PruneSchedule string `mapstructure:"pruneSchedule" toml:"pruneSchedule" json:"pruneSchedule"`
}

// Upstream is the food delivery backend.
type Upstream struct {
	BaseURL   string         `mapstructure:"baseURL" toml:"baseURL" json:"baseURL" validate:"required,url"`
	Timeout   time.Duration  `mapstructure:"timeout" toml:"timeout" json:"timeout" validate:"gt=0"`
	Endpoints auth.Endpoints `mapstructure:"endpoints" toml:"endpoints" json:"endpoints"`
	Resources Resources      `mapstructure:"resources" toml:"resources" json:"resources"`
	AuditPath string         `mapstructure:"auditPath" toml:"auditPath" json:"auditPath"`
}

// Resources are the backend paths read by the console pages.
type Resources struct {
	AdminAnalytics      string `mapstructure:"adminAnalytics" toml:"adminAnalytics" json:"adminAnalytics"`
	RestaurantOrders    string `mapstructure:"restaurantOrders" toml:"restaurantOrders" json:"restaurantOrders"`
	DeliveryAssignments string `mapstructure:"deliveryAssignments" toml:"deliveryAssignments" json:"deliveryAssignments"`
}

// Security toggles the session security bundle.
type Security struct {
	NoCache        bool        `mapstructure:"noCache" toml:"noCache" json:"noCache"`
	Beacon         bool        `mapstructure:"beacon" toml:"beacon" json:"beacon"`
	RevokeOnLogout bool        `mapstructure:"revokeOnLogout" toml:"revokeOnLogout" json:"revokeOnLogout"`
	Idle           Idle        `mapstructure:"idle" toml:"idle" json:"idle"`
	Monitor        Monitor     `mapstructure:"monitor" toml:"monitor" json:"monitor"`
	Propagation    Propagation `mapstructure:"propagation" toml:"propagation" json:"propagation"`
}

// Idle timeout settings.
type Idle struct {
	Enabled       bool          `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Timeout       time.Duration `mapstructure:"timeout" toml:"timeout" json:"timeout"`
	Warning       time.Duration `mapstructure:"warning" toml:"warning" json:"warning"`
	SweepSchedule string        `mapstructure:"sweepSchedule" toml:"sweepSchedule" json:"sweepSchedule"`
}

// Monitor settings of the token expiry monitor.
type Monitor struct {
	Enabled  bool          `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Schedule string        `mapstructure:"schedule" toml:"schedule" json:"schedule"`
	Skew     time.Duration `mapstructure:"skew" toml:"skew" json:"skew"`
}

// Propagation of logins and logouts across tabs and nodes.
type Propagation struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Bus is memory for a single node, redis for a cluster.
	Bus       string        `mapstructure:"bus" toml:"bus" json:"bus" validate:"oneof=memory redis"`
	Channel   string        `mapstructure:"channel" toml:"channel" json:"channel"`
	Heartbeat time.Duration `mapstructure:"heartbeat" toml:"heartbeat" json:"heartbeat"`
}

// Redis connection used by the redis storage backend and the redis bus.
type Redis struct {
	Host     string `mapstructure:"host" toml:"host" json:"host"`
	Port     int    `mapstructure:"port" toml:"port" json:"port"`
	Username string `mapstructure:"username" toml:"username" json:"username"`
	Password string `mapstructure:"password" toml:"password" json:"-"`
	Database int    `mapstructure:"database" toml:"database" json:"database"`
}

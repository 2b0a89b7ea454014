// Package daemon assembles the console node: session storage, backend client,
// auth registry, security jobs and the web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/audit"
	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/broadcast"
	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/db"
	"github.com/DishDash-Admin/DishDash-Admin/internal/logger/adapter/stdlogger"
	"github.com/DishDash-Admin/DishDash-Admin/internal/metrics"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security/tabs"
	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

const defaultPruneSchedule = "@every 1m"

// registerer receives the session collectors.
var registerer prometheus.Registerer = prometheus.DefaultRegisterer

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	storage    fiber.Storage
	registry   *auth.Registry
	bus        broadcast.Bus
	hub        *tabs.Hub
	idle       *security.IdleTracker
	recorder   *audit.Recorder
	cron       *cron.Cron
}

// Start runs the background jobs and serves http until a shutdown signal arrives.
func (d *Daemon) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := d.bus.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("session bus stopped")
		}
	}()

	d.cron.Start()

	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	cancel()
	d.close()

	return err
}

func (d *Daemon) close() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}

	if d.hub != nil {
		d.hub.Close()
	}

	if d.bus != nil {
		if err := d.bus.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close session bus")
		}
	}

	if d.recorder != nil {
		d.recorder.Close()
	}

	if err := d.storage.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close session storage")
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (_ *Daemon, err error) {
	if cfg == nil {
		return nil, handler.ErrNilDeps
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:     cfg,
		storage: storage,
		hub:     tabs.NewHub(),
		idle:    security.NewIdleTracker(cfg.Security.Idle.Timeout, cfg.Security.Idle.Warning),
	}

	defer func() {
		if err != nil {
			d.close()
		}
	}()

	store, err := credential.New(storage, cfg.Webserver.Session.Expiry)
	if err != nil {
		return nil, err
	}

	client, err := upstream.New(upstream.Config{BaseURL: cfg.Upstream.BaseURL, Timeout: cfg.Upstream.Timeout})
	if err != nil {
		return nil, err
	}

	d.registry = auth.NewRegistry(store, client, cfg.Upstream.Endpoints)

	deps := &handler.Deps{
		Cfg:      cfg,
		Registry: d.registry,
		Session: &sessionctx.Config{
			Registry:    d.registry,
			CookieName:  cfg.Webserver.Session.CookieName,
			Secure:      !cfg.DevMode,
			MaxAge:      cfg.Webserver.Session.Expiry,
			HydrateWait: cfg.Webserver.Session.HydrateWait,
		},
		Revoker: security.NewRevoker(client, cfg.Upstream.Endpoints.Logout),
		Metrics: metrics.NewSession(registerer, d.registry.Len),
	}

	d.registry.AddObserver(deps.Metrics)

	d.bus = d.newBus()

	if cfg.DB.Enabled {
		if d.recorder, err = openAudit(cfg.DB, d.bus.Origin()); err != nil {
			return nil, err
		}

		deps.Audit = d.recorder
		d.registry.AddObserver(d.recorder)
	}

	d.registry.AddObserver(security.NewPropagator(d.bus, d.registry, d.hub))

	if cfg.Security.Idle.Enabled {
		d.registry.AddObserver(d.idle)
	}

	if d.cron, err = d.newCron(); err != nil {
		return nil, err
	}

	if d.webService, err = web.New(cfg, deps, web.Session{Hub: d.hub, Idle: d.idle}); err != nil {
		return nil, err
	}

	log.Info().
		Str("storage", cfg.Webserver.Session.Storage).
		Str("upstream", cfg.Upstream.BaseURL).
		Bool("audit", cfg.DB.Enabled).
		Msg("console node assembled")

	return d, nil
}

func openAudit(cfg config.DB, node string) (*audit.Recorder, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	return audit.NewRecorder(gdb, node)
}

// newBus is a node local bus unless redis propagation is configured.
func (d *Daemon) newBus() broadcast.Bus {
	p := d.cfg.Security.Propagation
	if p.Enabled && p.Bus == "redis" {
		return broadcast.NewRedisBus(newRedisClient(d.cfg.Redis), p.Channel)
	}

	return broadcast.NewMemoryBus()
}

// pruneContexts drops signed-out contexts, which the idle sweep does not cover when idle is off.
func (d *Daemon) pruneContexts() {
	if n := d.registry.Prune(); n > 0 {
		log.Debug().Int("dropped", n).Msg("signed-out session contexts pruned")
	}
}

func (d *Daemon) newCron() (*cron.Cron, error) {
	l := cron.PrintfLogger(stdlogger.New().Named("cron"))
	c := cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l)))

	sec := d.cfg.Security

	prune := d.cfg.Webserver.Session.PruneSchedule
	if prune == "" {
		prune = defaultPruneSchedule
	}

	if _, err := c.AddFunc(prune, d.pruneContexts); err != nil {
		return nil, fmt.Errorf("session prune schedule: %w", err)
	}

	if sec.Idle.Enabled {
		if _, err := c.AddFunc(sec.Idle.SweepSchedule, func() { d.idle.Sweep(d.registry) }); err != nil {
			return nil, fmt.Errorf("idle sweep schedule: %w", err)
		}
	}

	if sec.Monitor.Enabled {
		m := security.NewMonitor(d.registry, sec.Monitor.Skew)
		if _, err := c.AddFunc(sec.Monitor.Schedule, m.Run); err != nil {
			return nil, fmt.Errorf("token monitor schedule: %w", err)
		}
	}

	if d.recorder != nil && d.cfg.DB.Retention > 0 {
		_, err := c.AddFunc(d.cfg.DB.PruneSchedule, func() {
			n, err := d.recorder.Prune(d.cfg.DB.Retention)
			if err != nil {
				log.Error().Err(err).Msg("failed to prune session events")

				return
			}

			log.Debug().Int64("rows", n).Msg("session events pruned")
		})
		if err != nil {
			return nil, fmt.Errorf("prune schedule: %w", err)
		}
	}

	return c, nil
}

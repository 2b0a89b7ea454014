package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	fiberlog "github.com/DishDash-Admin/DishDash-Admin/internal/logger/adapter/fiber"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security/tabs"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/dashboard"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/login"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/logout"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/orders"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/unauthorized"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/guard"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// ErrNilHub is returned when no tab hub is given.
var ErrNilHub = errors.New("tab hub cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	deps         *handler.Deps
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the http server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers the load balancer health check.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// Session holds the per node session services served next to the pages.
type Session struct {
	Hub  *tabs.Hub
	Idle *security.IdleTracker
}

func newEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("money", func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	})

	return templateEngine
}

// New creates the console web service.
func New(cfg *config.Config, deps *handler.Deps, sess Session) (*Service, error) {
	if cfg == nil || !deps.Valid() {
		return nil, handler.ErrNilDeps
	}

	if sess.Hub == nil {
		return nil, ErrNilHub
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           cfg.Title,
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             newEngine(cfg),
			PassLocalsToViews: true,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
		deps:         deps,
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: routes.CheckAlive,
		Enrich: func(c *fiber.Ctx, e *zerolog.Event) {
			if u, ok := c.Locals(sessionctx.CurrentUserKey).(*identity.User); ok && u != nil {
				e.Str("role", u.Role.String())
			}
		},
	}))

	app.Use(routes.Static,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Get(routes.CheckAlive, service.CheckAlive)
	app.Get(routes.Metrics, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(sessionctx.New(*deps.Session))

	if cfg.Security.NoCache {
		app.Use(security.NoCache())
	}

	if cfg.Security.Idle.Enabled && sess.Idle != nil {
		app.Use(sess.Idle.Middleware())
		app.Post(routes.SessionKeepAlive, sess.Idle.KeepAlive)
	}

	if cfg.Security.Beacon {
		beacon := security.BeaconConfig{
			Store:     deps.Registry.Store(),
			AuditPath: cfg.Upstream.AuditPath,
		}

		if deps.Audit != nil {
			beacon.Sink = deps.Audit
		}

		app.Post(routes.SessionBeacon, security.Beacon(beacon))
	}

	app.Get(routes.SessionEvents, sess.Hub.Handler(cfg.Security.Propagation.Heartbeat))

	services := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&dashboard.Handler,
		&orders.Handler,
		&unauthorized.Handler,
	}

	for _, h := range services {
		if err := h.Init(app, deps); err != nil {
			return nil, err
		}
	}

	app.Get(handler.RootPath, guard.Public(""), func(c *fiber.Ctx) error {
		return c.Redirect(routes.RestaurantLogin)
	})

	return service, nil
}

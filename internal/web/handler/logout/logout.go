// Package logout ends console sessions.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init registers GET and POST /logout.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(routes.Logout, s.Logout)
	app.Post(routes.Logout, s.Logout)

	return nil
}

// Logout ends the session of the request. Every cleanup step runs even when
// an earlier one fails, and the browser always ends on a login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	actx := sessionctx.FromCtx(c)

	s.deps.Session.ClearCookie(c)
	security.ClearSiteData(c)

	if actx == nil {
		return c.Redirect(routes.LoginPath(routes.AreaRole(security.RefererPath(c))))
	}

	// the page's idle timer may end the session itself
	reason := auth.ReasonUser
	if c.Query("reason") == string(auth.ReasonIdle) {
		reason = auth.ReasonIdle
	}

	sid := actx.SessionID()
	token, err := actx.Token()
	if err != nil {
		// revocation is skipped, the remaining steps still run
		log.Warn().Err(err).Msg("failed to read token for revocation")
	}

	target := routes.LoginPath(routes.AreaRole(security.RefererPath(c)))

	security.RunSteps("logout",
		security.Step{Name: "revoke", Run: func() error {
			if s.deps.Cfg.Security.RevokeOnLogout {
				s.deps.Revoker.Revoke(token)
			}

			return nil
		}},
		security.Step{Name: "purge", Run: func() error {
			_, err := s.deps.Registry.Store().PurgeTemp(sid)

			return err
		}},
		security.Step{Name: "logout", Run: func() error {
			if reason == auth.ReasonUser {
				target = actx.Logout("")
			} else {
				target = actx.ForceLogout(reason)
			}

			return nil
		}},
		security.Step{Name: "drop", Run: func() error {
			s.deps.Registry.Drop(sid)

			return nil
		}},
	)

	if reason != auth.ReasonUser {
		target = routes.WithReason(target, string(reason))
	}

	return c.Redirect(target)
}

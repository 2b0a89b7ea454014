// Package guard gates console routes on the session's authentication state.
//
// Protected lets a request through only for an authenticated user with an
// allowed role. Public lets a request through only when nobody is signed in,
// so signed-in users never see a login page again. While the session is still
// being restored from storage, both render a small placeholder that refreshes
// itself.
//
// Guards read session state and never change it.
//
// Usage:
//
//	app.Get(routes.RestaurantOrders, guard.Protected(identity.RoleRestaurant), orders.Get)
//	app.Get(routes.RestaurantLogin, guard.Public(routes.RestaurantDashboard), login.Get)
package guard

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

const (
	// LoadingTemplate is rendered while a session is hydrating.
	LoadingTemplate = "loading"

	// refreshAfter is the Refresh header value of the placeholder, in seconds.
	refreshAfter = "1"
)

// Protected requires a signed-in user. With roles given, the user's role must be one of them.
func Protected(roles ...identity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx := sessionctx.FromCtx(c)

		if actx != nil && actx.Loading() {
			return renderLoading(c)
		}

		var user *identity.User
		if actx != nil {
			user = actx.User()
		}

		if user == nil {
			return c.Redirect(routes.LoginPath(routes.AreaRole(c.Path())))
		}

		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			log.Debug().Str("path", c.Path()).Str("role", user.Role.String()).Msg("role not allowed")

			return c.Redirect(routes.Unauthorized)
		}

		return c.Next()
	}
}

// Public lets only signed-out visitors through. Signed-in users are sent to
// their role dashboard; roles without one go to defaultPath.
func Public(defaultPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx := sessionctx.FromCtx(c)
		if actx == nil {
			return c.Next()
		}

		if actx.Loading() {
			return renderLoading(c)
		}

		user := actx.User()
		if user == nil {
			return c.Next()
		}

		return c.Redirect(routes.LandingPath(user.Role, defaultPath))
	}
}

func renderLoading(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set("Refresh", refreshAfter)

	return c.Render(LoadingTemplate, fiber.Map{
		"Target": c.OriginalURL(),
	})
}

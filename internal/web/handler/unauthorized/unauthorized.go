// Package unauthorized renders the page shown when a role may not open a page.
package unauthorized

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/guard"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/navigation"
)

// TemplateName is the name of the unauthorized template.
const TemplateName = "unauthorized"

// Service is the unauthorized handler service.
type Service struct {
	handler.Service
}

// Handler is the unauthorized handler.
var Handler = Service{}

// Init registers the page for any signed-in role.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	app.Get(routes.Unauthorized, guard.Protected(), s.Get)

	return nil
}

// Get renders the page with a link back to the user's own landing page.
func (s *Service) Get(c *fiber.Ctx) error {
	user := sessionctx.FromCtx(c).User()

	nav := navigation.NewContext("Access denied", "", "").ForRole(user.Role)

	return c.Status(fiber.StatusForbidden).Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Home":       routes.LandingPath(user.Role, ""),
	}, handler.BaseLayout)
}

// Package dashboard provides the landing pages of the three console roles.
package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/guard"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/navigation"
)

const (
	// AdminTemplate is the super-admin dashboard template.
	AdminTemplate = "dashboard/admin"
	// RestaurantTemplate is the restaurant dashboard template.
	RestaurantTemplate = "dashboard/restaurant"
	// DeliveryTemplate is the delivery partner dashboard template.
	DeliveryTemplate = "dashboard/delivery"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init registers one dashboard per role.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(routes.AdminDashboard, guard.Protected(identity.RoleSuperAdmin), s.Admin)
	app.Get(routes.RestaurantDashboard, guard.Protected(identity.RoleRestaurant), s.Restaurant)
	app.Get(routes.DeliveryDashboard, guard.Protected(identity.RoleDelivery), s.Delivery)

	return nil
}

func navFor(role identity.Role, title string) *navigation.Context {
	return navigation.NewContext(title, navigation.SectionDashboard, "overview").
		AddBreadcrumb("Home", routes.DashboardPath(role), false).
		AddBreadcrumb(title, routes.DashboardPath(role), true).
		ForRole(role)
}

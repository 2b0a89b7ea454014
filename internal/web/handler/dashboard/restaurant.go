package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/orders"
)

const latestOrders = 5

// StatusCount is the number of orders in one state.
type StatusCount struct {
	Status string
	Count  int
}

// RestaurantData is rendered on the restaurant dashboard.
type RestaurantData struct {
	Restaurant  string
	TotalOrders int
	Revenue     float64
	ByStatus    []StatusCount
	Latest      []orders.Order
}

// Restaurant renders the order summary of the signed-in restaurant.
func (s *Service) Restaurant(c *fiber.Ctx) error {
	nav := navFor(identity.RoleRestaurant, "Restaurant overview")

	data, err := handler.Fetch[any](c, s.deps.Cfg.Upstream.Resources.RestaurantOrders)
	if err != nil {
		return handler.UpstreamFailure(c, s.deps, nav, err)
	}

	out := Summarize(orders.Decode(data))

	if u := currentUser(c); u != nil {
		out.Restaurant = u.RestaurantName
	}

	return c.Render(RestaurantTemplate, fiber.Map{
		"Navigation": nav,
		"Data":       out,
	}, handler.BaseLayout)
}

// Summarize counts orders per state, sums the revenue of non cancelled orders
// and keeps the most recent ones.
func Summarize(list []orders.Order) RestaurantData {
	out := RestaurantData{TotalOrders: len(list)}

	counts := map[string]int{}

	for _, o := range list {
		counts[o.Status]++

		if o.Status != "cancelled" {
			out.Revenue += o.Total
		}
	}

	for _, st := range orders.Statuses(list) {
		out.ByStatus = append(out.ByStatus, StatusCount{Status: st, Count: counts[st]})
	}

	latest := append([]orders.Order(nil), list...)
	orders.Sort(latest, "created", "desc")
	out.Latest, _, _ = orders.Paginate(latest, 1, latestOrders)

	return out
}

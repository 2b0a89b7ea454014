package dashboard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// Assignment is one delivery job of the partner.
type Assignment struct {
	ID         string
	OrderID    string
	Restaurant string
	Address    string
	Status     string
	ETA        string
}

// DeliveryData is rendered on the delivery partner dashboard.
type DeliveryData struct {
	Partner   string
	Active    []Assignment
	Completed int
}

var finished = map[string]bool{"delivered": true, "cancelled": true, "completed": true}

// Delivery renders the assignments of the signed-in partner.
func (s *Service) Delivery(c *fiber.Ctx) error {
	nav := navFor(identity.RoleDelivery, "My deliveries")

	data, err := handler.Fetch[any](c, s.deps.Cfg.Upstream.Resources.DeliveryAssignments)
	if err != nil {
		return handler.UpstreamFailure(c, s.deps, nav, err)
	}

	out := DeliveryData{}

	for _, a := range Assignments(data) {
		if finished[a.Status] {
			out.Completed++

			continue
		}

		out.Active = append(out.Active, a)
	}

	if u := currentUser(c); u != nil {
		out.Partner = u.DisplayName()
	}

	return c.Render(DeliveryTemplate, fiber.Map{
		"Navigation": nav,
		"Data":       out,
	}, handler.BaseLayout)
}

// Assignments reads the backend data, which is either a list or an object with
// an "assignments" list.
func Assignments(data any) []Assignment {
	var list []any

	switch v := data.(type) {
	case []any:
		list = v
	case map[string]any:
		list = cast.ToSlice(v["assignments"])
	}

	out := make([]Assignment, 0, len(list))

	for _, raw := range list {
		m := cast.ToStringMap(raw)
		if len(m) == 0 {
			continue
		}

		a := Assignment{
			ID:      cast.ToString(m["id"]),
			OrderID: cast.ToString(m["orderId"]),
			Address: cast.ToString(m["address"]),
			Status:  strings.ToLower(cast.ToString(m["status"])),
			ETA:     cast.ToString(m["eta"]),
		}

		if a.ID == "" {
			a.ID = cast.ToString(m["_id"])
		}

		switch r := m["restaurant"].(type) {
		case map[string]any:
			a.Restaurant = cast.ToString(r["name"])
		default:
			a.Restaurant = cast.ToString(r)
		}

		out = append(out, a)
	}

	return out
}

func currentUser(c *fiber.Ctx) *identity.User {
	if actx := sessionctx.FromCtx(c); actx != nil {
		return actx.User()
	}

	return nil
}

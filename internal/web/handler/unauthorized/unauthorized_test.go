package unauthorized_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/handlertest"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/unauthorized"
)

func TestGet(t *testing.T) {
	tests := []struct {
		role identity.Role
		home string
	}{
		{role: identity.RoleRestaurant, home: routes.RestaurantDashboard},
		{role: identity.RoleDelivery, home: routes.DeliveryDashboard},
		{role: identity.RoleCustomer, home: routes.AdminDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			env := handlertest.New(t)
			env.SignIn(t, "sid-1", &identity.User{ID: "u", Role: tt.role})

			app := env.App(t, &unauthorized.Service{})

			req := httptest.NewRequest(fiber.MethodGet, routes.Unauthorized, nil)
			req.AddCookie(handlertest.Cookie("sid-1"))

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

			body := handlertest.Body(t, resp)
			assert.Contains(t, body, unauthorized.TemplateName)
			assert.Contains(t, body, "Home="+tt.home)
		})
	}
}

func TestGetSignedOut(t *testing.T) {
	env := handlertest.New(t)
	app := env.App(t, &unauthorized.Service{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, routes.Unauthorized, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, routes.RestaurantLogin, resp.Header.Get(fiber.HeaderLocation))
}

package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Orders", SectionOrders, "list")

	assert.Equal(t, "Orders", ctx.PageTitle)
	assert.Equal(t, SectionOrders, ctx.ActiveSection)
	assert.Equal(t, "list", ctx.ActivePage)
	assert.Empty(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Menu)
}

func TestBreadcrumbs(t *testing.T) {
	ctx := NewContext("Orders", SectionOrders, "list").
		AddBreadcrumb("Home", routes.RestaurantDashboard, false).
		AddBreadcrumb("Orders", routes.RestaurantOrders, true)

	assert.Equal(t, []BreadcrumbItem{
		{Title: "Home", URL: routes.RestaurantDashboard},
		{Title: "Orders", URL: routes.RestaurantOrders, Active: true},
	}, ctx.Breadcrumbs)
}

func TestForRole(t *testing.T) {
	tests := []struct {
		role identity.Role
		want []string
	}{
		{identity.RoleSuperAdmin, []string{routes.AdminDashboard, routes.Logout}},
		{identity.RoleRestaurant, []string{routes.RestaurantDashboard, routes.RestaurantOrders, routes.Logout}},
		{identity.RoleDelivery, []string{routes.DeliveryDashboard, routes.Logout}},
		{identity.RoleCustomer, []string{routes.Logout}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			ctx := NewContext("x", SectionDashboard, "index").ForRole(tt.role)

			urls := make([]string, 0, len(ctx.Menu))
			for _, m := range ctx.Menu {
				urls = append(urls, m.URL)
			}

			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestForRoleMarksActiveSection(t *testing.T) {
	ctx := NewContext("Orders", SectionOrders, "list").ForRole(identity.RoleRestaurant)

	for _, m := range ctx.Menu {
		assert.Equal(t, m.Section == SectionOrders, m.Active, m.Title)
	}

	// calling twice does not duplicate entries
	assert.Len(t, ctx.ForRole(identity.RoleRestaurant).Menu, 3)
}

func TestIsActive(t *testing.T) {
	ctx := NewContext("Dashboard", SectionDashboard, "index")

	assert.True(t, ctx.IsActive(SectionDashboard, "index"))
	assert.False(t, ctx.IsActive(SectionDashboard, "other"))
	assert.False(t, ctx.IsActive(SectionOrders, "index"))
	assert.True(t, ctx.IsSectionActive(SectionDashboard))
	assert.False(t, ctx.IsSectionActive(SectionOrders))
}

// Package routes is the one place that maps roles to console paths.
// Guards, the upstream 401 interceptor and logout all consult it.
package routes

import (
	"net/url"
	"strings"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
)

const (
	// AdminLogin is the super-admin login page.
	AdminLogin = "/admin/login"
	// RestaurantLogin is the restaurant owner login page.
	RestaurantLogin = "/restaurant/login"
	// DeliveryLogin is the delivery partner login page.
	DeliveryLogin = "/delivery/login"

	// AdminDashboard is the super-admin landing page.
	AdminDashboard = "/admin/dashboard"
	// RestaurantDashboard is the restaurant landing page.
	RestaurantDashboard = "/restaurant/dashboard"
	// RestaurantOrders lists the restaurant's orders.
	RestaurantOrders = "/restaurant/orders"
	// DeliveryDashboard is the delivery partner landing page.
	DeliveryDashboard = "/delivery/dashboard"

	// Unauthorized is shown when a role may not open a page.
	Unauthorized = "/unauthorized"
	// Logout ends the session.
	Logout = "/logout"

	// SessionKeepAlive resets the idle countdown.
	SessionKeepAlive = "/session/keepalive"
	// SessionBeacon receives the unload beacon.
	SessionBeacon = "/session/beacon"
	// SessionEvents streams session signals to open tabs.
	SessionEvents = "/session/events"

	// Static serves embedded assets.
	Static = "/static"
	// CheckAlive is the load balancer health check.
	CheckAlive = "/checkalive"
	// Metrics exposes prometheus metrics.
	Metrics = "/metrics"
)

type entry struct {
	login     string
	dashboard string
}

var table = map[identity.Role]entry{
	identity.RoleSuperAdmin: {login: AdminLogin, dashboard: AdminDashboard},
	identity.RoleRestaurant: {login: RestaurantLogin, dashboard: RestaurantDashboard},
	identity.RoleDelivery:   {login: DeliveryLogin, dashboard: DeliveryDashboard},
	identity.RoleCustomer:   {login: RestaurantLogin},
}

// areas maps a path prefix to the role whose login a visitor of that area needs.
var areas = []struct {
	prefix string
	role   identity.Role
}{
	{"/admin", identity.RoleSuperAdmin},
	{"/delivery", identity.RoleDelivery},
}

// LoginPath returns the login page for a role. Unknown roles get the restaurant login.
func LoginPath(r identity.Role) string {
	if e, ok := table[r]; ok && e.login != "" {
		return e.login
	}

	return RestaurantLogin
}

// DashboardPath returns the role's own dashboard, or "" when the role has none.
func DashboardPath(r identity.Role) string {
	return table[r].dashboard
}

// LandingPath returns where an authenticated user should land.
// A role specific dashboard wins over fallback; fallback wins over the admin dashboard.
func LandingPath(r identity.Role, fallback string) string {
	if p := DashboardPath(r); p != "" {
		return p
	}

	if fallback != "" {
		return fallback
	}

	return AdminDashboard
}

// AreaRole guesses the audience of a path when no user is known.
func AreaRole(path string) identity.Role {
	p := strings.ToLower(path)

	for _, a := range areas {
		if p == a.prefix || strings.HasPrefix(p, a.prefix+"/") {
			return a.role
		}
	}

	return identity.RoleRestaurant
}

// IsLoginPath reports whether path is an unauthenticated entry point.
func IsLoginPath(path string) bool {
	return strings.Contains(strings.ToLower(path), "login")
}

// IsPassive reports whether requests to path must not count as user activity.
func IsPassive(path string) bool {
	p := strings.ToLower(path)

	return strings.HasPrefix(p, SessionEvents) ||
		strings.HasPrefix(p, SessionBeacon) ||
		strings.HasPrefix(p, Static) ||
		p == CheckAlive ||
		p == Metrics
}

// WithReason appends a ?reason= parameter the login page shows to the user.
func WithReason(path, reason string) string {
	if reason == "" {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + "reason=" + url.QueryEscape(reason)
}

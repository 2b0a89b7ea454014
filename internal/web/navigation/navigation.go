// Package navigation builds the page title, breadcrumbs and role menu of a console page.
package navigation

import (
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
)

// Sections of the console menu.
const (
	SectionDashboard = "dashboard"
	SectionOrders    = "orders"
	SectionAccount   = "account"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one entry of the side menu.
type MenuItem struct {
	Title   string
	URL     string
	Section string
	Active  bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	Menu          []MenuItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
		Menu:          make([]MenuItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// ForRole fills the menu with the pages role may open.
func (c *Context) ForRole(role identity.Role) *Context {
	c.Menu = c.Menu[:0]

	if p := routes.DashboardPath(role); p != "" {
		c.addMenu("Dashboard", p, SectionDashboard)
	}

	if role == identity.RoleRestaurant {
		c.addMenu("Orders", routes.RestaurantOrders, SectionOrders)
	}

	c.addMenu("Sign out", routes.Logout, SectionAccount)

	return c
}

func (c *Context) addMenu(title, url, section string) {
	c.Menu = append(c.Menu, MenuItem{
		Title:   title,
		URL:     url,
		Section: section,
		Active:  c.IsSectionActive(section),
	})
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

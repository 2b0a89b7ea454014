// Package orders provides the restaurant order list.
package orders

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/guard"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/navigation"
)

const (
	// TemplateName is the name of the orders template.
	TemplateName = "orders/list"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	desc = "desc"
)

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page         int
	PageSize     int
	SearchQuery  string
	FilterStatus string
	SortField    string
	SortOrder    string
}

// PageData is the order list with pagination information.
type PageData struct {
	Orders       []Order
	Statuses     []string
	CurrentPage  int
	PageSize     int
	TotalItems   int
	TotalPages   int
	HasPrevPage  bool
	HasNextPage  bool
	PrevPage     int
	NextPage     int
	SearchQuery  string
	FilterStatus string
	SortField    string
	SortOrder    string
}

// Service is the orders handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the orders handler.
var Handler = Service{}

// Init registers the order list for restaurant owners.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(routes.RestaurantOrders, guard.Protected(identity.RoleRestaurant), s.Get)

	return nil
}

// Get handles the order list rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Orders", navigation.SectionOrders, "list").
		AddBreadcrumb("Home", routes.RestaurantDashboard, false).
		AddBreadcrumb("Orders", routes.RestaurantOrders, true).
		ForRole(identity.RoleRestaurant)

	params := QueryParams{
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery:  c.Query("search", ""),
		FilterStatus: strings.ToLower(c.Query("status", "")),
		SortField:    c.Query("sort", "created"),
		SortOrder:    c.Query("order", desc),
	}

	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = DefaultPageSize
	}

	data, err := handler.Fetch[any](c, s.deps.Cfg.Upstream.Resources.RestaurantOrders)
	if err != nil {
		return handler.UpstreamFailure(c, s.deps, nav, err)
	}

	all := Decode(data)
	statuses := Statuses(all)

	list := Filter(all, params.SearchQuery, params.FilterStatus)
	Sort(list, params.SortField, params.SortOrder)

	paged, totalPages, page := Paginate(list, params.Page, params.PageSize)
	params.Page = page

	log.Debug().
		Int("total_orders", len(all)).
		Int("matching", len(list)).
		Int("page", params.Page).
		Str("status", params.FilterStatus).
		Msg("restaurant orders retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       buildPageData(paged, statuses, len(list), totalPages, &params),
	}, handler.BaseLayout)
}

// Statuses returns the distinct order states, sorted.
func Statuses(list []Order) []string {
	seen := map[string]bool{}
	out := make([]string, 0)

	for _, o := range list {
		if o.Status != "" && !seen[o.Status] {
			seen[o.Status] = true
			out = append(out, o.Status)
		}
	}

	sort.Strings(out)

	return out
}

// Filter applies the search and status filters.
func Filter(list []Order, searchQuery, status string) []Order {
	q := strings.ToLower(searchQuery)
	out := make([]Order, 0, len(list))

	for _, o := range list {
		if status != "" && o.Status != status {
			continue
		}

		if q != "" &&
			!strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.Customer), q) {
			continue
		}

		out = append(out, o)
	}

	return out
}

// Sort sorts orders by created, total, status or customer.
func Sort(list []Order, field, order string) {
	less := map[string]func(a, b Order) bool{
		"created":  func(a, b Order) bool { return a.CreatedAt.Before(b.CreatedAt) },
		"total":    func(a, b Order) bool { return a.Total < b.Total },
		"status":   func(a, b Order) bool { return a.Status < b.Status },
		"customer": func(a, b Order) bool { return strings.ToLower(a.Customer) < strings.ToLower(b.Customer) },
	}[field]

	if less == nil {
		return
	}

	sort.SliceStable(list, func(i, j int) bool {
		if order == desc {
			return less(list[j], list[i])
		}

		return less(list[i], list[j])
	})
}

// Paginate returns one page of orders, the page count and the page actually shown.
// A non-positive pageSize falls back to DefaultPageSize and page starts at 1.
func Paginate(list []Order, page, pageSize int) (paged []Order, totalPages, actualPage int) {
	totalItems := len(list)

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	if page < 1 {
		page = 1
	}

	totalPages = (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	startIdx := (page - 1) * pageSize
	endIdx := min(startIdx+pageSize, totalItems)

	if startIdx < totalItems {
		paged = list[startIdx:endIdx]
	} else {
		paged = []Order{}
	}

	return paged, totalPages, page
}

func buildPageData(list []Order, statuses []string, totalItems, totalPages int, params *QueryParams) PageData {
	return PageData{
		Orders:       list,
		Statuses:     statuses,
		CurrentPage:  params.Page,
		PageSize:     params.PageSize,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		HasPrevPage:  params.Page > 1,
		HasNextPage:  params.Page < totalPages,
		PrevPage:     params.Page - 1,
		NextPage:     params.Page + 1,
		SearchQuery:  params.SearchQuery,
		FilterStatus: params.FilterStatus,
		SortField:    params.SortField,
		SortOrder:    params.SortOrder,
	}
}

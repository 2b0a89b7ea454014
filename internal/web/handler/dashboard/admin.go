package dashboard

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/DishDash-Admin/DishDash-Admin/internal/db/models"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
)

const (
	recentEvents  = 10
	summaryWindow = 24 * time.Hour
)

// Metric is one figure of the platform analytics.
type Metric struct {
	Key   string
	Label string
	Value string
}

// AdminData is rendered on the super-admin dashboard.
type AdminData struct {
	Metrics        []Metric
	ActiveSessions int
	Recent         []models.SessionEvent
	Summary        map[string]int64
	AuditEnabled   bool
}

// Admin renders the platform overview.
func (s *Service) Admin(c *fiber.Ctx) error {
	nav := navFor(identity.RoleSuperAdmin, "Platform overview")

	data, err := handler.Fetch[map[string]any](c, s.deps.Cfg.Upstream.Resources.AdminAnalytics)
	if err != nil {
		return handler.UpstreamFailure(c, s.deps, nav, err)
	}

	out := AdminData{
		Metrics:        Metrics(data),
		ActiveSessions: s.deps.Registry.Len(),
	}

	if s.deps.Audit != nil {
		out.AuditEnabled = true

		if out.Recent, err = s.deps.Audit.Recent(recentEvents); err != nil {
			log.Error().Err(err).Msg("failed to read recent session events")
		}

		if out.Summary, err = s.deps.Audit.Summary(time.Now().Add(-summaryWindow)); err != nil {
			log.Error().Err(err).Msg("failed to summarize session events")
		}
	}

	return c.Render(AdminTemplate, fiber.Map{
		"Navigation": nav,
		"Data":       out,
	}, handler.BaseLayout)
}

// Metrics flattens the analytics object into labelled figures sorted by key.
// Nested objects and lists are skipped.
func Metrics(data map[string]any) []Metric {
	out := make([]Metric, 0, len(data))

	for k, v := range data {
		switch v.(type) {
		case map[string]any, []any, nil:
			continue
		}

		out = append(out, Metric{Key: k, Label: Label(k), Value: cast.ToString(v)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Label turns totalOrders or total_orders into "Total orders".
func Label(key string) string {
	var b strings.Builder

	for i, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && i > 0:
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}

	s := strings.Join(strings.Fields(b.String()), " ")
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

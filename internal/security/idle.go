package security

import (
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

const (
	// IdleTimeoutKey holds the idle timeout in seconds for templates.
	IdleTimeoutKey = "IdleTimeout"
	// IdleWarningKey holds the warning lead time in seconds for templates.
	IdleWarningKey = "IdleWarning"
)

// IdleTracker records the last activity of every signed-in session on this node.
type IdleTracker struct {
	timeout time.Duration
	warning time.Duration
	now     func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// NewIdleTracker creates a tracker. warning is clamped to timeout.
func NewIdleTracker(timeout, warning time.Duration) *IdleTracker {
	if warning > timeout {
		warning = timeout
	}

	return &IdleTracker{
		timeout: timeout,
		warning: warning,
		now:     time.Now,
		last:    make(map[string]time.Time),
	}
}

// Touch records activity for sid.
func (t *IdleTracker) Touch(sid string) {
	t.mu.Lock()
	t.last[sid] = t.now()
	t.mu.Unlock()
}

// Forget drops sid.
func (t *IdleTracker) Forget(sid string) {
	t.mu.Lock()
	delete(t.last, sid)
	t.mu.Unlock()
}

// Remaining returns the time left before sid counts as idle. known is false
// when no activity was recorded yet.
func (t *IdleTracker) Remaining(sid string) (remaining time.Duration, known bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.last[sid]
	if !ok {
		return t.timeout, false
	}

	return t.timeout - t.now().Sub(last), true
}

// Warning reports whether sid is within the warning window.
func (t *IdleTracker) Warning(sid string) bool {
	rem, known := t.Remaining(sid)

	return known && rem > 0 && rem <= t.warning
}

// Expired returns the sessions past the idle timeout.
func (t *IdleTracker) Expired() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	var out []string

	for sid, last := range t.last {
		if now.Sub(last) >= t.timeout {
			out = append(out, sid)
		}
	}

	return out
}

// LoggedIn implements auth.Observer.
func (t *IdleTracker) LoggedIn(ev auth.Event) {
	t.Touch(ev.SessionID)
}

// LoggedOut implements auth.Observer.
func (t *IdleTracker) LoggedOut(ev auth.Event) {
	t.Forget(ev.SessionID)
}

// Middleware records activity of signed-in sessions and ends the ones that went idle.
func (t *IdleTracker) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx := sessionctx.FromCtx(c)
		if actx == nil || actx.User() == nil {
			return c.Next()
		}

		sid := actx.SessionID()

		if rem, known := t.Remaining(sid); known && rem <= 0 {
			target := routes.WithReason(actx.ForceLogout(auth.ReasonIdle), string(auth.ReasonIdle))
			t.Forget(sid)

			log.Info().Str("path", c.Path()).Msg("session ended after inactivity")

			if c.Method() != fiber.MethodGet {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"redirect": target})
			}

			return c.Redirect(target)
		}

		if !routes.IsPassive(c.Path()) {
			t.Touch(sid)
		}

		c.Locals(IdleTimeoutKey, int(t.timeout.Seconds()))
		c.Locals(IdleWarningKey, int(t.warning.Seconds()))

		return c.Next()
	}
}

// KeepAlive answers the confirmed idle prompt. The middleware already reset the countdown.
func (t *IdleTracker) KeepAlive(c *fiber.Ctx) error {
	actx := sessionctx.FromCtx(c)
	if actx == nil || actx.User() == nil {
		target := routes.LoginPath(routes.AreaRole(RefererPath(c)))

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"redirect": target})
	}

	rem, _ := t.Remaining(actx.SessionID())

	return c.JSON(fiber.Map{"remaining": int(rem.Seconds())})
}

// Sweep ends the idle sessions known to reg and forgets contexts that are signed out.
func (t *IdleTracker) Sweep(reg *auth.Registry) {
	expired := t.Expired()

	for _, sid := range expired {
		if actx, ok := reg.Lookup(sid); ok {
			actx.ForceLogout(auth.ReasonIdle)
		}

		t.Forget(sid)
	}

	dropped := reg.Prune()

	if len(expired) > 0 || dropped > 0 {
		log.Debug().Int("idle", len(expired)).Int("dropped", dropped).Msg("session sweep done")
	}
}

// RefererPath returns the path of the Referer header, or "".
func RefererPath(c *fiber.Ctx) string {
	u, err := url.Parse(c.Get(fiber.HeaderReferer))
	if err != nil {
		return ""
	}

	return u.Path
}

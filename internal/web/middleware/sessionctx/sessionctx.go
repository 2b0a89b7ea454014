// Package sessionctx attaches the auth context of the console session to each request.
//
// The session id travels in an HttpOnly cookie. The middleware looks up (or
// creates) the matching auth.Context, hydrates it and stores it in
// fiber.Locals. Downstream guards and handlers only read from there.
package sessionctx

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
)

const (
	// LocalsKey holds the *auth.Context.
	LocalsKey = "AuthContext"

	// CurrentUserKey holds the *identity.User for templates.
	CurrentUserKey = "CurrentUser"

	// DefaultCookieName is the console session cookie.
	DefaultCookieName = "dishdash_session"
)

// Config configures the middleware.
type Config struct {
	Registry *auth.Registry

	CookieName string
	// Secure marks the cookie Secure; disabled in dev mode.
	Secure bool
	// MaxAge of the cookie.
	MaxAge time.Duration

	// HydrateWait bounds how long a request waits for a slow storage backend.
	// When it passes the request continues with a hydrating context.
	// Zero waits until hydration finished.
	HydrateWait time.Duration
}

func (cfg *Config) cookieName() string {
	if cfg.CookieName == "" {
		return DefaultCookieName
	}

	return cfg.CookieName
}

// New creates the middleware.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), routes.Static) {
			return c.Next()
		}

		// the cookie value aliases the request buffer unless the app is Immutable
		sid := utils.CopyString(c.Cookies(cfg.cookieName()))
		if sid == "" {
			return c.Next()
		}

		actx := cfg.Registry.Attach(sid)
		hydrate(actx, cfg.HydrateWait)

		c.Locals(LocalsKey, actx)

		if u := actx.User(); u != nil {
			c.Locals(CurrentUserKey, u)
		}

		return c.Next()
	}
}

func hydrate(actx *auth.Context, wait time.Duration) {
	if !actx.Loading() {
		return
	}

	if wait <= 0 {
		actx.Hydrate()

		return
	}

	done := make(chan struct{})

	go func() {
		actx.Hydrate()
		close(done)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
	}
}

// FromCtx returns the auth context of the request, or nil without a session cookie.
func FromCtx(c *fiber.Ctx) *auth.Context {
	actx, _ := c.Locals(LocalsKey).(*auth.Context)

	return actx
}

// SessionID returns the session id of the request, or "".
func SessionID(c *fiber.Ctx) string {
	if actx := FromCtx(c); actx != nil {
		return actx.SessionID()
	}

	return ""
}

// SetCookie issues the session cookie for sid.
func (cfg *Config) SetCookie(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.cookieName(),
		Value:    sid,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (cfg *Config) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

package security

import (
	"github.com/gofiber/fiber/v2"
)

const (
	noStore = "no-store, no-cache, must-revalidate, max-age=0, private"

	// HeaderClearSiteData asks the browser to drop cached pages.
	HeaderClearSiteData = "Clear-Site-Data"
)

// NoCache marks responses as not cacheable.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setNoCache(c)

		return c.Next()
	}
}

// ClearSiteData marks a logout response so the browser forgets cached console pages.
func ClearSiteData(c *fiber.Ctx) {
	setNoCache(c)
	c.Set(HeaderClearSiteData, `"cache"`)
}

func setNoCache(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, noStore)
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
}

package security

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoCache(t *testing.T) {
	app := fiber.New()
	app.Get("/page", NoCache(), func(c *fiber.Ctx) error { return c.SendString("secret") })
	app.Get("/bye", func(c *fiber.Ctx) error {
		ClearSiteData(c)
		return c.Redirect("/admin/login")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "no-store")
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderPragma))
	assert.Equal(t, "0", resp.Header.Get(fiber.HeaderExpires))
	assert.Empty(t, resp.Header.Get(HeaderClearSiteData))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/bye", nil))
	require.NoError(t, err)
	assert.Equal(t, `"cache"`, resp.Header.Get(HeaderClearSiteData))
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "no-store")
}

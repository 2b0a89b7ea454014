package logout_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/handlertest"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/logout"
)

type outs struct {
	mu     sync.Mutex
	events []auth.Event
}

func (o *outs) LoggedIn(auth.Event) {}

func (o *outs) LoggedOut(ev auth.Event) {
	o.mu.Lock()
	o.events = append(o.events, ev)
	o.mu.Unlock()
}

func request(target, sid, referer string) *http.Request {
	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	if sid != "" {
		req.AddCookie(handlertest.Cookie(sid))
	}

	if referer != "" {
		req.Header.Set(fiber.HeaderReferer, referer)
	}

	return req
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name       string
		role       identity.Role
		target     string
		wantTarget string
		wantReason auth.Reason
	}{
		{name: "restaurant", role: identity.RoleRestaurant, target: routes.Logout, wantTarget: routes.RestaurantLogin, wantReason: auth.ReasonUser},
		{name: "super admin", role: identity.RoleSuperAdmin, target: routes.Logout, wantTarget: routes.AdminLogin, wantReason: auth.ReasonUser},
		{name: "idle", role: identity.RoleDelivery, target: routes.Logout + "?reason=idle", wantTarget: routes.DeliveryLogin + "?reason=idle", wantReason: auth.ReasonIdle},
		{name: "unknown reason is a user logout", role: identity.RoleDelivery, target: routes.Logout + "?reason=remote", wantTarget: routes.DeliveryLogin, wantReason: auth.ReasonUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := handlertest.New(t)
			obs := &outs{}
			env.Registry.AddObserver(obs)
			env.SignIn(t, "sid-1", &identity.User{ID: "1", Role: tt.role})
			require.NoError(t, env.Store.PutTemp("sid-1", "draft", []byte("menu")))

			app := env.App(t, &logout.Service{})

			resp, err := app.Test(request(tt.target, "sid-1", ""))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.wantTarget, resp.Header.Get(fiber.HeaderLocation))
			assert.Equal(t, `"cache"`, resp.Header.Get(security.HeaderClearSiteData))
			assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "no-store")

			cookies := resp.Cookies()
			require.Len(t, cookies, 1)
			assert.Empty(t, cookies[0].Value)

			sess, err := env.Store.Load("sid-1")
			require.NoError(t, err)
			assert.Nil(t, sess)

			draft, err := env.Store.GetTemp("sid-1", "draft")
			require.NoError(t, err)
			assert.Nil(t, draft)

			_, ok := env.Registry.Lookup("sid-1")
			assert.False(t, ok)

			obs.mu.Lock()
			defer obs.mu.Unlock()
			require.Len(t, obs.events, 1)
			assert.Equal(t, tt.wantReason, obs.events[0].Reason)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := handlertest.New(t)
	env.Backend.Handle("/api/auth/logout", http.StatusOK, map[string]any{"success": true})
	env.Deps.Cfg.Security.RevokeOnLogout = true
	env.Deps.Revoker = security.NewRevoker(env.Client, "/api/auth/logout")
	env.SignIn(t, "sid-2", &identity.User{ID: "2", Role: identity.RoleRestaurant})

	app := env.App(t, &logout.Service{})

	_, err := app.Test(request(routes.Logout, "sid-2", ""))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, c := range env.Backend.Calls() {
			if c.Path == "/api/auth/logout" && c.Auth == "Bearer token-sid-2" {
				return true
			}
		}

		return false
	}, 2*time.Second, 10*time.Millisecond)
}

// brokenTokens fails token reads once broken is set.
type brokenTokens struct {
	*memory.Storage
	broken atomic.Bool
}

func (b *brokenTokens) Get(key string) ([]byte, error) {
	if b.broken.Load() && strings.HasPrefix(key, "token:") {
		return nil, errors.New("storage unavailable")
	}

	return b.Storage.Get(key)
}

func TestLogoutTokenReadFailure(t *testing.T) {
	env := handlertest.New(t)
	env.Backend.Handle("/api/auth/logout", http.StatusOK, map[string]any{"success": true})

	storage := &brokenTokens{Storage: memory.New()}
	t.Cleanup(func() { _ = storage.Close() })

	store, err := credential.New(storage, 0)
	require.NoError(t, err)

	reg := auth.NewRegistry(store, env.Client, auth.DefaultEndpoints())
	env.Store, env.Registry = store, reg
	env.Deps.Registry = reg
	env.Deps.Session.Registry = reg
	env.Deps.Cfg.Security.RevokeOnLogout = true
	env.Deps.Revoker = security.NewRevoker(env.Client, "/api/auth/logout")

	env.SignIn(t, "sid-5", &identity.User{ID: "5", Role: identity.RoleRestaurant})
	require.NotNil(t, reg.Get("sid-5").User())

	buf := &bytes.Buffer{}
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	storage.broken.Store(true)

	app := env.App(t, &logout.Service{})

	resp, err := app.Test(request(routes.Logout, "sid-5", "/restaurant/orders"))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, routes.LoginPath(identity.RoleRestaurant), resp.Header.Get(fiber.HeaderLocation))
	assert.Contains(t, buf.String(), "failed to read token for revocation")
	assert.Contains(t, buf.String(), "storage unavailable")

	_, ok := reg.Lookup("sid-5")
	assert.False(t, ok)

	assert.Never(t, func() bool {
		for _, c := range env.Backend.Calls() {
			if c.Path == "/api/auth/logout" {
				return true
			}
		}

		return false
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestLogoutWithoutSession(t *testing.T) {
	env := handlertest.New(t)
	app := env.App(t, &logout.Service{})

	resp, err := app.Test(request(routes.Logout, "", "https://console.test/admin/dashboard"))
	require.NoError(t, err)
	assert.Equal(t, routes.AdminLogin, resp.Header.Get(fiber.HeaderLocation))

	resp, err = app.Test(request(routes.Logout, "", ""))
	require.NoError(t, err)
	assert.Equal(t, routes.RestaurantLogin, resp.Header.Get(fiber.HeaderLocation))
}

func TestLogoutTwice(t *testing.T) {
	env := handlertest.New(t)
	obs := &outs{}
	env.Registry.AddObserver(obs)
	env.SignIn(t, "sid-3", &identity.User{ID: "3", Role: identity.RoleSuperAdmin})

	app := env.App(t, &logout.Service{})

	for range 2 {
		resp, err := app.Test(request(routes.Logout, "sid-3", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Len(t, obs.events, 1)
}

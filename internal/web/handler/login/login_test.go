package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/handlertest"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler/login"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

func postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

func creds(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == sessionctx.DefaultCookieName {
			return c
		}
	}

	return nil
}

func TestGet(t *testing.T) {
	env := handlertest.New(t)
	app := env.App(t, &login.Service{})

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{name: "admin", target: routes.AdminLogin, want: []string{"login", "Action=/admin/login", "Role=super_admin", "Customers=false"}},
		{name: "restaurant", target: routes.RestaurantLogin, want: []string{"Action=/restaurant/login", "Customers=true"}},
		{name: "delivery", target: routes.DeliveryLogin, want: []string{"Action=/delivery/login", "Role=delivery"}},
		{name: "idle notice", target: routes.RestaurantLogin + "?reason=idle", want: []string{"Notice=You were signed out after a period of inactivity."}},
		{name: "unknown reason", target: routes.RestaurantLogin + "?reason=bogus", want: []string{"Notice=\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			body := handlertest.Body(t, resp)
			for _, w := range tt.want {
				assert.Contains(t, body, w)
			}
		})
	}
}

func TestPostSuccess(t *testing.T) {
	env := handlertest.New(t)
	env.Backend.Handle("/api/restaurant/login", http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"id":         7,
			"name":       "Marco",
			"restaurant": map[string]any{"name": "Trattoria"},
			"token":      "tok-7",
		},
	})

	app := env.App(t, &login.Service{})

	resp, err := app.Test(postForm(routes.RestaurantLogin, creds("marco@trattoria.test", "pizza")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, routes.RestaurantDashboard, resp.Header.Get(fiber.HeaderLocation))

	c := sessionCookie(resp)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)

	token, err := env.Store.Token(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "tok-7", token)

	actx, ok := env.Registry.Lookup(c.Value)
	require.True(t, ok)
	assert.Equal(t, identity.RoleRestaurant, actx.User().Role)

	calls := env.Backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "marco@trattoria.test", calls[0].Body["email"])
	assert.Empty(t, calls[0].Auth)
}

func TestPostIssuesFreshSession(t *testing.T) {
	env := handlertest.New(t)
	env.Backend.Handle("/api/delivery/login", http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"id": "d1", "token": "tok-d1"},
	})

	app := env.App(t, &login.Service{})

	// a stale, signed-out session cookie
	env.Registry.Get("stale-sid")

	resp, err := app.Test(postForm(routes.DeliveryLogin, creds("rider@dishdash.test", "bike"), handlertest.Cookie("stale-sid")))
	require.NoError(t, err)
	assert.Equal(t, routes.DeliveryDashboard, resp.Header.Get(fiber.HeaderLocation))

	c := sessionCookie(resp)
	require.NotNil(t, c)
	assert.NotEqual(t, "stale-sid", c.Value)

	_, ok := env.Registry.Lookup("stale-sid")
	assert.False(t, ok)
}

func TestPostCustomer(t *testing.T) {
	env := handlertest.New(t)
	env.Backend.Handle("/api/auth/login", http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"id": "c1", "token": "tok-c1"},
	})

	app := env.App(t, &login.Service{})

	form := creds("eve@dishdash.test", "salad")
	form.Set("role", "customer")

	resp, err := app.Test(postForm(routes.RestaurantLogin, form))
	require.NoError(t, err)
	assert.Equal(t, routes.AdminDashboard, resp.Header.Get(fiber.HeaderLocation))

	calls := env.Backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/auth/login", calls[0].Path)
	assert.Equal(t, "customer", calls[0].Body["role"])
}

func TestPostFailures(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		form       url.Values
		backend    func(b *handlertest.Backend)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing password",
			path:       routes.AdminLogin,
			form:       url.Values{"email": {"root@dishdash.test"}},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "error=Please enter a valid email and password.",
		},
		{
			name:       "bad email",
			path:       routes.AdminLogin,
			form:       creds("not-an-email", "x"),
			wantStatus: fiber.StatusBadRequest,
			wantError:  "error=Please enter a valid email and password.",
		},
		{
			name: "role not served by page",
			path: routes.DeliveryLogin,
			form: func() url.Values {
				f := creds("x@dishdash.test", "x")
				f.Set("role", "customer")

				return f
			}(),
			wantStatus: fiber.StatusBadRequest,
			wantError:  "error=This sign in page does not serve that account type.",
		},
		{
			name: "rejected with backend message",
			path: routes.AdminLogin,
			form: creds("root@dishdash.test", "wrong"),
			backend: func(b *handlertest.Backend) {
				b.Handle("/api/superadmin/login", http.StatusUnauthorized, map[string]any{"success": false, "message": "Wrong password"})
			},
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "error=Wrong password",
		},
		{
			name: "success false",
			path: routes.AdminLogin,
			form: creds("root@dishdash.test", "wrong"),
			backend: func(b *handlertest.Backend) {
				b.Handle("/api/superadmin/login", http.StatusOK, map[string]any{"success": false, "message": "Account locked"})
			},
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "error=Account locked",
		},
		{
			name: "no token",
			path: routes.AdminLogin,
			form: creds("root@dishdash.test", "pw"),
			backend: func(b *handlertest.Backend) {
				b.Handle("/api/superadmin/login", http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 1}})
			},
			wantStatus: fiber.StatusBadGateway,
			wantError:  "error=Unexpected response from the server.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := handlertest.New(t)
			if tt.backend != nil {
				tt.backend(env.Backend)
			}

			app := env.App(t, &login.Service{})

			resp, err := app.Test(postForm(tt.path, tt.form))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, handlertest.Body(t, resp), tt.wantError)
			assert.Nil(t, sessionCookie(resp))
			assert.Zero(t, env.Registry.Len())
		})
	}
}

func TestSignedInUserSkipsLogin(t *testing.T) {
	env := handlertest.New(t)
	env.SignIn(t, "sid-1", &identity.User{ID: "1", Role: identity.RoleSuperAdmin})

	app := env.App(t, &login.Service{})

	req := httptest.NewRequest(fiber.MethodGet, routes.RestaurantLogin, nil)
	req.AddCookie(handlertest.Cookie("sid-1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, routes.AdminDashboard, resp.Header.Get(fiber.HeaderLocation))
}

func TestInitNilDeps(t *testing.T) {
	require.Error(t, (&login.Service{}).Init(fiber.New(), nil))
}

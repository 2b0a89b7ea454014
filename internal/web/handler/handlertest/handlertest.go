// Package handlertest provides the fixture shared by the console handler tests:
// a mock backend, an in-memory session store and a view engine that prints the
// template name and bind data.
package handlertest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// Views writes "name" on the first line followed by one "key=value" line per
// bind entry, sorted by key. The auth context local is left out.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = fmt.Fprintln(w, name)

	m, ok := data.(fiber.Map)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if k != sessionctx.LocalsKey {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%s=%+v\n", k, m[k])
	}

	return nil
}

// Call is one request seen by the backend.
type Call struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// Backend is the mock food delivery backend.
type Backend struct {
	URL string

	mux   *http.ServeMux
	mu    sync.Mutex
	calls []Call
}

// Handle registers a JSON answer for pattern.
func (b *Backend) Handle(pattern string, status int, body any) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// Calls returns the requests received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Call(nil), b.calls...)
}

// Env is a console node wired against the mock backend.
type Env struct {
	Backend  *Backend
	Storage  *memory.Storage
	Store    *credential.Store
	Client   *upstream.Client
	Registry *auth.Registry
	Deps     *handler.Deps
}

// New creates an Env with the default console config.
func New(t *testing.T) *Env {
	t.Helper()

	b := &Backend{mux: http.NewServeMux()}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
		b.mu.Unlock()

		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	b.URL = srv.URL

	storage := memory.New()
	t.Cleanup(func() { _ = storage.Close() })

	store, err := credential.New(storage, 0)
	require.NoError(t, err)

	client, err := upstream.New(upstream.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	reg := auth.NewRegistry(store, client, auth.DefaultEndpoints())

	cfg := &config.Config{
		Title: "DishDash Admin",
		Upstream: config.Upstream{
			BaseURL:   srv.URL,
			Endpoints: auth.DefaultEndpoints(),
			Resources: config.Resources{
				AdminAnalytics:      "/api/admin/analytics",
				RestaurantOrders:    "/api/restaurant/orders",
				DeliveryAssignments: "/api/delivery/assignments",
			},
			AuditPath: "/api/audit/session",
		},
	}

	return &Env{
		Backend:  b,
		Storage:  storage,
		Store:    store,
		Client:   client,
		Registry: reg,
		Deps: &handler.Deps{
			Cfg:      cfg,
			Registry: reg,
			Session:  &sessionctx.Config{Registry: reg},
		},
	}
}

// SignIn stores a session for sid as if a login had happened earlier.
func (e *Env) SignIn(t *testing.T, sid string, user *identity.User) {
	t.Helper()

	require.NoError(t, e.Store.Save(sid, "token-"+sid, user))
}

// App builds a fiber app with the session middleware and the given handlers.
func (e *Env) App(t *testing.T, services ...handler.Service) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{Views: Views{}, PassLocalsToViews: true})
	app.Use(sessionctx.New(*e.Deps.Session))

	for _, s := range services {
		require.NoError(t, s.Init(app, e.Deps))
	}

	return app
}

// Cookie is the session cookie for sid.
func Cookie(sid string) *http.Cookie {
	return &http.Cookie{Name: sessionctx.DefaultCookieName, Value: sid}
}

// Body reads the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

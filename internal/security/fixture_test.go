package security

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

type backendCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type node struct {
	storage  *memory.Storage
	store    *credential.Store
	client   *upstream.Client
	registry *auth.Registry
	calls    chan backendCall
}

func newNode(t *testing.T, storage *memory.Storage) *node {
	t.Helper()

	if storage == nil {
		storage = memory.New()
	}

	n := &node{storage: storage, calls: make(chan backendCall, 16)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		n.calls <- backendCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body}

		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	var err error

	n.store, err = credential.New(storage, 0)
	require.NoError(t, err)

	n.client, err = upstream.New(upstream.Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	n.registry = auth.NewRegistry(n.store, n.client, auth.DefaultEndpoints())

	return n
}

func (n *node) signIn(t *testing.T, sid, token string, role identity.Role) *auth.Context {
	t.Helper()

	require.NoError(t, n.store.Save(sid, token, &identity.User{ID: "u-" + sid, Role: role}))

	return n.registry.Get(sid)
}

func (n *node) nextCall(t *testing.T) backendCall {
	t.Helper()

	select {
	case c := <-n.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("backend was not called")
	}

	return backendCall{}
}

func (n *node) app(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(sessionctx.New(sessionctx.Config{Registry: n.registry}))

	for _, h := range handlers {
		app.Use(h)
	}

	return app
}

func cookie(sid string) *http.Cookie {
	return &http.Cookie{Name: sessionctx.DefaultCookieName, Value: sid}
}

type recorder struct {
	mu   sync.Mutex
	ins  []auth.Event
	outs []auth.Event
}

func (r *recorder) LoggedIn(ev auth.Event) {
	r.mu.Lock()
	r.ins = append(r.ins, ev)
	r.mu.Unlock()
}

func (r *recorder) LoggedOut(ev auth.Event) {
	r.mu.Lock()
	r.outs = append(r.outs, ev)
	r.mu.Unlock()
}

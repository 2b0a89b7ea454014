package security

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
)

type beaconSink struct {
	mu    sync.Mutex
	pages []string
	users []*identity.User
}

func (s *beaconSink) Beacon(_ string, user *identity.User, page string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages = append(s.pages, page)
	s.users = append(s.users, user)
}

func TestBeacon(t *testing.T) {
	n := newNode(t, nil)
	n.signIn(t, "s1", "t1", identity.RoleRestaurant)

	require.NoError(t, n.store.PutTemp("s1", "menu-draft", []byte(`{"name":"Pho"}`)))

	sink := &beaconSink{}

	app := n.app()
	app.Post(routes.SessionBeacon, Beacon(BeaconConfig{Store: n.store, Sink: sink, AuditPath: "/api/audit/session"}))

	req := httptest.NewRequest(fiber.MethodPost, routes.SessionBeacon, strings.NewReader(`{"page":"/restaurant/orders"}`))
	req.AddCookie(cookie("s1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	call := n.nextCall(t)
	assert.Equal(t, fiber.MethodPost, call.Method)
	assert.Equal(t, "/api/audit/session", call.Path)
	assert.Equal(t, "Bearer t1", call.Auth)
	assert.Equal(t, "unload", call.Body["event"])
	assert.Equal(t, "/restaurant/orders", call.Body["page"])

	require.Len(t, sink.pages, 1)
	assert.Equal(t, "/restaurant/orders", sink.pages[0])

	draft, err := n.store.GetTemp("s1", "menu-draft")
	require.NoError(t, err)
	assert.Empty(t, draft)

	token, err := n.store.Token("s1")
	require.NoError(t, err)
	assert.Equal(t, "t1", token, "unload keeps the session")
}

func TestBeacon_WithoutSession(t *testing.T) {
	n := newNode(t, nil)

	app := n.app()
	app.Post(routes.SessionBeacon, Beacon(BeaconConfig{Store: n.store, AuditPath: "/api/audit/session"}))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, routes.SessionBeacon, strings.NewReader("garbage")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, n.calls)
}

func TestBeacon_SignedOutSessionIsNotForwarded(t *testing.T) {
	n := newNode(t, nil)
	require.NoError(t, n.store.PutTemp("s1", "draft", []byte("x")))

	sink := &beaconSink{}

	app := n.app()
	app.Post(routes.SessionBeacon, Beacon(BeaconConfig{Store: n.store, Sink: sink, AuditPath: "/api/audit/session"}))

	req := httptest.NewRequest(fiber.MethodPost, routes.SessionBeacon, strings.NewReader(`not json`))
	req.AddCookie(cookie("s1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Empty(t, n.calls)
	require.Len(t, sink.users, 1)
	assert.Nil(t, sink.users[0])

	draft, err := n.store.GetTemp("s1", "draft")
	require.NoError(t, err)
	assert.Empty(t, draft)
}

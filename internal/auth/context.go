package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
)

// State is the authentication state of a session.
type State int

const (
	// StateHydrating is the initial state until the store was consulted.
	StateHydrating State = iota
	// StateAuthenticated has a user and a token.
	StateAuthenticated
	// StateUnauthenticated has neither.
	StateUnauthenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Context is the authentication state of one console session.
type Context struct {
	sid       string
	store     *credential.Store
	requester *upstream.Requester
	endpoints Endpoints
	notify    func(loggedIn bool, ev Event)

	hydrateOnce sync.Once

	mu       sync.RWMutex
	state    State
	user     *identity.User
	lastRole identity.Role
}

func newContext(
	sid string, store *credential.Store, client *upstream.Client, endpoints Endpoints,
	notify func(bool, Event),
) *Context {
	c := &Context{
		sid:       sid,
		store:     store,
		endpoints: endpoints,
		notify:    notify,
		state:     StateHydrating,
	}

	c.requester = client.Bind(upstream.BindOptions{
		Tokens: upstream.TokenFunc(func() (string, error) {
			return store.Token(sid)
		}),
		OnUnauthorized: func() string {
			return c.ForceLogout(ReasonUnauthorized)
		},
	})

	return c
}

// SessionID returns the console session id.
func (c *Context) SessionID() string {
	return c.sid
}

// Hydrate restores the session from the credential store. Only the first call has an effect.
func (c *Context) Hydrate() {
	c.hydrateOnce.Do(c.hydrate)
}

func (c *Context) hydrate() {
	sess, err := c.store.Load(c.sid)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load session, starting unauthenticated")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateHydrating {
		// a login finished first
		return
	}

	if sess == nil || sess.User == nil || !sess.User.Role.Valid() {
		c.state = StateUnauthenticated

		return
	}

	c.user = sess.User
	c.state = StateAuthenticated
	c.requester.SetDefaultToken(sess.Token)
}

// Requester returns the upstream requester of this session bound to the given console page.
func (c *Context) Requester(page string) *upstream.Requester {
	return c.requester.ForPage(page)
}

// User returns the current user or nil.
func (c *Context) User() *identity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.user
}

// State returns the current state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

// Loading reports whether hydration has not finished yet.
func (c *Context) Loading() bool {
	return c.State() == StateHydrating
}

// HasRole reports whether the current user has role r.
func (c *Context) HasRole(r identity.Role) bool {
	u := c.User()

	return u != nil && u.Role == r
}

// IsAuthenticated reports whether both a user and a stored token are present.
func (c *Context) IsAuthenticated() bool {
	if c.User() == nil {
		return false
	}

	token, err := c.store.Token(c.sid)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read session token")

		return false
	}

	return token != ""
}

// Token returns the stored bearer token.
func (c *Context) Token() (string, error) {
	return c.store.Token(c.sid)
}

type loginEnvelope struct {
	Success *bool          `json:"success"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

// Login authenticates against the backend as role. On success token and user
// are persisted and the session becomes authenticated. Any failure leaves the
// state untouched and is returned as *LoginError.
func (c *Context) Login(ctx context.Context, email, password string, role identity.Role) (*identity.User, error) {
	if !role.Valid() {
		return nil, &LoginError{Kind: KindInput, Message: "Unknown account type.", Err: identity.ErrUnknownRole}
	}

	path, body := c.endpoints.loginCall(role, email, password)

	var raw json.RawMessage

	err := c.requester.ForPage(routes.LoginPath(role)).Post(ctx, path, body, &raw)
	if err != nil {
		return nil, classifyLoginError(err)
	}

	data, token, err := parseLoginEnvelope(raw)
	if err != nil {
		return nil, err
	}

	user := identity.UserFromPayload(data, role)

	if ctx.Err() != nil {
		log.Debug().Str("role", role.String()).Msg("discarding login answer, caller went away")

		return nil, &LoginError{Kind: KindCancelled, Message: msgUnreachable, Err: ErrLoginCancelled}
	}

	if err = c.store.Save(c.sid, token, user); err != nil {
		return nil, &LoginError{Kind: KindStorage, Message: msgStorage, Err: err}
	}

	c.hydrateOnce.Do(func() {})

	c.mu.Lock()
	c.user = user
	c.state = StateAuthenticated
	c.mu.Unlock()

	c.requester.SetDefaultToken(token)

	if c.notify != nil {
		c.notify(true, Event{SessionID: c.sid, User: user})
	}

	return user, nil
}

func classifyLoginError(err error) *LoginError {
	var (
		ue *upstream.UnauthorizedError
		se *upstream.StatusError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return &LoginError{Kind: KindCancelled, Message: msgUnreachable, Err: err}
	case errors.As(err, &ue):
		return &LoginError{Kind: KindRejected, Message: messageOr(ue.Body, msgRejected), Err: err}
	case errors.As(err, &se):
		if se.Code >= 400 && se.Code < 500 {
			return &LoginError{Kind: KindRejected, Message: messageOr(se.Body, msgRejected), Err: err}
		}

		return &LoginError{Kind: KindProtocol, Message: messageOr(se.Body, msgUnexpected), Err: err}
	case errors.Is(err, upstream.ErrDecode):
		return &LoginError{Kind: KindProtocol, Message: msgUnexpected, Err: err}
	default:
		return &LoginError{Kind: KindTransport, Message: msgUnreachable, Err: err}
	}
}

// messageOr returns the envelope message of body, or fallback.
func messageOr(body []byte, fallback string) string {
	var env loginEnvelope
	if json.Unmarshal(body, &env) != nil || env.Message == "" {
		return fallback
	}

	return env.Message
}

func parseLoginEnvelope(raw json.RawMessage) (map[string]any, string, error) {
	var env loginEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Success == nil {
		return nil, "", &LoginError{Kind: KindProtocol, Message: msgUnexpected, Err: ErrMalformedEnvelope}
	}

	if !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = msgRejected
		}

		return nil, "", &LoginError{Kind: KindRejected, Message: msg}
	}

	if env.Data == nil {
		return nil, "", &LoginError{Kind: KindProtocol, Message: msgUnexpected, Err: ErrMalformedEnvelope}
	}

	data := env.Data

	token := cast.ToString(data["token"])
	if token == "" {
		token = cast.ToString(data["accessToken"])
	}

	if token == "" {
		return nil, "", &LoginError{Kind: KindProtocol, Message: msgUnexpected, Err: ErrMissingToken}
	}

	// some endpoints nest the user record
	if nested, ok := data["user"].(map[string]any); ok {
		data = nested
	}

	return data, token, nil
}

// Logout ends the session and returns where to send the browser: redirect
// when given, otherwise the login page of the outgoing role.
func (c *Context) Logout(redirect string) string {
	return c.logout(ReasonUser, redirect)
}

// ForceLogout ends the session for reason and returns the login page of the outgoing role.
func (c *Context) ForceLogout(reason Reason) string {
	return c.logout(reason, "")
}

func (c *Context) logout(reason Reason, redirect string) string {
	c.hydrateOnce.Do(func() {})

	c.mu.Lock()
	prev := c.user
	if prev != nil {
		c.lastRole = prev.Role
	}

	role := c.lastRole
	c.user = nil
	c.state = StateUnauthenticated
	c.mu.Unlock()

	c.requester.ClearDefaultToken()

	if err := c.store.Clear(c.sid); err != nil {
		log.Error().Err(err).Msg("failed to clear session store")
	}

	if prev != nil && c.notify != nil {
		c.notify(false, Event{SessionID: c.sid, User: prev, Reason: reason})
	}

	if redirect != "" {
		return redirect
	}

	return routes.LoginPath(role)
}

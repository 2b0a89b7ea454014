// Package auth holds the authentication state of console sessions.
//
// Every console session (identified by the session cookie) owns one Context.
// A Context is a small state machine:
//
//	Hydrating ──Hydrate──▶ Authenticated ──Logout──▶ Unauthenticated
//	    │                        ▲                         │
//	    └──────Hydrate──────▶ Unauthenticated ──Login──────┘
//
// Hydrate runs exactly once and restores the session from the credential
// store. A stored user without a recognisable role never becomes an
// authenticated session.
//
// # Login
//
// Login picks the backend endpoint and body shape from the requested role,
// validates the {success, data, message} envelope, strips secrets from the
// payload and persists token and user together before the in-memory user is
// set. Failures are returned as *LoginError and never change state.
//
// # Logout
//
// Logout and ForceLogout are synchronous, unconditional and idempotent. They
// may be called concurrently by the logout handler, the idle sweeper, the
// token monitor, a broadcast message and the upstream 401 hook.
//
// # Registry
//
// The Registry keeps the contexts of all sessions seen by this node and
// notifies observers (audit, metrics, broadcast) about logins and logouts.
//
// Example usage:
//
//	reg := auth.NewRegistry(store, client, auth.DefaultEndpoints())
//	reg.AddObserver(auditRecorder)
//
//	actx := reg.Get(sid)
//	user, err := actx.Login(ctx, "a@b.com", "pw", identity.RoleRestaurant)
//
//	redirect := actx.Logout("")
package auth

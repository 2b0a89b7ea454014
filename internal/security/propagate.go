package security

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/broadcast"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security/tabs"
)

const publishTimeout = 3 * time.Second

// Propagator publishes the logins and logouts of this node and applies the ones of other nodes.
type Propagator struct {
	bus  broadcast.Bus
	reg  *auth.Registry
	tabs *tabs.Hub
}

// NewPropagator wires reg to bus. hub may be nil when no tab streams are served.
func NewPropagator(bus broadcast.Bus, reg *auth.Registry, hub *tabs.Hub) *Propagator {
	p := &Propagator{bus: bus, reg: reg, tabs: hub}
	bus.Subscribe(p.handle)

	return p
}

// LoggedIn implements auth.Observer.
func (p *Propagator) LoggedIn(ev auth.Event) {
	msg := broadcast.Message{Kind: broadcast.KindLogin, SessionID: ev.SessionID}
	if ev.User != nil {
		msg.UserID = ev.User.ID
		msg.Role = ev.User.Role.String()
	}

	p.publish(msg)
}

// LoggedOut implements auth.Observer. Logouts caused by a remote message are not echoed.
func (p *Propagator) LoggedOut(ev auth.Event) {
	if ev.Reason == auth.ReasonRemote {
		return
	}

	msg := broadcast.Message{Kind: broadcast.KindLogout, SessionID: ev.SessionID, Reason: string(ev.Reason)}
	if ev.User != nil {
		msg.UserID = ev.User.ID
		msg.Role = ev.User.Role.String()
	}

	p.publish(msg)
}

func (p *Propagator) publish(msg broadcast.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.bus.Publish(ctx, msg); err != nil {
		log.Warn().Err(err).Str("kind", string(msg.Kind)).Msg("failed to publish session event")
	}
}

func (p *Propagator) handle(_ context.Context, msg broadcast.Message) {
	if p.tabs != nil {
		sig := tabs.Signal{Kind: string(msg.Kind), Reason: msg.Reason, UserID: msg.UserID}
		if msg.Kind == broadcast.KindLogout {
			sig.Redirect = routes.WithReason(p.loginPath(msg), msg.Reason)
		}

		p.tabs.Notify(msg.SessionID, sig)
	}

	if msg.Origin == p.bus.Origin() {
		return
	}

	actx, ok := p.reg.Lookup(msg.SessionID)
	if !ok {
		return
	}

	switch msg.Kind {
	case broadcast.KindLogout:
		actx.ForceLogout(auth.ReasonRemote)
	case broadcast.KindLogin:
		if u := actx.User(); u == nil || u.ID != msg.UserID {
			// next request hydrates the new user from the shared store
			p.reg.Drop(msg.SessionID)
		}
	}
}

func (p *Propagator) loginPath(msg broadcast.Message) string {
	role, _ := identity.ParseRole(msg.Role)

	return routes.LoginPath(role)
}

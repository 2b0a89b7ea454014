// Package metrics exposes prometheus counters of the console session lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
)

const namespace = "dishdash_admin"

// Outcome label values of the login counter.
const (
	OutcomeSuccess = "success"
)

// Session counts logins, logouts and backend 401s. It is an auth.Observer.
type Session struct {
	logins       *prometheus.CounterVec
	logouts      *prometheus.CounterVec
	unauthorized prometheus.Counter
}

// NewSession registers the collectors on reg. active reports the number of
// console sessions held by this node; nil skips the gauge.
func NewSession(reg prometheus.Registerer, active func() int) *Session {
	f := promauto.With(reg)

	s := &Session{
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Console logins by role and outcome.",
		}, []string{"role", "outcome"}),
		logouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Console logouts by reason.",
		}, []string{"reason"}),
		unauthorized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_unauthorized_total",
			Help:      "Backend 401 responses that ended a console session.",
		}),
	}

	if active != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Console sessions held in memory by this node.",
		}, func() float64 { return float64(active()) })
	}

	return s
}

// LoggedIn implements auth.Observer.
func (s *Session) LoggedIn(ev auth.Event) {
	s.logins.WithLabelValues(roleLabel(ev.User), OutcomeSuccess).Inc()
}

// LoggedOut implements auth.Observer.
func (s *Session) LoggedOut(ev auth.Event) {
	s.logouts.WithLabelValues(string(ev.Reason)).Inc()

	if ev.Reason == auth.ReasonUnauthorized {
		s.unauthorized.Inc()
	}
}

// LoginFailed counts a failed login attempt.
func (s *Session) LoginFailed(role identity.Role, kind auth.LoginErrorKind) {
	s.logins.WithLabelValues(role.String(), string(kind)).Inc()
}

func roleLabel(u *identity.User) string {
	if u == nil {
		return "unknown"
	}

	return u.Role.String()
}

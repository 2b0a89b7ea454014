package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
)

// TokenExpiry reads the exp claim of a JWT without verifying it. ok is false
// for opaque tokens and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}

	return date.Time, true
}

// Monitor ends sessions whose token has expired.
type Monitor struct {
	reg  *auth.Registry
	skew time.Duration
	now  func() time.Time
}

// NewMonitor creates a monitor. Tokens count as expired skew before their exp.
func NewMonitor(reg *auth.Registry, skew time.Duration) *Monitor {
	return &Monitor{reg: reg, skew: skew, now: time.Now}
}

// Run checks every signed-in session once.
func (m *Monitor) Run() {
	expired := 0

	m.reg.Each(func(c *auth.Context) bool {
		if c.User() == nil {
			return true
		}

		if m.Expired(c) {
			c.ForceLogout(auth.ReasonExpired)

			expired++
		}

		return true
	})

	if expired > 0 {
		log.Info().Int("sessions", expired).Msg("ended sessions with expired tokens")
	}
}

// Expired reports whether the token of c has passed its expiry.
func (m *Monitor) Expired(c *auth.Context) bool {
	token, err := c.Token()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read token for expiry check")

		return false
	}

	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}

	return !m.now().Before(exp.Add(-m.skew))
}

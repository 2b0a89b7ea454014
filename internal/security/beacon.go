package security

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// BeaconSink records unload beacons locally.
type BeaconSink interface {
	Beacon(sessionID string, user *identity.User, page string)
}

// BeaconConfig configures the beacon endpoint.
type BeaconConfig struct {
	Store *credential.Store
	Sink  BeaconSink
	// AuditPath is the backend path beacons are forwarded to; empty disables forwarding.
	AuditPath string
}

type auditBeacon struct {
	Event  string    `json:"event"`
	Page   string    `json:"page,omitempty"`
	UserID string    `json:"userId,omitempty"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

// Beacon handles the unload beacon. It always answers 204 and never blocks on the backend.
func Beacon(cfg BeaconConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx := sessionctx.FromCtx(c)
		if actx == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}

		var payload map[string]any
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &payload); err != nil {
				log.Debug().Err(err).Msg("unreadable beacon payload")
			}
		}

		page := cast.ToString(payload["page"])
		sid := actx.SessionID()
		user := actx.User()

		RunSteps("beacon",
			Step{Name: "forward", Run: func() error {
				if user == nil || cfg.AuditPath == "" {
					return nil
				}

				actx.Requester(page).Fire(http.MethodPost, cfg.AuditPath, auditBeacon{
					Event:  "unload",
					Page:   page,
					UserID: user.ID,
					Role:   user.Role.String(),
					At:     time.Now(),
				})

				return nil
			}},
			Step{Name: "record", Run: func() error {
				if cfg.Sink != nil {
					cfg.Sink.Beacon(sid, user, page)
				}

				return nil
			}},
			Step{Name: "purge", Run: func() error {
				if cfg.Store == nil {
					return nil
				}

				n, err := cfg.Store.PurgeTemp(sid)
				if n > 0 {
					log.Debug().Int("values", n).Msg("purged temporary session values")
				}

				return err
			}},
		)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

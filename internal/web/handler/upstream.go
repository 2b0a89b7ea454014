package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/navigation"
)

// ErrEnvelope is returned when the backend answered success=false.
var ErrEnvelope = errors.New("backend reported failure")

// Envelope is the response shape of the food delivery backend.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Fetch GETs path for the page of the request and unwraps the envelope.
func Fetch[T any](c *fiber.Ctx, path string) (T, error) {
	var (
		env  Envelope[T]
		zero T
	)

	actx := sessionctx.FromCtx(c)
	if actx == nil {
		return zero, auth.ErrMissingToken
	}

	if err := actx.Requester(c.Path()).Get(c.UserContext(), path, &env); err != nil {
		return zero, err
	}

	if !env.Success {
		if env.Message != "" {
			return zero, errors.Join(ErrEnvelope, errors.New(env.Message))
		}

		return zero, ErrEnvelope
	}

	return env.Data, nil
}

// UpstreamFailure answers a failed backend read. A 401 already ended the
// session, so the browser goes to the login page; anything else renders the
// error page.
func UpstreamFailure(c *fiber.Ctx, d *Deps, nav *navigation.Context, err error) error {
	var unauth *upstream.UnauthorizedError
	if errors.As(err, &unauth) && unauth.Redirect != "" {
		d.Session.ClearCookie(c)

		return c.Redirect(routes.WithReason(unauth.Redirect, string(auth.ReasonUnauthorized)))
	}

	status := http.StatusBadGateway

	var se *upstream.StatusError
	if errors.As(err, &se) && se.Code == http.StatusForbidden {
		status = http.StatusForbidden
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("backend request failed")

	return c.Status(status).Render(ErrorTemplate, fiber.Map{
		"Navigation": nav,
		"Status":     status,
		"Message":    "The food delivery service could not load this page. Please try again.",
	}, BaseLayout)
}

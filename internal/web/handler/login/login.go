package login

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/handler"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/guard"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// TemplateName is the login page template.
const TemplateName = "login"

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	// Role is only read on the restaurant page, which also serves customers.
	Role string `form:"role"`
}

// page is one login page and the role it signs in.
type page struct {
	path  string
	role  identity.Role
	title string
}

var pages = []page{
	{path: routes.AdminLogin, role: identity.RoleSuperAdmin, title: "Super admin sign in"},
	{path: routes.RestaurantLogin, role: identity.RoleRestaurant, title: "Restaurant sign in"},
	{path: routes.DeliveryLogin, role: identity.RoleDelivery, title: "Delivery partner sign in"},
}

// reasons are the notices shown after a forced logout.
var reasons = map[string]string{
	string(auth.ReasonIdle):         "You were signed out after a period of inactivity.",
	string(auth.ReasonExpired):      "Your session expired. Please sign in again.",
	string(auth.ReasonUnauthorized): "Your session is no longer valid. Please sign in again.",
	string(auth.ReasonRemote):       "You were signed out in another window.",
	string(auth.ReasonUser):         "You have been signed out.",
}

// Service is the login handler service.
type Service struct {
	handler.Service
	deps     *handler.Deps
	validate *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Init registers the login pages.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps
	s.validate = validator.New()

	for _, p := range pages {
		app.Route(p.path, func(router fiber.Router) {
			router.Get(handler.RootPath, guard.Public(routes.DashboardPath(p.role)), s.get(p))
			router.Post(handler.RootPath, guard.Public(routes.DashboardPath(p.role)), s.post(p))
		})
	}

	return nil
}

func (s *Service) get(p page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.render(c, p, http.StatusOK, "", "")
	}
}

func (s *Service) post(p page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := new(Form)

		if err := c.BodyParser(form); err != nil {
			log.Debug().Err(err).Msg(ErrInvalidFormData.Error())

			return s.render(c, p, http.StatusBadRequest, "", "Please enter your email and password.")
		}

		if err := s.validate.Struct(form); err != nil {
			return s.render(c, p, http.StatusBadRequest, form.Email, "Please enter a valid email and password.")
		}

		role, err := formRole(p, form.Role)
		if err != nil {
			return s.render(c, p, http.StatusBadRequest, form.Email, "This sign in page does not serve that account type.")
		}

		// a fresh session id for every login
		sid, err := credential.GenerateSessionID()
		if err != nil {
			log.Error().Err(err).Msg("failed to generate session ID")

			return s.render(c, p, http.StatusInternalServerError, form.Email, "Internal server error")
		}

		reg := s.deps.Registry

		user, err := reg.Get(sid).Login(c.UserContext(), form.Email, form.Password, role)
		if err != nil {
			reg.Drop(sid)

			return s.failed(c, p, role, form.Email, err)
		}

		if old := sessionctx.SessionID(c); old != "" && old != sid {
			reg.Drop(old)
		}

		s.deps.Session.SetCookie(c, sid)

		log.Info().Str("role", user.Role.String()).Str("user", user.ID).Msg("console login")

		return c.Redirect(routes.LandingPath(user.Role, ""))
	}
}

func (s *Service) failed(c *fiber.Ctx, p page, role identity.Role, email string, err error) error {
	var le *auth.LoginError
	if !errors.As(err, &le) {
		le = &auth.LoginError{Kind: auth.KindProtocol, Message: "Unexpected response from the server.", Err: err}
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.LoginFailed(role, le.Kind)
	}

	status := http.StatusBadGateway

	switch le.Kind {
	case auth.KindRejected:
		status = http.StatusUnauthorized
	case auth.KindInput:
		status = http.StatusBadRequest
	case auth.KindStorage:
		status = http.StatusServiceUnavailable
	}

	log.Warn().Err(err).Str("role", role.String()).Str("kind", string(le.Kind)).Msg("console login failed")

	return s.render(c, p, status, email, le.Message)
}

func (s *Service) render(c *fiber.Ctx, p page, status int, email, msg string) error {
	bind := fiber.Map{
		"Title":     p.title,
		"Action":    p.path,
		"Role":      p.role.String(),
		"Customers": p.role == identity.RoleRestaurant,
		"Email":     email,
		"Notice":    reasons[c.Query("reason")],
	}

	if msg != "" {
		bind["error"] = msg
	}

	return c.Status(status).Render(TemplateName, bind)
}

// formRole returns the role to sign in as. Only the restaurant page may switch
// to the customer role.
func formRole(p page, requested string) (identity.Role, error) {
	if requested == "" {
		return p.role, nil
	}

	r, err := identity.ParseRole(requested)
	if err != nil {
		return "", ErrRoleNotAllowed
	}

	if r == p.role || (p.role == identity.RoleRestaurant && r == identity.RoleCustomer) {
		return r, nil
	}

	return "", ErrRoleNotAllowed
}

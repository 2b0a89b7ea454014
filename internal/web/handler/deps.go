package handler

import (
	"errors"

	"github.com/DishDash-Admin/DishDash-Admin/internal/audit"
	"github.com/DishDash-Admin/DishDash-Admin/internal/auth"
	"github.com/DishDash-Admin/DishDash-Admin/internal/config"
	"github.com/DishDash-Admin/DishDash-Admin/internal/metrics"
	"github.com/DishDash-Admin/DishDash-Admin/internal/security"
	"github.com/DishDash-Admin/DishDash-Admin/internal/web/middleware/sessionctx"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilACDFatalLogMsg)

// Deps are the shared services handed to every handler. Optional parts are nil
// when their feature is disabled.
type Deps struct {
	Cfg      *config.Config
	Registry *auth.Registry
	Session  *sessionctx.Config

	Revoker *security.Revoker
	Audit   *audit.Recorder
	Metrics *metrics.Session
}

// Valid reports whether the required dependencies are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.Registry != nil && d.Session != nil
}

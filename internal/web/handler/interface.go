package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

package handlers

import "github.com/gofiber/fiber/v2"

// Guards are the middleware handlers attach to protected routes.
type Guards struct {
	// Auth requires a valid access token.
	Auth fiber.Handler
	// Admin must follow Auth.
	Admin fiber.Handler
	// Login throttles credential endpoints.
	Login fiber.Handler
}

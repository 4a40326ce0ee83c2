package handlers

import "github.com/gofiber/fiber/v2"

// ServeDashboard serves the static analytics dashboard.
func ServeDashboard(c *fiber.Ctx) error {
	return c.SendFile("./static/dashboard.html")
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version           string
	DatabaseConnected func() bool
	SheetsConnected   func() bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, databaseConnected, sheetsConnected func() bool) *HealthHandler {
	return &HealthHandler{
		Version:           version,
		DatabaseConnected: databaseConnected,
		SheetsConnected:   sheetsConnected,
	}
}

// Check returns the health status of the service, including whether the two
// sinks are reachable.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":                  "healthy",
		"service":                 "Realflow AI Agent Backend",
		"version":                 h.Version,
		"timestamp":               time.Now().Format(time.RFC3339),
		"database_connected":      h.DatabaseConnected(),
		"google_sheets_connected": h.SheetsConnected(),
	})
}

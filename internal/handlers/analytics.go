package handlers

import (
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/realflow-ai/realflow-backend/internal/storage"
)

// AnalyticsHandler serves the read-side endpoints over call records.
type AnalyticsHandler struct {
	store storage.Store
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(store storage.Store) *AnalyticsHandler {
	return &AnalyticsHandler{
		store: store,
	}
}

// GetAnalytics returns the dashboard summary: totals, average score and the
// ten most recent calls.
func (h *AnalyticsHandler) GetAnalytics(c *fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"error": "database not connected"})
	}

	totalCalls, err := h.store.CountCalls()
	if err != nil {
		log.Printf("❌ Analytics error: %v", err)
		return c.JSON(fiber.Map{"error": err.Error()})
	}

	hotLeads, err := h.store.CountHotLeadCalls()
	if err != nil {
		log.Printf("❌ Analytics error: %v", err)
		return c.JSON(fiber.Map{"error": err.Error()})
	}

	avgScore, err := h.store.AverageLeadScore()
	if err != nil {
		log.Printf("❌ Analytics error: %v", err)
		return c.JSON(fiber.Map{"error": err.Error()})
	}

	recent, err := h.store.GetCalls(10, 0)
	if err != nil {
		log.Printf("❌ Analytics error: %v", err)
		return c.JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"total_calls":        totalCalls,
		"hot_leads_count":    hotLeads,
		"average_lead_score": math.Round(avgScore*100) / 100,
		"recent_calls":       recent,
		"timestamp":          time.Now().Format(time.RFC3339),
	})
}

// GetHotLeads returns all hot-classified calls, most recent first.
func (h *AnalyticsHandler) GetHotLeads(c *fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"error": "database not connected"})
	}

	hotLeads, err := h.store.GetHotLeadCalls()
	if err != nil {
		log.Printf("❌ Hot leads error: %v", err)
		return c.JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":     len(hotLeads),
		"hot_leads": hotLeads,
	})
}

// GetCalls returns a paginated call list, newest first.
// Query params: limit (default 50), offset (default 0).
func (h *AnalyticsHandler) GetCalls(c *fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"error": "database not connected"})
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	calls, err := h.store.GetCalls(limit, offset)
	if err != nil {
		log.Printf("❌ Calls error: %v", err)
		return c.JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count": len(calls),
		"calls": calls,
	})
}

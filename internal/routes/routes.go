package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/realflow-ai/realflow-backend/internal/handlers"
	"github.com/realflow-ai/realflow-backend/internal/services"
	"github.com/realflow-ai/realflow-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, calls *services.CallService, health *handlers.HealthHandler) {
	// Health check / status endpoint
	app.Get("/", health.Check)

	// ========== WEBHOOK ROUTES ==========
	// The webhook endpoint always answers 200; validation of WEBHOOK_SECRET
	// against inbound requests is not performed.
	webhook := handlers.NewWebhookHandler(calls)
	app.Post("/webhook/vapi", webhook.HandleVapiWebhook)

	// ========== READ-SIDE ROUTES ==========
	analytics := handlers.NewAnalyticsHandler(store)
	app.Get("/analytics", analytics.GetAnalytics)
	app.Get("/hot-leads", analytics.GetHotLeads)
	app.Get("/calls", analytics.GetCalls)

	// Static analytics dashboard
	app.Get("/dashboard", handlers.ServeDashboard)
}

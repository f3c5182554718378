package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/rpl-hospital/carebot-backend/internal/handlers"
	"github.com/rpl-hospital/carebot-backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, whatsapp *handlers.WhatsAppHandler, admin *handlers.AdminHandler, health *handlers.HealthHandler) {

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hospital CareBot Backend",
			"version": health.Version,
			"endpoints": fiber.Map{
				"health":        "/health",
				"webhook":       "/webhook/whatsapp",
				"test_whatsapp": "/test/whatsapp",
				"admin":         "/api/admin",
			},
		})
	})

	app.Get("/health", health.Check)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	webhooks.Get("/whatsapp", whatsapp.HandleVerification)

	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip signature validation for ngrok
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
		log.Println("⚠️  WhatsApp webhook validation DISABLED")
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsapp.HandleWebhook)
	}

	// ========== TEST ROUTES (development only) ==========
	if os.Getenv("ENVIRONMENT") == "development" {
		app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)
	}

	// ========== ADMIN ROUTES ==========
	api := app.Group("/api/admin", admin.RequireToken())
	api.Get("/stats", admin.GetStats)
	api.Get("/appointments", admin.GetAppointments)
	api.Get("/patients", admin.GetPatients)
	api.Get("/feedback", admin.GetFeedback)
	api.Get("/doctors", admin.GetDoctors)
}

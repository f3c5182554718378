package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/rpl-hospital/carebot-backend/database"
	"github.com/rpl-hospital/carebot-backend/internal/config"
	"github.com/rpl-hospital/carebot-backend/internal/flows"
	"github.com/rpl-hospital/carebot-backend/internal/handlers"
	"github.com/rpl-hospital/carebot-backend/internal/jobs"
	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/routes"
	"github.com/rpl-hospital/carebot-backend/internal/services"
	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - using environment variables")
		}
	}

	cfg := config.Load()

	// Initialize storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		if err := database.Connect(); err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// WhatsApp gateway
	notifier, err := services.NewTwilioNotifier()
	if err != nil {
		log.Fatal("Failed to initialize Twilio: ", err)
	}
	log.Println("✅ Twilio service initialized")

	// AI assistant: Groq when configured, keyword matching as fallback
	var assistant services.Assistant
	if groq := services.NewGroqAssistant(cfg.GroqAPIKey, cfg.GroqModel); groq != nil {
		assistant = services.NewTieredAssistant(groq)
		log.Println("✅ Groq assistant enabled")
	} else {
		assistant = services.KeywordAssistant{}
		log.Println("⚠️  GROQ_API_KEY not set - using keyword matching only")
	}

	sessions := services.NewSessionStore(store, cfg.SessionTTL)
	staff := services.NewStaffNotifier(notifier, cfg.StaffNumber)

	router := flows.NewRouter(sessions, notifier, flows.Deps{
		Store:     store,
		Assistant: assistant,
		Staff:     staff,
		Config:    cfg,
	})

	// Scheduled jobs: appointment reminders, medicine nudges, daily summary
	scheduler := jobs.NewScheduler(store, notifier, staff)
	scheduler.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Hospital CareBot v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Deep health endpoint with database counts
	app.Get("/status", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":         "Hospital CareBot Backend",
			"version":         version,
			"status":          "healthy",
			"hospital":        cfg.HospitalName,
			"active_sessions": sessions.ActiveCount(),
		}

		if !cfg.UseMemoryStore && database.DB != nil {
			dbStatus := "connected"
			sqlDB, err := database.DB.DB()
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var patientCount, apptCount, feedbackCount int64
			database.DB.Model(&models.Patient{}).Count(&patientCount)
			database.DB.Model(&models.Appointment{}).Count(&apptCount)
			database.DB.Model(&models.Feedback{}).Count(&feedbackCount)

			response["database"] = fiber.Map{
				"status":       dbStatus,
				"patients":     patientCount,
				"appointments": apptCount,
				"feedback":     feedbackCount,
			}
		}

		return c.JSON(response)
	})

	whatsappHandler := handlers.NewWhatsAppHandler(router, cfg)
	adminHandler := handlers.NewAdminHandler(store, cfg)
	healthHandler := handlers.NewHealthHandler(version, sessions)
	routes.SetupRoutes(app, whatsappHandler, adminHandler, healthHandler)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		scheduler.Stop()
		sessions.Stop()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 %s CareBot starting on port %s", cfg.HospitalName, cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("⏱  Session TTL: %s", cfg.SessionTTL)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL"
}

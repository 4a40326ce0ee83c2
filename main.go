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

	"github.com/realflow-ai/realflow-backend/database"
	"github.com/realflow-ai/realflow-backend/internal/handlers"
	"github.com/realflow-ai/realflow-backend/internal/models"
	"github.com/realflow-ai/realflow-backend/internal/routes"
	"github.com/realflow-ai/realflow-backend/internal/services"
	"github.com/realflow-ai/realflow-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	// Debug what we loaded
	log.Printf("🔍 DATABASE_URL exists: %v", os.Getenv("DATABASE_URL") != "")
	log.Printf("🔍 GOOGLE_SHEET_ID exists: %v", os.Getenv("GOOGLE_SHEET_ID") != "")
	log.Printf("🔍 WEBHOOK_SECRET exists: %v", os.Getenv("WEBHOOK_SECRET") != "")

	// Initialize storage
	var store storage.Store
	usingDatabase := false

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		if err := database.Connect(); err != nil {
			// Best-effort: the sheet log still works without a database.
			log.Printf("⚠️  Database connection warning: %v", err)
			log.Println("⚠️  Falling back to in-memory storage")
			store = storage.NewMemoryStore()
		} else {
			log.Println("🔄 Running database migrations...")
			err := database.DB.AutoMigrate(
				&models.Call{},
				&models.ConversationTopic{},
				&models.QuestionAsked{},
				&models.HotLead{},
				&models.Callback{},
				&models.PropertyRequest{},
			)
			if err != nil {
				log.Fatal("Failed to migrate database:", err)
			}
			log.Println("✅ Database migrations completed!")

			store = storage.NewDatabaseStore(database.DB)
			usingDatabase = true
			log.Println("✅ Using PostgreSQL database storage")
		}
	}

	// Initialize Google Sheets service
	sheetsService, err := services.NewSheetsService()
	if err != nil {
		log.Printf("⚠️  Google Sheets not configured: %v", err)
		sheetsService = nil
	} else {
		log.Println("✅ Google Sheets connected successfully!")
	}

	callService := services.NewCallService(store, sheetsService)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Realflow AI Agent Backend v" + version,
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
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	healthHandler := handlers.NewHealthHandler(version,
		func() bool { return usingDatabase && database.Connected() },
		func() bool { return sheetsService != nil },
	)

	routes.SetupRoutes(app, store, callService, healthHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Realflow backend starting on port %s", port)
	log.Printf("📊 Storage: %s", storageType(usingDatabase))
	log.Printf("📋 Google Sheets: %s", sheetsStatus(sheetsService))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func storageType(usingDatabase bool) string {
	if usingDatabase {
		return "PostgreSQL Database"
	}
	return "In-Memory"
}

func sheetsStatus(s *services.SheetsService) string {
	if s == nil {
		return "Not configured"
	}
	return "Configured"
}

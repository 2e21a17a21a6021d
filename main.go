package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/config"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/billing"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/dashboard"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/invoices"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/profile"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/shifts"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/services"
)

// apiErrorHandler turns unhandled errors into the standard JSON envelope
func apiErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Load config and connect to the database
	config.Load()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	db := config.GetDB()
	store := kvstore.NewPostgresStore(db)

	tracker := services.NewShiftTracker(store, func(shift *models.ShiftRecord, breaks []*models.BreakInterval) error {
		return database.CreateShiftWithBreaks(db, shift, breaks)
	})

	// Start background scheduler
	services.StartScheduler(db, store)

	billingSvc := services.NewBillingService(
		db,
		config.AppConfig.Stripe.SecretKey,
		config.AppConfig.Stripe.WebhookSecret,
		config.AppConfig.Stripe.DefaultPriceID,
		config.AppConfig.AppBaseURL,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: apiErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup shift tracking routes
	shifts.SetupShiftsRoutes(app, tracker)

	// Setup invoice routes
	invoices.SetupInvoicesRoutes(app, store)

	// Setup billing routes
	billing.SetupBillingRoutes(app, billingSvc)

	// Setup profile routes
	profile.SetupProfileRoutes(app)

	// Setup dashboard routes
	dashboard.SetupDashboardRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Start server
	log.Printf("Server starting on %s", config.AppConfig.ListenAddr)
	log.Fatal(app.Listen(config.AppConfig.ListenAddr))
}

package invoices

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
)

// SetupInvoicesRoutes registers recipient and settings CRUD plus the PDF
// export endpoints. The store caches invoice settings between exports.
func SetupInvoicesRoutes(app *fiber.App, store kvstore.Store) {
	api := app.Group("/api/invoices")
	api.Use(auth.AuthMiddleware)

	api.Get("/recipients", GetRecipientsAPI)
	api.Post("/recipients", CreateRecipientAPI)
	api.Put("/recipients/:id", UpdateRecipientAPI)
	api.Delete("/recipients/:id", DeleteRecipientAPI)

	api.Get("/settings", func(c *fiber.Ctx) error { return GetSettingsAPI(c, store) })
	api.Put("/settings", func(c *fiber.Ctx) error { return UpdateSettingsAPI(c, store) })

	api.Post("/from-shift/:id", FromShiftAPI)
	api.Post("/export", func(c *fiber.Ctx) error { return ExportAPI(c, store) })
}

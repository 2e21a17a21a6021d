package shifts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/services"
)

// SetupShiftsRoutes registers the shift lifecycle endpoints. The tracker is
// injected so the whole state machine can be driven in tests without a
// server.
func SetupShiftsRoutes(app *fiber.App, tracker *services.ShiftTracker) {
	api := app.Group("/api/shifts")
	api.Use(auth.AuthMiddleware)

	api.Post("/begin", func(c *fiber.Ctx) error { return BeginShiftAPI(c, tracker) })
	api.Post("/approve-start", func(c *fiber.Ctx) error { return ApproveStartAPI(c, tracker) })
	api.Post("/break/start", func(c *fiber.Ctx) error { return StartBreakAPI(c, tracker) })
	api.Post("/break/end", func(c *fiber.Ctx) error { return EndBreakAPI(c, tracker) })
	api.Post("/request-end", func(c *fiber.Ctx) error { return RequestEndAPI(c, tracker) })
	api.Post("/approve-end", func(c *fiber.Ctx) error { return ApproveEndAPI(c, tracker) })
	api.Post("/cancel", func(c *fiber.Ctx) error { return CancelShiftAPI(c, tracker) })
	api.Get("/active", func(c *fiber.Ctx) error { return ActiveShiftAPI(c, tracker) })

	api.Get("/", ListShiftsAPI)
	api.Get("/:id", GetShiftAPI)
	api.Delete("/:id", func(c *fiber.Ctx) error { return DeleteShiftAPI(c, tracker) })
}

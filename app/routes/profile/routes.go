package profile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
)

func SetupProfileRoutes(app *fiber.App) {
	api := app.Group("/api/profile")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetProfileAPI)
	api.Put("/", UpdateProfileAPI)
}

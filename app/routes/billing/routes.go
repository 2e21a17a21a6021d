package billing

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/services"
)

// SetupBillingRoutes registers the checkout endpoints and the webhook. The
// webhook stays outside the auth group: Stripe authenticates with its
// signature, not a JWT.
func SetupBillingRoutes(app *fiber.App, svc *services.BillingService) {
	app.Post("/api/billing/webhook", func(c *fiber.Ctx) error { return WebhookAPI(c, svc) })

	api := app.Group("/api/billing")
	api.Use(auth.AuthMiddleware)

	api.Post("/create-checkout-session", func(c *fiber.Ctx) error { return CreateCheckoutSessionAPI(c, svc) })
	api.Post("/verify-checkout", func(c *fiber.Ctx) error { return VerifyCheckoutAPI(c, svc) })
	// Older clients call the long form.
	api.Post("/verify-checkout-session", func(c *fiber.Ctx) error { return VerifyCheckoutAPI(c, svc) })
	api.Get("/check-subscription", func(c *fiber.Ctx) error { return CheckSubscriptionAPI(c, svc) })
}

package billing

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/services"
)

func CreateCheckoutSessionAPI(c *fiber.Ctx, svc *services.BillingService) error {
	type CheckoutRequest struct {
		PriceID string `json:"price_id,omitempty"`
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := c.Locals("user").(*models.User)
	url, err := svc.CreateCheckoutSession(user, req.PriceID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			return c.Status(409).JSON(fiber.Map{
				"error":    "Subscription is already active",
				"redirect": "/dashboard",
			})
		}
		log.Printf("Failed to create checkout session: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	return c.JSON(fiber.Map{"url": url})
}

func VerifyCheckoutAPI(c *fiber.Ctx, svc *services.BillingService) error {
	type VerifyRequest struct {
		SessionID string `json:"session_id"`
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SessionID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "session_id is required"})
	}

	info, err := svc.VerifyCheckout(c.Locals("user_id").(string), req.SessionID)
	if err != nil {
		log.Printf("Checkout verification failed: %v", err)
		return c.Status(502).JSON(fiber.Map{
			"success": false,
			"error":   "Could not verify checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"subscription": info,
	})
}

func CheckSubscriptionAPI(c *fiber.Ctx, svc *services.BillingService) error {
	subscribed, tier, status, err := svc.SubscriptionStatus(c.Locals("user_id").(string))
	if err != nil {
		log.Printf("Failed to check subscription: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check subscription"})
	}

	return c.JSON(fiber.Map{
		"subscribed":          subscribed,
		"subscription_tier":   tier,
		"subscription_status": status,
	})
}

// WebhookAPI receives subscription lifecycle events pushed by Stripe. The
// raw body goes straight into signature verification; parsing happens only
// after the signature checks out.
func WebhookAPI(c *fiber.Ctx, svc *services.BillingService) error {
	if err := svc.HandleWebhook(c.Body(), c.Get("Stripe-Signature")); err != nil {
		log.Printf("Webhook processing failed: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": "Webhook rejected"})
	}
	return c.JSON(fiber.Map{"received": true})
}

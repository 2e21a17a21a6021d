package profile

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/config"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
)

func GetProfileAPI(c *fiber.Ctx) error {
	p, err := database.GetOrCreateProfile(config.GetDB(), auth.UserID(c))
	if err != nil {
		log.Printf("Failed to fetch profile: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": p})
}

// UpdateProfileAPI writes the address fields. Subscription fields in the
// payload are ignored; only the billing glue may touch those.
func UpdateProfileAPI(c *fiber.Ctx) error {
	var req models.Profile
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.UserID = auth.UserID(c)
	if err := database.UpdateProfileAddress(config.GetDB(), &req); err != nil {
		log.Printf("Failed to update profile: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	p, err := database.GetOrCreateProfile(config.GetDB(), req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": p})
}

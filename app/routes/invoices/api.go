package invoices

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/config"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/services"
)

func GetRecipientsAPI(c *fiber.Ctx) error {
	recipients, err := database.GetInvoiceRecipients(config.GetDB(), auth.UserID(c))
	if err != nil {
		log.Printf("Failed to fetch recipients: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recipients"})
	}

	return c.JSON(fiber.Map{
		"recipients": recipients,
		"count":      len(recipients),
	})
}

func CreateRecipientAPI(c *fiber.Ctx) error {
	var r models.InvoiceRecipient
	if err := c.BodyParser(&r); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if r.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Recipient name is required"})
	}

	r.UserID = auth.UserID(c)
	if err := database.CreateInvoiceRecipient(config.GetDB(), &r); err != nil {
		log.Printf("Failed to create recipient: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create recipient"})
	}

	return c.Status(201).JSON(fiber.Map{"recipient": r})
}

func UpdateRecipientAPI(c *fiber.Ctx) error {
	var r models.InvoiceRecipient
	if err := c.BodyParser(&r); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if r.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Recipient name is required"})
	}

	r.ID = c.Params("id")
	r.UserID = auth.UserID(c)
	if err := database.UpdateInvoiceRecipient(config.GetDB(), &r); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Recipient not found"})
	}

	return c.JSON(fiber.Map{"recipient": r})
}

func DeleteRecipientAPI(c *fiber.Ctx) error {
	if err := database.DeleteInvoiceRecipient(config.GetDB(), auth.UserID(c), c.Params("id")); err != nil {
		log.Printf("Failed to delete recipient: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete recipient"})
	}
	return c.JSON(fiber.Map{"message": "Recipient deleted"})
}

func GetSettingsAPI(c *fiber.Ctx, store kvstore.Store) error {
	userID := auth.UserID(c)

	settings, err := database.GetInvoiceSettings(config.GetDB(), userID)
	if err != nil {
		log.Printf("Failed to fetch invoice settings: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}

	// Refresh the cached copy used by export.
	if err := store.Put(userID, kvstore.KeyInvoiceSettings, settings); err != nil {
		log.Printf("Failed to cache invoice settings: %v", err)
	}

	return c.JSON(fiber.Map{"settings": settings})
}

func UpdateSettingsAPI(c *fiber.Ctx, store kvstore.Store) error {
	var s models.InvoiceSettings
	if err := c.BodyParser(&s); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if s.TaxRate < 0 || s.TaxRate > 100 {
		return c.Status(400).JSON(fiber.Map{"error": "Tax rate must be between 0 and 100"})
	}

	s.UserID = auth.UserID(c)
	if err := database.UpdateInvoiceSettings(config.GetDB(), &s); err != nil {
		log.Printf("Failed to update invoice settings: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update settings"})
	}

	if err := store.Put(s.UserID, kvstore.KeyInvoiceSettings, &s); err != nil {
		log.Printf("Failed to cache invoice settings: %v", err)
	}

	return c.JSON(fiber.Map{"settings": s})
}

// FromShiftAPI converts a completed shift into a prefilled invoice line
// item. Hours and amounts come from the shared earnings calculator so the
// invoice can never drift from what the shift list shows.
func FromShiftAPI(c *fiber.Ctx) error {
	shift, err := database.GetShiftByID(config.GetDB(), auth.UserID(c), c.Params("id"))
	if err != nil {
		log.Printf("Failed to fetch shift for invoice: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shift"})
	}
	if shift == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Shift not found"})
	}

	hours := services.HoursWorked(shift.ElapsedSeconds(), shift.BreakSeconds)
	item := models.InvoiceLineItem{
		Date:        shift.StartedAt,
		Description: fmt.Sprintf("Work at %s", shift.Employer),
		RateType:    shift.RateType,
		Quantity:    hours,
		UnitPrice:   services.HourlyRate(shift.PayRate, shift.RateType),
	}

	return c.JSON(fiber.Map{"item": item})
}

// ExportAPI builds the invoice PDF. mode "download" streams the file;
// mode "email" additionally returns a prefilled mailto composer link in the
// X-Share-Mailto header as the web share fallback.
func ExportAPI(c *fiber.Ctx, store kvstore.Store) error {
	type ExportRequest struct {
		RecipientID string            `json:"recipient_id"`
		Items       []lineItemPayload `json:"items"`
		Mode        string            `json:"mode"`
	}

	var req ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Mode != "" && req.Mode != "download" && req.Mode != "email" {
		return c.Status(400).JSON(fiber.Map{"error": "Mode must be download or email"})
	}

	items, fieldErrs := validateLineItems(req.Items)
	if fieldErrs != nil {
		return c.Status(422).JSON(fiber.Map{"errors": fieldErrs})
	}

	userID := auth.UserID(c)

	recipient, err := database.GetInvoiceRecipientByID(config.GetDB(), userID, req.RecipientID)
	if err != nil {
		log.Printf("Failed to fetch recipient: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recipient"})
	}
	if recipient == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Recipient not found"})
	}

	settings := loadSettings(store, userID)
	taxRate := settings.TaxRate
	if taxRate == 0 {
		taxRate = config.AppConfig.InvoiceTaxRate
	}

	number, err := database.NextInvoiceNumber(config.GetDB(), userID)
	if err != nil {
		log.Printf("Failed to advance invoice number: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to allocate invoice number"})
	}

	doc := &services.InvoiceDoc{
		Number:    number,
		Issued:    time.Now(),
		Sender:    settings,
		Recipient: recipient,
		Items:     items,
		TaxRate:   taxRate,
	}

	pdfBytes, err := services.ComposeInvoicePDF(doc)
	if err != nil {
		log.Printf("Invoice PDF rendering failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate invoice PDF"})
	}

	filename := fmt.Sprintf("invoice-%d.pdf", number)
	if req.Mode == "email" {
		c.Set("X-Share-Mailto", mailtoLink(recipient, settings, number))
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(pdfBytes)
}

// loadSettings prefers the cached copy and falls back to the table. Export
// still works with zero-value settings when neither exists.
func loadSettings(store kvstore.Store, userID string) *models.InvoiceSettings {
	var cached models.InvoiceSettings
	if found, err := store.Get(userID, kvstore.KeyInvoiceSettings, &cached); err == nil && found {
		return &cached
	}

	settings, err := database.GetInvoiceSettings(config.GetDB(), userID)
	if err != nil {
		log.Printf("Failed to fetch invoice settings, exporting with defaults: %v", err)
		return &models.InvoiceSettings{UserID: userID}
	}
	if err := store.Put(userID, kvstore.KeyInvoiceSettings, settings); err != nil {
		log.Printf("Failed to cache invoice settings: %v", err)
	}
	return settings
}

func mailtoLink(r *models.InvoiceRecipient, s *models.InvoiceSettings, number int) string {
	subject := fmt.Sprintf("Invoice #%d", number)
	if s.BusinessName != "" {
		subject = fmt.Sprintf("Invoice #%d from %s", number, s.BusinessName)
	}
	body := fmt.Sprintf("Hi %s,\n\nPlease find invoice #%d attached.\n", r.Name, number)

	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	return "mailto:" + r.Email + "?" + q.Encode()
}

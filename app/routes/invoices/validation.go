package invoices

import (
	"fmt"
	"time"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// lineItemPayload is the wire form of a line item. Validation produces
// either a clean []models.InvoiceLineItem or a field-error map; handlers
// never work with half-valid payloads.
type lineItemPayload struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	RateType    string  `json:"rate_type"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func validateLineItems(payloads []lineItemPayload) ([]models.InvoiceLineItem, map[string]string) {
	errs := map[string]string{}
	if len(payloads) == 0 {
		errs["items"] = "At least one line item is required"
		return nil, errs
	}

	items := make([]models.InvoiceLineItem, 0, len(payloads))
	for i, p := range payloads {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			errs[field("date")] = "Invalid date format. Use YYYY-MM-DD"
		}
		if p.Description == "" {
			errs[field("description")] = "Description is required"
		}
		if p.RateType != "" && !models.ValidRateType(p.RateType) {
			errs[field("rate_type")] = "Invalid rate type"
		}
		if p.Quantity < 0 {
			errs[field("quantity")] = "Quantity cannot be negative"
		}
		if p.UnitPrice < 0 {
			errs[field("unit_price")] = "Unit price cannot be negative"
		}

		items = append(items, models.InvoiceLineItem{
			Date:        date,
			Description: p.Description,
			RateType:    models.RateType(p.RateType),
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

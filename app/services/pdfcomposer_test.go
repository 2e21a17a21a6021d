package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

func testInvoiceDoc() *InvoiceDoc {
	return &InvoiceDoc{
		Number: 42,
		Issued: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Sender: &models.InvoiceSettings{
			BusinessName: "Jordan Contracting",
			SenderEmail:  "jordan@example.com",
			AddressLine1: "1 High Street",
			City:         "Leeds",
			PostalCode:   "LS1 1AA",
			Country:      "UK",
		},
		Recipient: &models.InvoiceRecipient{
			Name:         "Acme Builders",
			Email:        "accounts@acme.example",
			AddressLine1: "99 Site Road",
			City:         "York",
		},
		Items: []models.InvoiceLineItem{
			{
				Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Description: "Work at Acme Builders",
				RateType:    models.RatePerHour,
				Quantity:    7.5,
				UnitPrice:   20,
			},
			{
				Date:        time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
				Description: "Work at Acme Builders",
				RateType:    models.RatePerHour,
				Quantity:    8,
				UnitPrice:   20,
			},
		},
		TaxRate: 20,
	}
}

func TestInvoiceTotals(t *testing.T) {
	doc := testInvoiceDoc()

	subtotal, tax, total := doc.Totals()
	assert.Equal(t, 310.0, subtotal)
	assert.Equal(t, 62.0, tax)
	assert.Equal(t, 372.0, total)
}

func TestInvoiceTotalsRoundAtTheEnd(t *testing.T) {
	doc := &InvoiceDoc{
		Items: []models.InvoiceLineItem{
			// 0.0667 hours at 1000/hr style fractions
			{Quantity: 0.066666, UnitPrice: 1000},
			{Quantity: 0.066666, UnitPrice: 1000},
		},
		TaxRate: 10,
	}

	subtotal, tax, total := doc.Totals()
	// Line amounts are not rounded before summing.
	assert.Equal(t, 133.33, subtotal)
	assert.Equal(t, 13.33, tax)
	assert.Equal(t, 146.67, total)
}

func TestInvoiceTotalsEmpty(t *testing.T) {
	doc := &InvoiceDoc{TaxRate: 20}
	subtotal, tax, total := doc.Totals()
	assert.Zero(t, subtotal)
	assert.Zero(t, tax)
	assert.Zero(t, total)
}

func TestComposeInvoicePDF(t *testing.T) {
	pdfBytes, err := ComposeInvoicePDF(testInvoiceDoc())
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestComposeInvoicePDFWithMissingBlocks(t *testing.T) {
	doc := testInvoiceDoc()
	doc.Sender = nil
	doc.Recipient = &models.InvoiceRecipient{Name: "Acme Builders"}

	pdfBytes, err := ComposeInvoicePDF(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
}

package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// InvoiceDoc is everything the PDF composer needs for one invoice.
type InvoiceDoc struct {
	Number    int
	Issued    time.Time
	Sender    *models.InvoiceSettings
	Recipient *models.InvoiceRecipient
	Items     []models.InvoiceLineItem
	// TaxRate is a percentage (e.g. 20 for 20%).
	TaxRate float64
}

// Totals computes subtotal, tax, and total. Rounding happens per figure at
// the end, same discipline as the earnings calculator.
func (d *InvoiceDoc) Totals() (subtotal, tax, total float64) {
	for _, item := range d.Items {
		subtotal += item.Amount()
	}
	tax = subtotal * d.TaxRate / 100
	return round2(subtotal), round2(tax), round2(subtotal + tax)
}

// ComposeInvoicePDF renders the invoice to a byte slice. On any rendering
// error nothing is returned, so no partial artifact can ever be delivered.
func ComposeInvoicePDF(doc *InvoiceDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, fmt.Sprintf("Invoice #%d", doc.Number))
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 10, doc.Issued.Format("2 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Sender and recipient address blocks, side by side
	from := senderLines(doc.Sender)
	billTo := recipientLines(doc.Recipient)
	top := pdf.GetY()
	drawAddressBlock(pdf, 10, "From", from)
	drawAddressBlock(pdf, 110, "Bill To", billTo)
	rows := len(from)
	if len(billTo) > rows {
		rows = len(billTo)
	}
	pdf.SetY(top + 6 + float64(rows)*5)
	pdf.Ln(6)

	// Line-item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(28, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(72, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 8, "Rate Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Hours", "1", 0, "R", true, 0, "")
	pdf.CellFormat(22, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(22, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range doc.Items {
		pdf.CellFormat(28, 8, item.Date.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(72, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 8, string(item.RateType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.2f", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 8, fmt.Sprintf("%.2f", round2(item.Amount())), "1", 1, "R", false, 0, "")
	}

	// Totals
	subtotal, tax, total := doc.Totals()
	pdf.Ln(2)
	drawTotalRow(pdf, "Subtotal", subtotal, false)
	drawTotalRow(pdf, fmt.Sprintf("Tax (%.1f%%)", doc.TaxRate), tax, false)
	drawTotalRow(pdf, "Total", total, true)

	if doc.Sender != nil && doc.Sender.SenderEmail != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, fmt.Sprintf("Questions? Contact %s", doc.Sender.SenderEmail))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %v", err)
	}
	return buf.Bytes(), nil
}

func drawAddressBlock(pdf *gofpdf.Fpdf, x float64, title string, lines []string) {
	y := pdf.GetY()
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(90, 6, title)
	for i, line := range lines {
		pdf.SetXY(x, y+6+float64(i)*5)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(90, 5, line)
	}
	pdf.SetY(y)
}

func drawTotalRow(pdf *gofpdf.Fpdf, label string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(146, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(22, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(22, 7, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
}

func senderLines(s *models.InvoiceSettings) []string {
	if s == nil {
		return nil
	}
	return nonEmpty(s.BusinessName, s.AddressLine1, s.AddressLine2,
		joinCityRegion(s.City, s.Region, s.PostalCode), s.Country, s.SenderEmail)
}

func recipientLines(r *models.InvoiceRecipient) []string {
	if r == nil {
		return nil
	}
	return nonEmpty(r.Name, r.AddressLine1, r.AddressLine2,
		joinCityRegion(r.City, r.Region, r.PostalCode), r.Country, r.Email)
}

func joinCityRegion(city, region, postal string) string {
	out := city
	if region != "" {
		if out != "" {
			out += ", "
		}
		out += region
	}
	if postal != "" {
		if out != "" {
			out += " "
		}
		out += postal
	}
	return out
}

func nonEmpty(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

package models

import "time"

// InvoiceLineItem is transient form state. Items only exist in the export
// request payload; nothing is persisted until they land in a PDF.
type InvoiceLineItem struct {
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"required"`
	RateType    RateType  `json:"rate_type"`
	Quantity    float64   `json:"quantity" validate:"gte=0"` // hours
	UnitPrice   float64   `json:"unit_price" validate:"gte=0"`
}

// Amount is the line total before tax.
func (li *InvoiceLineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

// InvoiceRecipient is a saved bill-to party.
type InvoiceRecipient struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID       string     `json:"user_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name         string     `json:"name" gorm:"not null" validate:"required"`
	Email        string     `json:"email" validate:"omitempty,email"`
	AddressLine1 string     `json:"address_line1"`
	AddressLine2 string     `json:"address_line2,omitempty"`
	City         string     `json:"city"`
	Region       string     `json:"region"`
	PostalCode   string     `json:"postal_code"`
	Country      string     `json:"country"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// InvoiceSettings holds the sender block and numbering for a user's invoices.
// One row per user; the kvstore keeps a read cache of this under
// KeyInvoiceSettings but the table is authoritative.
type InvoiceSettings struct {
	UserID       string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	BusinessName string    `json:"business_name"`
	SenderEmail  string    `json:"sender_email" validate:"omitempty,email"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	Region       string    `json:"region"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	TaxRate      float64   `json:"tax_rate" gorm:"type:numeric(5,2);default:0" validate:"gte=0,lte=100"`
	NextNumber   int       `json:"next_number" gorm:"default:1"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

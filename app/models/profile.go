package models

import "time"

// Subscription statuses mirrored from the payment provider onto the profile
// row. "expired" is set locally by the scheduler when a period lapses without
// a renewal event.
const (
	SubStatusActive   = "active"
	SubStatusPastDue  = "past_due"
	SubStatusCanceled = "canceled"
	SubStatusExpired  = "expired"
	SubStatusNone     = "none"
)

// Profile is the per-user record of address fields plus the mirrored
// subscription state. It is mutated by the user's own profile edits and by
// the billing glue (verify-checkout and the webhook).
type Profile struct {
	UserID               string     `json:"user_id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	AddressLine1         string     `json:"address_line1"`
	AddressLine2         string     `json:"address_line2,omitempty"`
	City                 string     `json:"city"`
	Region               string     `json:"region"`
	PostalCode           string     `json:"postal_code"`
	Country              string     `json:"country"`
	Phone                string     `json:"phone,omitempty" gorm:"type:varchar(20)"`
	StripeCustomerID     string     `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string     `json:"stripe_subscription_id,omitempty"`
	SubscriptionStatus   string     `json:"subscription_status" gorm:"default:none"`
	SubscriptionTier     string     `json:"subscription_tier,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// Subscribed reports whether the profile currently grants paid access.
func (p *Profile) Subscribed(now time.Time) bool {
	if p.SubscriptionStatus != SubStatusActive {
		return false
	}
	if p.CurrentPeriodEnd != nil && p.CurrentPeriodEnd.Before(now) {
		return false
	}
	return true
}

package database

import (
	"database/sql"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// GetOrCreateProfile returns the user's profile row, inserting an empty one
// on first access.
func GetOrCreateProfile(db *sql.DB, userID string) (*models.Profile, error) {
	query := `INSERT INTO profiles (user_id) VALUES ($1)
			  ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			  RETURNING user_id, address_line1, address_line2, city, region, postal_code, country, phone,
			            stripe_customer_id, stripe_subscription_id, subscription_status, subscription_tier,
			            current_period_end, updated_at`

	p := &models.Profile{}
	err := db.QueryRow(query, userID).Scan(
		&p.UserID, &p.AddressLine1, &p.AddressLine2, &p.City, &p.Region, &p.PostalCode, &p.Country, &p.Phone,
		&p.StripeCustomerID, &p.StripeSubscriptionID, &p.SubscriptionStatus, &p.SubscriptionTier,
		&p.CurrentPeriodEnd, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfileAddress writes the user-editable fields. Subscription fields
// are owned by the billing glue and never touched here.
func UpdateProfileAddress(db *sql.DB, p *models.Profile) error {
	query := `INSERT INTO profiles (user_id, address_line1, address_line2, city, region, postal_code, country, phone, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			  ON CONFLICT (user_id)
			  DO UPDATE SET address_line1 = EXCLUDED.address_line1,
			                address_line2 = EXCLUDED.address_line2,
			                city = EXCLUDED.city,
			                region = EXCLUDED.region,
			                postal_code = EXCLUDED.postal_code,
			                country = EXCLUDED.country,
			                phone = EXCLUDED.phone,
			                updated_at = NOW()`

	_, err := db.Exec(query, p.UserID, p.AddressLine1, p.AddressLine2, p.City, p.Region,
		p.PostalCode, p.Country, p.Phone)
	return err
}

// UpdateSubscription mirrors payment-provider state onto the profile row.
// Both verify-checkout and the webhook funnel through here; last writer wins.
func UpdateSubscription(db *sql.DB, userID, customerID, subscriptionID, status, tier string, periodEnd sql.NullTime) error {
	query := `INSERT INTO profiles (user_id, stripe_customer_id, stripe_subscription_id,
	              subscription_status, subscription_tier, current_period_end, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW())
			  ON CONFLICT (user_id)
			  DO UPDATE SET stripe_customer_id = EXCLUDED.stripe_customer_id,
			                stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			                subscription_status = EXCLUDED.subscription_status,
			                subscription_tier = EXCLUDED.subscription_tier,
			                current_period_end = EXCLUDED.current_period_end,
			                updated_at = NOW()`

	_, err := db.Exec(query, userID, customerID, subscriptionID, status, tier, periodEnd)
	return err
}

// FindUserIDByCustomer resolves a Stripe customer id back to a user, for
// webhook events that carry no client reference.
func FindUserIDByCustomer(db *sql.DB, customerID string) (string, error) {
	var userID string
	err := db.QueryRow(`SELECT user_id FROM profiles WHERE stripe_customer_id = $1`, customerID).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return userID, err
}

// ExpireLapsedSubscriptions marks subscriptions whose paid period has ended
// without a renewal event. Returns the number of rows changed.
func ExpireLapsedSubscriptions(db *sql.DB) (int64, error) {
	query := `UPDATE profiles
			  SET subscription_status = 'expired', updated_at = NOW()
			  WHERE subscription_status IN ('active', 'past_due')
			  AND current_period_end IS NOT NULL
			  AND current_period_end < NOW()`

	res, err := db.Exec(query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

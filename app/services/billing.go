package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

var ErrAlreadySubscribed = errors.New("subscription is already active")

// SubscriptionInfo is the billing payload returned to the client after a
// successful checkout verification.
type SubscriptionInfo struct {
	Tier             string     `json:"tier"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// BillingService is the glue between this app and Stripe. It only speaks
// the checkout-session and webhook contracts; everything else about the
// processor is opaque.
type BillingService struct {
	db             *sql.DB
	webhookSecret  string
	defaultPriceID string
	baseURL        string
}

func NewBillingService(db *sql.DB, secretKey, webhookSecret, defaultPriceID, baseURL string) *BillingService {
	stripe.Key = secretKey
	return &BillingService{
		db:             db,
		webhookSecret:  webhookSecret,
		defaultPriceID: defaultPriceID,
		baseURL:        baseURL,
	}
}

// CreateCheckoutSession opens a Stripe checkout for the user and returns
// the hosted payment page URL. Users with a live subscription get
// ErrAlreadySubscribed instead of a second session.
func (b *BillingService) CreateCheckoutSession(user *models.User, priceID string) (string, error) {
	profile, err := database.GetOrCreateProfile(b.db, user.ID)
	if err != nil {
		return "", err
	}
	if profile.Subscribed(time.Now()) {
		return "", ErrAlreadySubscribed
	}

	if priceID == "" {
		priceID = b.defaultPriceID
	}
	if priceID == "" {
		return "", errors.New("no price configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(user.ID),
		CustomerEmail:     stripe.String(user.Email),
		SuccessURL:        stripe.String(b.baseURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(b.baseURL + "/billing/cancelled"),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %v", err)
	}
	return sess.URL, nil
}

// VerifyCheckout retrieves a completed checkout session, activates the
// subscription on the user's profile row, and returns the mirrored state.
func (b *BillingService) VerifyCheckout(userID, sessionID string) (*SubscriptionInfo, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("subscription")

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe session lookup: %v", err)
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, fmt.Errorf("checkout session not paid: %s", sess.PaymentStatus)
	}
	if sess.Subscription == nil {
		return nil, errors.New("checkout session has no subscription")
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	sub := sess.Subscription
	status := MapSubscriptionStatus(sub.Status)
	tier := tierFromSubscription(sub)
	periodEnd := unixTime(sub.CurrentPeriodEnd)

	err = database.UpdateSubscription(b.db, userID, customerID, sub.ID, status, tier, nullTime(periodEnd))
	if err != nil {
		return nil, err
	}

	return &SubscriptionInfo{Tier: tier, Status: status, CurrentPeriodEnd: periodEnd}, nil
}

// SubscriptionStatus answers the client's "am I subscribed" poll from the
// profile row; no Stripe round trip.
func (b *BillingService) SubscriptionStatus(userID string) (subscribed bool, tier, status string, err error) {
	profile, err := database.GetOrCreateProfile(b.db, userID)
	if err != nil {
		return false, "", "", err
	}
	return profile.Subscribed(time.Now()), profile.SubscriptionTier, profile.SubscriptionStatus, nil
}

// HandleWebhook verifies the event signature and reconciles subscription
// state pushed by Stripe. Unknown event types are ignored.
func (b *BillingService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, b.webhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %v", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return b.reconcileCheckout(&sess)

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return b.reconcileSubscription(&sub)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return err
		}
		return b.markPastDue(&inv)

	default:
		log.Printf("Ignoring webhook event type %s", event.Type)
		return nil
	}
}

func (b *BillingService) reconcileCheckout(sess *stripe.CheckoutSession) error {
	userID := sess.ClientReferenceID
	if userID == "" {
		return errors.New("checkout session missing client reference")
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	subID := ""
	if sess.Subscription != nil {
		subID = sess.Subscription.ID
	}

	// The completed event does not expand the subscription; record the ids
	// as active and let the subscription.updated event fill in the period.
	return database.UpdateSubscription(b.db, userID, customerID, subID,
		models.SubStatusActive, "", sql.NullTime{})
}

func (b *BillingService) reconcileSubscription(sub *stripe.Subscription) error {
	if sub.Customer == nil {
		return errors.New("subscription event missing customer")
	}
	userID, err := database.FindUserIDByCustomer(b.db, sub.Customer.ID)
	if err != nil {
		return err
	}
	if userID == "" {
		log.Printf("Webhook for unknown customer %s, skipping", sub.Customer.ID)
		return nil
	}

	status := MapSubscriptionStatus(sub.Status)
	periodEnd := unixTime(sub.CurrentPeriodEnd)
	return database.UpdateSubscription(b.db, userID, sub.Customer.ID, sub.ID,
		status, tierFromSubscription(sub), nullTime(periodEnd))
}

func (b *BillingService) markPastDue(inv *stripe.Invoice) error {
	if inv.Customer == nil {
		return errors.New("invoice event missing customer")
	}
	userID, err := database.FindUserIDByCustomer(b.db, inv.Customer.ID)
	if err != nil || userID == "" {
		return err
	}

	profile, err := database.GetOrCreateProfile(b.db, userID)
	if err != nil {
		return err
	}
	return database.UpdateSubscription(b.db, userID, profile.StripeCustomerID,
		profile.StripeSubscriptionID, models.SubStatusPastDue, profile.SubscriptionTier,
		nullTime(profile.CurrentPeriodEnd))
}

// MapSubscriptionStatus folds Stripe's subscription statuses into the small
// set the profile row carries.
func MapSubscriptionStatus(s stripe.SubscriptionStatus) string {
	switch s {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return models.SubStatusActive
	case stripe.SubscriptionStatusPastDue:
		return models.SubStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid,
		stripe.SubscriptionStatusIncompleteExpired:
		return models.SubStatusCanceled
	default:
		return string(s)
	}
}

func tierFromSubscription(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return "pro"
	}
	price := sub.Items.Data[0].Price
	if price.Nickname != "" {
		return price.Nickname
	}
	return "pro"
}

func unixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

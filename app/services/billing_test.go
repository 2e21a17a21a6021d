package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

func TestMapSubscriptionStatus(t *testing.T) {
	tests := []struct {
		in   stripe.SubscriptionStatus
		want string
	}{
		{stripe.SubscriptionStatusActive, models.SubStatusActive},
		{stripe.SubscriptionStatusTrialing, models.SubStatusActive},
		{stripe.SubscriptionStatusPastDue, models.SubStatusPastDue},
		{stripe.SubscriptionStatusCanceled, models.SubStatusCanceled},
		{stripe.SubscriptionStatusUnpaid, models.SubStatusCanceled},
		{stripe.SubscriptionStatusIncompleteExpired, models.SubStatusCanceled},
		{stripe.SubscriptionStatusIncomplete, string(stripe.SubscriptionStatusIncomplete)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapSubscriptionStatus(tt.in), "status %s", tt.in)
	}
}

func TestUnixTime(t *testing.T) {
	assert.Nil(t, unixTime(0))

	got := unixTime(1735689600) // 2025-01-01T00:00:00Z
	assert.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *got)
}

func TestProfileSubscribed(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		profile models.Profile
		want    bool
	}{
		{"active with future period end", models.Profile{SubscriptionStatus: models.SubStatusActive, CurrentPeriodEnd: &future}, true},
		{"active with no period end", models.Profile{SubscriptionStatus: models.SubStatusActive}, true},
		{"active but lapsed", models.Profile{SubscriptionStatus: models.SubStatusActive, CurrentPeriodEnd: &past}, false},
		{"past due", models.Profile{SubscriptionStatus: models.SubStatusPastDue, CurrentPeriodEnd: &future}, false},
		{"canceled", models.Profile{SubscriptionStatus: models.SubStatusCanceled}, false},
		{"none", models.Profile{SubscriptionStatus: models.SubStatusNone}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Subscribed(now))
		})
	}
}

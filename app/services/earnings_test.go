package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

func TestHourlyRateNormalization(t *testing.T) {
	tests := []struct {
		name     string
		payRate  float64
		rateType models.RateType
		want     float64
	}{
		{"hourly passes through", 20, models.RatePerHour, 20},
		{"daily divides by 8", 160, models.RatePerDay, 20},
		{"weekly divides by 40", 800, models.RatePerWeek, 20},
		{"monthly divides by 160", 3200, models.RatePerMonth, 20},
		{"zero rate", 0, models.RatePerHour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HourlyRate(tt.payRate, tt.rateType), 1e-9)
		})
	}
}

func TestEarnings(t *testing.T) {
	// 20/hr, one hour elapsed with a 15 minute break: 20 * 2700/3600
	assert.Equal(t, 15.00, Earnings(3600, 900, 20, models.RatePerHour))

	// 1000/hr for four minutes rounds only at the end
	assert.Equal(t, 66.67, Earnings(240, 0, 1000, models.RatePerHour))
	assert.InDelta(t, 0.0667, HoursWorked(240, 0), 0.0001)

	// Breaks exceeding elapsed time floor at zero
	assert.Equal(t, 0.0, Earnings(600, 900, 20, models.RatePerHour))

	// Daily rate normalizes before multiplying
	assert.Equal(t, 20.0, Earnings(3600, 0, 160, models.RatePerDay))
}

func TestEarningsMonotonicInElapsed(t *testing.T) {
	const breakSeconds = 1800
	prev := -1.0
	for elapsed := int64(0); elapsed <= 12*3600; elapsed += 97 {
		got := Earnings(elapsed, breakSeconds, 33.5, models.RatePerHour)
		assert.GreaterOrEqual(t, got, prev, "earnings decreased at elapsed=%d", elapsed)
		prev = got
	}
}

func TestHoursWorkedFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, HoursWorked(100, 200))
	assert.Equal(t, 1.0, HoursWorked(3600, 0))
	assert.Equal(t, 0.75, HoursWorked(3600, 900))
}

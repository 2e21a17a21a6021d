package services

import (
	"math"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// Fixed conventions for normalizing quoted rates to an hourly equivalent.
const (
	HoursPerDay   = 8.0
	HoursPerWeek  = 40.0
	HoursPerMonth = 160.0
)

// HourlyRate converts a quoted pay rate to its hourly equivalent.
func HourlyRate(payRate float64, rateType models.RateType) float64 {
	switch rateType {
	case models.RatePerDay:
		return payRate / HoursPerDay
	case models.RatePerWeek:
		return payRate / HoursPerWeek
	case models.RatePerMonth:
		return payRate / HoursPerMonth
	default:
		return payRate
	}
}

// HoursWorked is billable time: elapsed minus breaks, floored at zero,
// in hours. Unrounded; callers round for display.
func HoursWorked(elapsedSeconds, breakSeconds int64) float64 {
	worked := elapsedSeconds - breakSeconds
	if worked < 0 {
		worked = 0
	}
	return float64(worked) / 3600
}

// Earnings is the single source of truth for pay calculations. Every
// display, storage, and PDF path goes through here. Rounding to two
// decimals happens only at this final step so intermediate values never
// compound rounding error.
func Earnings(elapsedSeconds, breakSeconds int64, payRate float64, rateType models.RateType) float64 {
	return round2(HoursWorked(elapsedSeconds, breakSeconds) * HourlyRate(payRate, rateType))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

package dashboard

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/config"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
)

// GetSummaryAPI aggregates the user's completed shifts per employer over
// the requested period (week, month, or all time).
func GetSummaryAPI(c *fiber.Ctx) error {
	period := c.Query("period", "all")

	var since sql.NullTime
	now := time.Now()
	switch period {
	case "week":
		since = sql.NullTime{Time: now.AddDate(0, 0, -7), Valid: true}
	case "month":
		since = sql.NullTime{Time: now.AddDate(0, -1, 0), Valid: true}
	case "all":
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Period must be week, month or all"})
	}

	summaries, err := database.GetShiftSummaries(config.GetDB(), auth.UserID(c), since)
	if err != nil {
		log.Printf("Failed to fetch dashboard summary: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch summary"})
	}

	var totalShifts int
	var totalWorked, totalBreak int64
	var totalEarnings float64
	for _, s := range summaries {
		totalShifts += s.ShiftCount
		totalWorked += s.WorkedSeconds
		totalBreak += s.BreakSeconds
		totalEarnings += s.Earnings
	}

	return c.JSON(fiber.Map{
		"period":         period,
		"shift_count":    totalShifts,
		"worked_seconds": totalWorked,
		"break_seconds":  totalBreak,
		"earnings":       totalEarnings,
		"by_employer":    summaries,
	})
}

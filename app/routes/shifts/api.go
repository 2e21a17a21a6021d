package shifts

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/config"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/services"
)

func BeginShiftAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	type BeginRequest struct {
		Employer string  `json:"employer"`
		PayRate  float64 `json:"pay_rate"`
		RateType string  `json:"rate_type"`
	}

	var req BeginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Employer == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Employer is required"})
	}
	if req.PayRate < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Pay rate cannot be negative"})
	}
	if !models.ValidRateType(req.RateType) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid rate type. Must be Per Hour, Per Day, Per Week or Per Month"})
	}

	snap, err := tracker.Begin(auth.UserID(c), req.Employer, req.PayRate, models.RateType(req.RateType))
	if err != nil {
		return trackerError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"shift": snap})
}

func ApproveStartAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	req, ok := parseApproval(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	snap, err := tracker.ApproveStart(auth.UserID(c), req.ManagerName, req.Signature)
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{"shift": snap})
}

func StartBreakAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	snap, br, err := tracker.StartBreak(auth.UserID(c))
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{"shift": snap, "break": br})
}

func EndBreakAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	snap, err := tracker.EndBreak(auth.UserID(c))
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{"shift": snap})
}

func RequestEndAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	snap, err := tracker.RequestEnd(auth.UserID(c))
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{"shift": snap})
}

func ApproveEndAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	req, ok := parseApproval(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	record, err := tracker.ApproveEnd(auth.UserID(c), req.ManagerName, req.Signature)
	if err != nil {
		var fe services.FieldErrors
		if errors.As(err, &fe) {
			return c.Status(422).JSON(fiber.Map{"errors": fe})
		}
		if errors.Is(err, services.ErrNoShift) || errors.Is(err, services.ErrWrongPhase) {
			return trackerError(c, err)
		}
		// Remote write failed; the in-progress state is preserved so the
		// user can retry.
		log.Printf("Failed to finalize shift: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save shift. Your shift is still active, please try again."})
	}

	return c.Status(201).JSON(fiber.Map{
		"shift":        record,
		"hours_worked": services.HoursWorked(record.ElapsedSeconds(), record.BreakSeconds),
	})
}

func CancelShiftAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	if err := tracker.Cancel(auth.UserID(c)); err != nil {
		return trackerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shift cancelled"})
}

func ActiveShiftAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	state, err := tracker.Restore(auth.UserID(c))
	if err != nil {
		log.Printf("Failed to restore shift state: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to restore shift state"})
	}
	if state == nil {
		return c.JSON(fiber.Map{"active": false})
	}

	resp := fiber.Map{
		"active":    true,
		"shift":     state.Shift,
		"break":     state.Break,
		"recovered": state.Recovered,
	}

	// Live earnings preview for the running shift.
	if state.Shift.StartedAt != nil {
		elapsed := int64(time.Since(*state.Shift.StartedAt) / time.Second)
		breakSeconds := state.Shift.BreakSeconds
		resp["elapsed_seconds"] = elapsed
		resp["earnings_so_far"] = services.Earnings(elapsed, breakSeconds, state.Shift.PayRate, state.Shift.RateType)
	}

	return c.JSON(resp)
}

func ListShiftsAPI(c *fiber.Ctx) error {
	shifts, err := database.GetShiftsByUser(config.GetDB(), auth.UserID(c))
	if err != nil {
		log.Printf("Failed to fetch shifts: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shifts"})
	}

	type shiftRow struct {
		*models.ShiftRecord
		HoursWorked float64 `json:"hours_worked"`
	}
	rows := make([]shiftRow, len(shifts))
	for i, s := range shifts {
		rows[i] = shiftRow{
			ShiftRecord: s,
			HoursWorked: services.HoursWorked(s.ElapsedSeconds(), s.BreakSeconds),
		}
	}

	return c.JSON(fiber.Map{
		"shifts": rows,
		"count":  len(rows),
	})
}

func GetShiftAPI(c *fiber.Ctx) error {
	shiftID := c.Params("id")
	if shiftID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Shift ID is required"})
	}

	shift, err := database.GetShiftByID(config.GetDB(), auth.UserID(c), shiftID)
	if err != nil {
		log.Printf("Failed to fetch shift %s: %v", shiftID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shift"})
	}
	if shift == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Shift not found"})
	}

	return c.JSON(fiber.Map{
		"shift":        shift,
		"hours_worked": services.HoursWorked(shift.ElapsedSeconds(), shift.BreakSeconds),
	})
}

func DeleteShiftAPI(c *fiber.Ctx, tracker *services.ShiftTracker) error {
	shiftID := c.Params("id")
	if shiftID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Shift ID is required"})
	}
	userID := auth.UserID(c)

	deleted, err := database.DeleteShift(config.GetDB(), userID, shiftID)
	if err != nil {
		log.Printf("Failed to delete shift %s: %v", shiftID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete shift"})
	}
	if !deleted {
		return c.Status(404).JSON(fiber.Map{"error": "Shift not found"})
	}

	// Drop the cached break blob along with the remote record.
	if err := tracker.ClearShiftCache(userID, shiftID); err != nil {
		log.Printf("Failed to clear cached breaks for shift %s: %v", shiftID, err)
	}

	return c.JSON(fiber.Map{"message": "Shift deleted"})
}

type approvalRequest struct {
	ManagerName string `json:"manager_name"`
	Signature   string `json:"signature"`
}

func parseApproval(c *fiber.Ctx) (approvalRequest, bool) {
	var req approvalRequest
	if err := c.BodyParser(&req); err != nil {
		return req, false
	}
	return req, true
}

// trackerError maps state machine errors onto HTTP statuses.
func trackerError(c *fiber.Ctx, err error) error {
	var fe services.FieldErrors
	switch {
	case errors.As(err, &fe):
		return c.Status(422).JSON(fiber.Map{"errors": fe})
	case errors.Is(err, services.ErrNoShift):
		return c.Status(404).JSON(fiber.Map{"error": "No shift in progress"})
	case errors.Is(err, services.ErrShiftInProgress):
		return c.Status(409).JSON(fiber.Map{"error": "A shift is already in progress"})
	case errors.Is(err, services.ErrBreakActive):
		return c.Status(409).JSON(fiber.Map{"error": "A break is already active"})
	case errors.Is(err, services.ErrNoBreak):
		return c.Status(409).JSON(fiber.Map{"error": "No break is active"})
	case errors.Is(err, services.ErrWrongPhase):
		return c.Status(409).JSON(fiber.Map{"error": "Operation not allowed in the current shift phase"})
	default:
		log.Printf("Shift tracker error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal error"})
	}
}

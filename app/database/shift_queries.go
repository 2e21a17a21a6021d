package database

import (
	"database/sql"
	"fmt"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// CreateShiftWithBreaks writes a finalized shift and its break intervals in
// one transaction. Either everything lands or nothing does, so a failed
// write leaves the caller free to retry from its in-progress state.
func CreateShiftWithBreaks(db *sql.DB, shift *models.ShiftRecord, breaks []*models.BreakInterval) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryShift := `INSERT INTO shifts (id, user_id, employer, started_at, ended_at, break_seconds,
	                 pay_rate, rate_type, start_manager, end_manager, start_signature, end_signature, earnings)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	               RETURNING created_at`
	err = tx.QueryRow(queryShift,
		shift.ID,
		shift.UserID,
		shift.Employer,
		shift.StartedAt,
		shift.EndedAt,
		shift.BreakSeconds,
		shift.PayRate,
		string(shift.RateType),
		shift.StartManager,
		shift.EndManager,
		shift.StartSignature,
		shift.EndSignature,
		shift.Earnings,
	).Scan(&shift.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %v", err)
	}

	queryBreak := `INSERT INTO break_intervals (id, shift_id, started_at, ended_at)
	               VALUES ($1, $2, $3, $4)`
	for _, b := range breaks {
		if _, err := tx.Exec(queryBreak, b.ID, shift.ID, b.StartedAt, b.EndedAt); err != nil {
			return fmt.Errorf("failed to insert break interval: %v", err)
		}
	}

	return tx.Commit()
}

// GetShiftsByUser returns a user's completed shifts, newest first.
func GetShiftsByUser(db *sql.DB, userID string) ([]*models.ShiftRecord, error) {
	query := `SELECT id, user_id, employer, started_at, ended_at, break_seconds,
	                 pay_rate, rate_type, start_manager, end_manager, earnings, created_at
	          FROM shifts
	          WHERE user_id = $1
	          ORDER BY started_at DESC`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*models.ShiftRecord
	for rows.Next() {
		s := &models.ShiftRecord{}
		var rateType string
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Employer, &s.StartedAt, &s.EndedAt, &s.BreakSeconds,
			&s.PayRate, &rateType, &s.StartManager, &s.EndManager, &s.Earnings, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		s.RateType = models.RateType(rateType)
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}

// GetShiftByID fetches one shift with its break intervals. Returns nil, nil
// when the shift does not exist or belongs to another user.
func GetShiftByID(db *sql.DB, userID, shiftID string) (*models.ShiftRecord, error) {
	query := `SELECT id, user_id, employer, started_at, ended_at, break_seconds,
	                 pay_rate, rate_type, start_manager, end_manager,
	                 start_signature, end_signature, earnings, created_at
	          FROM shifts
	          WHERE id = $1 AND user_id = $2`

	s := &models.ShiftRecord{}
	var rateType string
	err := db.QueryRow(query, shiftID, userID).Scan(
		&s.ID, &s.UserID, &s.Employer, &s.StartedAt, &s.EndedAt, &s.BreakSeconds,
		&s.PayRate, &rateType, &s.StartManager, &s.EndManager,
		&s.StartSignature, &s.EndSignature, &s.Earnings, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.RateType = models.RateType(rateType)

	breaks, err := GetBreaksByShift(db, s.ID)
	if err != nil {
		return nil, err
	}
	s.Breaks = breaks

	return s, nil
}

// GetBreaksByShift returns the break intervals recorded for a shift.
func GetBreaksByShift(db *sql.DB, shiftID string) ([]*models.BreakInterval, error) {
	query := `SELECT id, shift_id, started_at, ended_at
	          FROM break_intervals
	          WHERE shift_id = $1
	          ORDER BY started_at`

	rows, err := db.Query(query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breaks []*models.BreakInterval
	for rows.Next() {
		b := &models.BreakInterval{}
		if err := rows.Scan(&b.ID, &b.ShiftID, &b.StartedAt, &b.EndedAt); err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}

	return breaks, rows.Err()
}

// DeleteShift removes a shift and its break intervals. Reports whether a row
// was actually deleted so handlers can 404 on unknown ids.
func DeleteShift(db *sql.DB, userID, shiftID string) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM break_intervals WHERE shift_id = $1`, shiftID); err != nil {
		return false, fmt.Errorf("failed to delete break intervals: %v", err)
	}

	res, err := tx.Exec(`DELETE FROM shifts WHERE id = $1 AND user_id = $2`, shiftID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete shift: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ShiftSummary is the dashboard rollup for one employer.
type ShiftSummary struct {
	Employer      string  `json:"employer"`
	ShiftCount    int     `json:"shift_count"`
	WorkedSeconds int64   `json:"worked_seconds"`
	BreakSeconds  int64   `json:"break_seconds"`
	Earnings      float64 `json:"earnings"`
}

// GetShiftSummaries aggregates a user's shifts since the given cutoff,
// grouped by employer. A zero cutoff means all time.
func GetShiftSummaries(db *sql.DB, userID string, since sql.NullTime) ([]*ShiftSummary, error) {
	query := `SELECT employer,
	                 COUNT(*),
	                 COALESCE(SUM(EXTRACT(EPOCH FROM (ended_at - started_at))::bigint - break_seconds), 0),
	                 COALESCE(SUM(break_seconds), 0),
	                 COALESCE(SUM(earnings), 0)
	          FROM shifts
	          WHERE user_id = $1 AND ($2::timestamptz IS NULL OR started_at >= $2)
	          GROUP BY employer
	          ORDER BY employer`

	rows, err := db.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*ShiftSummary, 0)
	for rows.Next() {
		s := &ShiftSummary{}
		if err := rows.Scan(&s.Employer, &s.ShiftCount, &s.WorkedSeconds, &s.BreakSeconds, &s.Earnings); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

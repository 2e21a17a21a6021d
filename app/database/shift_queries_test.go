package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

func testShift() (*models.ShiftRecord, []*models.BreakInterval) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	breakEnd := start.Add(90 * time.Minute)

	shift := &models.ShiftRecord{
		ID:           "7d5e7a1a-0000-4000-8000-000000000010",
		UserID:       "3f1c2f4e-0000-4000-8000-000000000001",
		Employer:     "Acme Builders",
		StartedAt:    start,
		EndedAt:      end,
		BreakSeconds: 1800,
		PayRate:      20,
		RateType:     models.RatePerHour,
		StartManager: "Dana",
		EndManager:   "Morgan",
		Earnings:     20,
	}
	breaks := []*models.BreakInterval{
		{
			ID:        "9c3e1b2d-0000-4000-8000-000000000020",
			ShiftID:   shift.ID,
			StartedAt: start.Add(time.Hour),
			EndedAt:   &breakEnd,
		},
	}
	return shift, breaks
}

func TestCreateShiftWithBreaks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	shift, breaks := testShift()
	created := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO shifts").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectExec("INSERT INTO break_intervals").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = CreateShiftWithBreaks(db, shift, breaks)
	require.NoError(t, err)
	assert.True(t, shift.CreatedAt.Equal(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShiftWithBreaksRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	shift, breaks := testShift()
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO shifts").WillReturnError(boom)
	mock.ExpectRollback()

	err = CreateShiftWithBreaks(db, shift, breaks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert shift")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetShiftsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	shift, _ := testShift()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "employer", "started_at", "ended_at", "break_seconds",
		"pay_rate", "rate_type", "start_manager", "end_manager", "earnings", "created_at",
	}).AddRow(
		shift.ID, shift.UserID, shift.Employer, shift.StartedAt, shift.EndedAt, shift.BreakSeconds,
		shift.PayRate, string(shift.RateType), shift.StartManager, shift.EndManager, shift.Earnings, time.Now(),
	)

	mock.ExpectQuery("FROM shifts").WithArgs(shift.UserID).WillReturnRows(rows)

	shifts, err := GetShiftsByUser(db, shift.UserID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, shift.ID, shifts[0].ID)
	assert.Equal(t, models.RatePerHour, shifts[0].RateType)
	assert.Equal(t, int64(5400), shifts[0].ElapsedSeconds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetShiftByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM shifts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	shift, err := GetShiftByID(db, "user", "missing")
	require.NoError(t, err)
	assert.Nil(t, shift)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteShift(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM break_intervals").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM shifts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := DeleteShift(db, "user", "shift")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteShiftUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM break_intervals").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM shifts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := DeleteShift(db, "user", "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

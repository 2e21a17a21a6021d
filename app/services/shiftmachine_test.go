package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

const testUser = "3f1c2f4e-0000-4000-8000-000000000001"

// testClock is a controllable wall clock for driving the tracker.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock(iso string) *testClock {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		panic(err)
	}
	return &testClock{t: ts}
}

// capturePersist records what the tracker tried to save and can be told to
// fail.
type capturePersist struct {
	shift  *models.ShiftRecord
	breaks []*models.BreakInterval
	err    error
}

func (p *capturePersist) persist(shift *models.ShiftRecord, breaks []*models.BreakInterval) error {
	if p.err != nil {
		return p.err
	}
	p.shift = shift
	p.breaks = breaks
	return nil
}

func newTestTracker(t *testing.T) (*ShiftTracker, *kvstore.MemoryStore, *testClock, *capturePersist) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	clock := newTestClock("2025-03-10T09:00:00Z")
	persist := &capturePersist{}
	tracker := NewShiftTracker(store, persist.persist).WithClock(clock.now)
	return tracker, store, clock, persist
}

func startActiveShift(t *testing.T, tracker *ShiftTracker) *ShiftSnapshot {
	t.Helper()
	_, err := tracker.Begin(testUser, "Acme Builders", 20, models.RatePerHour)
	require.NoError(t, err)
	snap, err := tracker.ApproveStart(testUser, "Dana", "sig-data")
	require.NoError(t, err)
	return snap
}

func TestBeginRejectsSecondShift(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)

	_, err := tracker.Begin(testUser, "Acme Builders", 20, models.RatePerHour)
	require.NoError(t, err)

	_, err = tracker.Begin(testUser, "Other Co", 25, models.RatePerHour)
	assert.ErrorIs(t, err, ErrShiftInProgress)
}

func TestApproveStartRequiresManagerAndSignature(t *testing.T) {
	tracker, store, _, _ := newTestTracker(t)

	_, err := tracker.Begin(testUser, "Acme Builders", 20, models.RatePerHour)
	require.NoError(t, err)

	for _, tc := range []struct {
		name      string
		manager   string
		signature string
		fields    []string
	}{
		{"blank manager", "", "sig", []string{"manager_name"}},
		{"blank signature", "Dana", "", []string{"signature"}},
		{"both blank", "", "", []string{"manager_name", "signature"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tracker.ApproveStart(testUser, tc.manager, tc.signature)

			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			for _, f := range tc.fields {
				assert.Contains(t, fe, f)
			}

			// State must be untouched: still awaiting approval, not started.
			var snap ShiftSnapshot
			found, err := store.Get(testUser, kvstore.KeyCurrentShift, &snap)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, PhaseAwaitingStartApproval, snap.Phase)
			assert.Nil(t, snap.StartedAt)
		})
	}
}

func TestApproveStartActivatesShift(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)

	snap := startActiveShift(t, tracker)

	assert.Equal(t, PhaseActive, snap.Phase)
	require.NotNil(t, snap.StartedAt)
	assert.True(t, snap.StartedAt.Equal(clock.t))
	assert.Equal(t, "Dana", snap.StartManager)
}

func TestBreakCycle(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	startActiveShift(t, tracker)

	snap, br, err := tracker.StartBreak(testUser)
	require.NoError(t, err)
	assert.Equal(t, PhaseBreakActive, snap.Phase)
	assert.True(t, br.Active)

	// Only one break may run at a time.
	_, _, err = tracker.StartBreak(testUser)
	assert.ErrorIs(t, err, ErrBreakActive)

	clock.advance(15 * time.Minute)
	snap, err = tracker.EndBreak(testUser)
	require.NoError(t, err)
	assert.Equal(t, PhaseActive, snap.Phase)
	assert.Equal(t, int64(900), snap.BreakSeconds)

	// Second cycle accumulates.
	_, _, err = tracker.StartBreak(testUser)
	require.NoError(t, err)
	clock.advance(5 * time.Minute)
	snap, err = tracker.EndBreak(testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), snap.BreakSeconds)
}

func TestEndBreakWithoutBreak(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	startActiveShift(t, tracker)

	_, err := tracker.EndBreak(testUser)
	assert.ErrorIs(t, err, ErrNoBreak)
}

func TestApproveEndClosesOpenBreak(t *testing.T) {
	// Shift 09:00, break at 10:00 never closed, end at 10:30:
	// break = 30 min, worked = 1h, earnings = payRate * 1.
	tracker, _, clock, persist := newTestTracker(t)
	startActiveShift(t, tracker)

	clock.advance(1 * time.Hour)
	_, _, err := tracker.StartBreak(testUser)
	require.NoError(t, err)

	clock.advance(30 * time.Minute)
	_, err = tracker.RequestEnd(testUser)
	require.NoError(t, err)

	record, err := tracker.ApproveEnd(testUser, "Morgan", "sig-out")
	require.NoError(t, err)

	assert.Equal(t, int64(1800), record.BreakSeconds)
	assert.Equal(t, int64(5400), record.ElapsedSeconds())
	assert.Equal(t, 20.0, record.Earnings)
	assert.Equal(t, "Dana", record.StartManager)
	assert.Equal(t, "Morgan", record.EndManager)

	// The open interval was closed before persisting.
	require.Len(t, persist.breaks, 1)
	require.NotNil(t, persist.breaks[0].EndedAt)
	assert.True(t, persist.breaks[0].EndedAt.Equal(clock.t))
}

func TestApproveEndValidation(t *testing.T) {
	tracker, store, clock, persist := newTestTracker(t)
	startActiveShift(t, tracker)
	clock.advance(time.Hour)
	_, err := tracker.RequestEnd(testUser)
	require.NoError(t, err)

	_, err = tracker.ApproveEnd(testUser, "", "")
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Nil(t, persist.shift)

	var snap ShiftSnapshot
	found, err := store.Get(testUser, kvstore.KeyCurrentShift, &snap)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, PhaseAwaitingEndApproval, snap.Phase)
}

func TestApproveEndKeepsStateOnPersistFailure(t *testing.T) {
	tracker, store, clock, persist := newTestTracker(t)
	startActiveShift(t, tracker)
	clock.advance(time.Hour)
	_, err := tracker.RequestEnd(testUser)
	require.NoError(t, err)

	persist.err = errors.New("connection refused")
	_, err = tracker.ApproveEnd(testUser, "Morgan", "sig-out")
	require.Error(t, err)

	// In-progress state survives so the user can retry.
	var snap ShiftSnapshot
	found, getErr := store.Get(testUser, kvstore.KeyCurrentShift, &snap)
	require.NoError(t, getErr)
	require.True(t, found)
	assert.Equal(t, PhaseAwaitingEndApproval, snap.Phase)

	// Retry after the write path recovers.
	persist.err = nil
	record, err := tracker.ApproveEnd(testUser, "Morgan", "sig-out")
	require.NoError(t, err)
	assert.Equal(t, 20.0, record.Earnings)

	found, getErr = store.Get(testUser, kvstore.KeyCurrentShift, &snap)
	require.NoError(t, getErr)
	assert.False(t, found, "keys should be cleared after a successful save")
}

func TestApproveEndClampsBreakToElapsed(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)

	snap := startActiveShift(t, tracker)
	_ = snap

	// Fake an over-accumulated break via a long suspended break and a
	// short shift: break starts immediately and never ends.
	_, _, err := tracker.StartBreak(testUser)
	require.NoError(t, err)
	clock.advance(10 * time.Minute)
	_, err = tracker.RequestEnd(testUser)
	require.NoError(t, err)

	record, err := tracker.ApproveEnd(testUser, "Morgan", "sig-out")
	require.NoError(t, err)
	assert.LessOrEqual(t, record.BreakSeconds, record.ElapsedSeconds())
	assert.Equal(t, 0.0, record.Earnings)
}

func TestRequestEndPhases(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)

	_, err := tracker.Begin(testUser, "Acme Builders", 20, models.RatePerHour)
	require.NoError(t, err)

	// Not allowed before start approval.
	_, err = tracker.RequestEnd(testUser)
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, err = tracker.ApproveStart(testUser, "Dana", "sig")
	require.NoError(t, err)

	// Allowed from break-active; the break survives until ApproveEnd.
	_, _, err = tracker.StartBreak(testUser)
	require.NoError(t, err)
	snap, err := tracker.RequestEnd(testUser)
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaitingEndApproval, snap.Phase)
}

func TestCancelClearsState(t *testing.T) {
	tracker, store, _, _ := newTestTracker(t)
	snap := startActiveShift(t, tracker)

	require.NoError(t, tracker.Cancel(testUser))

	var s ShiftSnapshot
	found, err := store.Get(testUser, kvstore.KeyCurrentShift, &s)
	require.NoError(t, err)
	assert.False(t, found)

	var intervals []*models.BreakInterval
	found, err = store.Get(testUser, kvstore.KeyShiftBreaks(snap.ShiftID), &intervals)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOperationsWithoutShift(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)

	_, err := tracker.ApproveStart(testUser, "Dana", "sig")
	assert.ErrorIs(t, err, ErrNoShift)
	_, _, err = tracker.StartBreak(testUser)
	assert.ErrorIs(t, err, ErrNoShift)
	_, err = tracker.RequestEnd(testUser)
	assert.ErrorIs(t, err, ErrNoShift)
	_, err = tracker.ApproveEnd(testUser, "Dana", "sig")
	assert.ErrorIs(t, err, ErrNoShift)
	assert.ErrorIs(t, tracker.Cancel(testUser), ErrNoShift)
}

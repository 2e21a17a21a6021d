package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// ShiftPhase is where an in-progress shift sits in its lifecycle.
type ShiftPhase string

const (
	PhaseIdle                  ShiftPhase = "idle"
	PhaseAwaitingStartApproval ShiftPhase = "awaiting-start-approval"
	PhaseActive                ShiftPhase = "active"
	PhaseBreakActive           ShiftPhase = "break-active"
	PhaseAwaitingEndApproval   ShiftPhase = "awaiting-end-approval"
)

// ShiftSnapshot is the serialized in-progress shift, stored under
// kvstore.KeyCurrentShift and rewritten on every transition so a reload
// never loses state.
type ShiftSnapshot struct {
	Phase          ShiftPhase      `json:"phase"`
	ShiftID        string          `json:"shift_id"`
	Employer       string          `json:"employer"`
	PayRate        float64         `json:"pay_rate"`
	RateType       models.RateType `json:"rate_type"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	StartManager   string          `json:"start_manager,omitempty"`
	StartSignature string          `json:"start_signature,omitempty"`
	BreakSeconds   int64           `json:"break_seconds"`
}

// BreakSnapshot is the in-progress break, stored under
// kvstore.KeyCurrentBreak. StartedAt is only meaningful while Active.
type BreakSnapshot struct {
	Active    bool      `json:"active"`
	StartedAt time.Time `json:"started_at"`
}

// FieldErrors carries per-field validation failures from approval
// transitions. The shift state is guaranteed untouched when one is
// returned.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(fe))
}

var (
	ErrShiftInProgress = errors.New("a shift is already in progress")
	ErrNoShift         = errors.New("no shift in progress")
	ErrWrongPhase      = errors.New("operation not allowed in current phase")
	ErrBreakActive     = errors.New("a break is already active")
	ErrNoBreak         = errors.New("no break is active")
)

// PersistFunc writes a finalized shift and its break intervals to durable
// storage. Injected so the machine can be exercised without a database.
type PersistFunc func(shift *models.ShiftRecord, breaks []*models.BreakInterval) error

// ShiftTracker runs the shift/break state machine for each user, keeping
// the recoverable snapshots in the kvstore after every transition.
type ShiftTracker struct {
	store   kvstore.Store
	persist PersistFunc
	now     func() time.Time
}

func NewShiftTracker(store kvstore.Store, persist PersistFunc) *ShiftTracker {
	return &ShiftTracker{store: store, persist: persist, now: time.Now}
}

// WithClock overrides the tracker's clock. Test hook.
func (t *ShiftTracker) WithClock(now func() time.Time) *ShiftTracker {
	t.now = now
	return t
}

func (t *ShiftTracker) loadShift(userID string) (*ShiftSnapshot, error) {
	var snap ShiftSnapshot
	found, err := t.store.Get(userID, kvstore.KeyCurrentShift, &snap)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &snap, nil
}

func (t *ShiftTracker) loadBreak(userID string) (*BreakSnapshot, error) {
	var br BreakSnapshot
	found, err := t.store.Get(userID, kvstore.KeyCurrentBreak, &br)
	if err != nil {
		return nil, err
	}
	if !found {
		return &BreakSnapshot{}, nil
	}
	return &br, nil
}

func (t *ShiftTracker) loadIntervals(userID, shiftID string) ([]*models.BreakInterval, error) {
	var intervals []*models.BreakInterval
	if _, err := t.store.Get(userID, kvstore.KeyShiftBreaks(shiftID), &intervals); err != nil {
		return nil, err
	}
	return intervals, nil
}

// Begin opens a new shift in the start-approval phase. Employer and rate
// are captured now; the clock does not start until a manager approves.
func (t *ShiftTracker) Begin(userID, employer string, payRate float64, rateType models.RateType) (*ShiftSnapshot, error) {
	existing, err := t.loadShift(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrShiftInProgress
	}

	snap := &ShiftSnapshot{
		Phase:    PhaseAwaitingStartApproval,
		ShiftID:  uuid.NewString(),
		Employer: employer,
		PayRate:  payRate,
		RateType: rateType,
	}
	if err := t.store.Put(userID, kvstore.KeyCurrentShift, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ApproveStart moves the shift to active. Both the manager name and the
// captured signature must be non-empty; otherwise nothing changes.
func (t *ShiftTracker) ApproveStart(userID, managerName, signature string) (*ShiftSnapshot, error) {
	snap, err := t.loadShift(userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoShift
	}
	if snap.Phase != PhaseAwaitingStartApproval {
		return nil, ErrWrongPhase
	}
	if fe := approvalErrors(managerName, signature); len(fe) > 0 {
		return nil, fe
	}

	started := t.now()
	snap.Phase = PhaseActive
	snap.StartedAt = &started
	snap.StartManager = managerName
	snap.StartSignature = signature
	if err := t.store.Put(userID, kvstore.KeyCurrentShift, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// StartBreak opens a break interval. At most one break can be active.
func (t *ShiftTracker) StartBreak(userID string) (*ShiftSnapshot, *BreakSnapshot, error) {
	snap, err := t.loadShift(userID)
	if err != nil {
		return nil, nil, err
	}
	if snap == nil {
		return nil, nil, ErrNoShift
	}
	switch snap.Phase {
	case PhaseBreakActive:
		return nil, nil, ErrBreakActive
	case PhaseActive:
	default:
		return nil, nil, ErrWrongPhase
	}

	now := t.now()
	br := &BreakSnapshot{Active: true, StartedAt: now}

	intervals, err := t.loadIntervals(userID, snap.ShiftID)
	if err != nil {
		return nil, nil, err
	}
	intervals = append(intervals, &models.BreakInterval{
		ID:        uuid.NewString(),
		ShiftID:   snap.ShiftID,
		StartedAt: now,
	})

	snap.Phase = PhaseBreakActive
	if err := t.store.Put(userID, kvstore.KeyShiftBreaks(snap.ShiftID), intervals); err != nil {
		return nil, nil, err
	}
	if err := t.store.Put(userID, kvstore.KeyCurrentBreak, br); err != nil {
		return nil, nil, err
	}
	if err := t.store.Put(userID, kvstore.KeyCurrentShift, snap); err != nil {
		return nil, nil, err
	}
	return snap, br, nil
}

// EndBreak closes the open interval and folds its duration into the
// shift's accumulated break seconds.
func (t *ShiftTracker) EndBreak(userID string) (*ShiftSnapshot, error) {
	snap, err := t.loadShift(userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoShift
	}
	if snap.Phase != PhaseBreakActive {
		return nil, ErrNoBreak
	}

	br, err := t.loadBreak(userID)
	if err != nil {
		return nil, err
	}
	now := t.now()
	if br.Active {
		snap.BreakSeconds += elapsedSeconds(br.StartedAt, now)
	}

	intervals, err := t.loadIntervals(userID, snap.ShiftID)
	if err != nil {
		return nil, err
	}
	closeOpenInterval(intervals, now)

	snap.Phase = PhaseActive
	if err := t.store.Put(userID, kvstore.KeyShiftBreaks(snap.ShiftID), intervals); err != nil {
		return nil, err
	}
	if err := t.store.Put(userID, kvstore.KeyCurrentBreak, &BreakSnapshot{}); err != nil {
		return nil, err
	}
	if err := t.store.Put(userID, kvstore.KeyCurrentShift, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// RequestEnd moves to the end-approval phase. An open break is left open;
// ApproveEnd folds it before the record is built.
func (t *ShiftTracker) RequestEnd(userID string) (*ShiftSnapshot, error) {
	snap, err := t.loadShift(userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoShift
	}
	if snap.Phase != PhaseActive && snap.Phase != PhaseBreakActive {
		return nil, ErrWrongPhase
	}

	snap.Phase = PhaseAwaitingEndApproval
	if err := t.store.Put(userID, kvstore.KeyCurrentShift, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ApproveEnd finalizes the shift: closes any open break, builds the
// immutable record with earnings from the shared calculator, persists it,
// then clears the in-progress keys. If the persist fails the keys are left
// exactly as they were so the user can retry.
func (t *ShiftTracker) ApproveEnd(userID, managerName, signature string) (*models.ShiftRecord, error) {
	snap, err := t.loadShift(userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoShift
	}
	if snap.Phase != PhaseAwaitingEndApproval {
		return nil, ErrWrongPhase
	}
	if fe := approvalErrors(managerName, signature); len(fe) > 0 {
		return nil, fe
	}

	now := t.now()
	breakSeconds := snap.BreakSeconds

	br, err := t.loadBreak(userID)
	if err != nil {
		return nil, err
	}
	if br.Active {
		breakSeconds += elapsedSeconds(br.StartedAt, now)
	}

	intervals, err := t.loadIntervals(userID, snap.ShiftID)
	if err != nil {
		return nil, err
	}
	closeOpenInterval(intervals, now)

	startedAt := now
	if snap.StartedAt != nil {
		startedAt = *snap.StartedAt
	}
	elapsed := elapsedSeconds(startedAt, now)
	if breakSeconds > elapsed {
		breakSeconds = elapsed
	}

	record := &models.ShiftRecord{
		ID:             snap.ShiftID,
		UserID:         userID,
		Employer:       snap.Employer,
		StartedAt:      startedAt,
		EndedAt:        now,
		BreakSeconds:   breakSeconds,
		PayRate:        snap.PayRate,
		RateType:       snap.RateType,
		StartManager:   snap.StartManager,
		EndManager:     managerName,
		StartSignature: snap.StartSignature,
		EndSignature:   signature,
		Earnings:       Earnings(elapsed, breakSeconds, snap.PayRate, snap.RateType),
	}

	if err := t.persist(record, intervals); err != nil {
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}

	if err := t.store.Delete(userID, kvstore.ShiftKeys(snap.ShiftID)...); err != nil {
		// The record is saved; stale keys will be repaired by the next
		// restore or pruned by the scheduler.
		return record, err
	}
	return record, nil
}

// Cancel abandons the in-progress shift and clears its keys.
func (t *ShiftTracker) Cancel(userID string) error {
	snap, err := t.loadShift(userID)
	if err != nil {
		return err
	}
	if snap == nil {
		return ErrNoShift
	}
	return t.store.Delete(userID, kvstore.ShiftKeys(snap.ShiftID)...)
}

// ClearShiftCache removes the cached break blob for a completed shift.
// Called when the shift row itself is deleted.
func (t *ShiftTracker) ClearShiftCache(userID, shiftID string) error {
	return t.store.Delete(userID, kvstore.KeyShiftBreaks(shiftID))
}

func approvalErrors(managerName, signature string) FieldErrors {
	fe := FieldErrors{}
	if managerName == "" {
		fe["manager_name"] = "Manager name is required"
	}
	if signature == "" {
		fe["signature"] = "Manager signature is required"
	}
	return fe
}

func closeOpenInterval(intervals []*models.BreakInterval, end time.Time) {
	for i := len(intervals) - 1; i >= 0; i-- {
		if intervals[i].EndedAt == nil {
			t := end
			intervals[i].EndedAt = &t
			return
		}
	}
}

func elapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

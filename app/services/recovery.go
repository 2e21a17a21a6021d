package services

import (
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/kvstore"
)

// ActiveState is what the restore endpoint returns: the live snapshot plus
// whether a suspended-session gap was folded in during recovery.
type ActiveState struct {
	Shift     *ShiftSnapshot `json:"shift"`
	Break     *BreakSnapshot `json:"break,omitempty"`
	Recovered bool           `json:"recovered"`
}

// Restore reads the in-progress state back after a reload. If a break was
// running when the session ended, the wall-clock gap since its stored start
// is added to the accumulated break total and the break restarts from now,
// so no break time is silently lost. Returns nil when nothing is in
// progress, proactively clearing any stale keys.
func (t *ShiftTracker) Restore(userID string) (*ActiveState, error) {
	snap, err := t.loadShift(userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		// Nothing in progress; sweep leftovers from an interrupted clear.
		if err := t.store.Delete(userID, kvstore.KeyCurrentShift, kvstore.KeyCurrentBreak); err != nil {
			return nil, err
		}
		return nil, nil
	}

	br, err := t.loadBreak(userID)
	if err != nil {
		return nil, err
	}

	state := &ActiveState{Shift: snap, Break: br}
	if snap.Phase == PhaseBreakActive && br.Active {
		now := t.now()
		gap := elapsedSeconds(br.StartedAt, now)
		if gap > 0 {
			snap.BreakSeconds += gap
			br.StartedAt = now
			if err := t.store.Put(userID, kvstore.KeyCurrentShift, snap); err != nil {
				return nil, err
			}
			if err := t.store.Put(userID, kvstore.KeyCurrentBreak, br); err != nil {
				return nil, err
			}
			state.Recovered = true
		}
	}

	return state, nil
}

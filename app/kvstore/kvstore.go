// Package kvstore is the per-user active-session state store. The source of
// truth for completed work lives in the regular tables; this store only holds
// the recoverable in-progress blobs (current shift, current break, cached
// invoice settings, per-shift break arrays) under a closed set of typed keys.
// Semantics are last-writer-wins with a single active session per user.
package kvstore

// Key is a typed state key. Only the constants below and KeyShiftBreaks
// values are ever written, so a stray string can't silently create a new
// namespace.
type Key string

const (
	KeyCurrentShift    Key = "current_shift"
	KeyCurrentBreak    Key = "current_break"
	KeyInvoiceSettings Key = "invoice_settings"
)

// KeyShiftBreaks names the cached break-interval array for one shift.
func KeyShiftBreaks(shiftID string) Key {
	return Key("shift_breaks:" + shiftID)
}

// ShiftKeys are the keys cleared together when an in-progress shift
// completes or is cancelled.
func ShiftKeys(shiftID string) []Key {
	keys := []Key{KeyCurrentShift, KeyCurrentBreak}
	if shiftID != "" {
		keys = append(keys, KeyShiftBreaks(shiftID))
	}
	return keys
}

// Store reads and writes JSON blobs scoped by user id.
type Store interface {
	// Get unmarshals the value under key into dest. The bool reports
	// whether the key existed.
	Get(userID string, key Key, dest interface{}) (bool, error)
	// Put marshals value and upserts it under key.
	Put(userID string, key Key, value interface{}) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(userID string, keys ...Key) error
}

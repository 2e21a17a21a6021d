package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userA = "user-a"
	userB = "user-b"
)

type blob struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	var out blob
	found, err := s.Get(userA, KeyCurrentShift, &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := blob{Name: "shift", Count: 3}
	require.NoError(t, s.Put(userA, KeyCurrentShift, in))

	found, err = s.Get(userA, KeyCurrentShift, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestMemoryStoreScopedByUser(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(userA, KeyCurrentShift, blob{Name: "a"}))

	var out blob
	found, err := s.Get(userB, KeyCurrentShift, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreLastWriterWins(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(userA, KeyCurrentBreak, blob{Count: 1}))
	require.NoError(t, s.Put(userA, KeyCurrentBreak, blob{Count: 2}))

	var out blob
	found, err := s.Get(userA, KeyCurrentBreak, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, out.Count)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(userA, KeyCurrentShift, blob{}))
	require.NoError(t, s.Put(userA, KeyCurrentBreak, blob{}))

	// Deleting missing keys is not an error.
	require.NoError(t, s.Delete(userA, KeyCurrentShift, KeyCurrentBreak, KeyInvoiceSettings))

	var out blob
	found, err := s.Get(userA, KeyCurrentShift, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestShiftKeys(t *testing.T) {
	keys := ShiftKeys("abc-123")
	assert.Equal(t, []Key{KeyCurrentShift, KeyCurrentBreak, Key("shift_breaks:abc-123")}, keys)

	// Without a shift id only the fixed keys are cleared.
	keys = ShiftKeys("")
	assert.Equal(t, []Key{KeyCurrentShift, KeyCurrentBreak}, keys)
}

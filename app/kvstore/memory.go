package kvstore

import (
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store used by tests. It round-trips values
// through JSON so behavior matches the Postgres store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[Key][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[Key][]byte)}
}

func (s *MemoryStore) Get(userID string, key Key, dest interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[userID][key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *MemoryStore) Put(userID string, key Key, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[userID] == nil {
		s.data[userID] = make(map[Key][]byte)
	}
	s.data[userID][key] = raw
	return nil
}

func (s *MemoryStore) Delete(userID string, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data[userID], k)
	}
	return nil
}

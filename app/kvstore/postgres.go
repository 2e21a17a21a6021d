package kvstore

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists blobs in the app_state table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(userID string, key Key, dest interface{}) (bool, error) {
	var raw []byte
	query := `SELECT value FROM app_state WHERE user_id = $1 AND key = $2`
	err := s.db.QueryRow(query, userID, string(key)).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *PostgresStore) Put(userID string, key Key, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	query := `INSERT INTO app_state (user_id, key, value, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (user_id, key)
			  DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err = s.db.Exec(query, userID, string(key), raw)
	return err
}

func (s *PostgresStore) Delete(userID string, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}

	query := `DELETE FROM app_state WHERE user_id = $1 AND key = ANY($2)`
	_, err := s.db.Exec(query, userID, pq.Array(names))
	return err
}

// PruneStale deletes blobs not touched since the cutoff. An in-progress
// shift rewrites its keys on every transition, so anything this old is
// abandoned state. Returns the number of rows removed.
func (s *PostgresStore) PruneStale(olderThan time.Duration) (int64, error) {
	query := `DELETE FROM app_state WHERE updated_at < $1`
	res, err := s.db.Exec(query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

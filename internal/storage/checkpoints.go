package storage

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/wkarim/osintagent/internal/models"
)

// checkpointKey derives the bucket key for a target's checkpoint.
// One checkpoint per target: re-running replaces it.
func checkpointKey(target string) []byte {
	return []byte(fmt.Sprintf("run-%s", target))
}

// SaveCheckpoint persists the full investigation state for later resumption
func (s *Store) SaveCheckpoint(inv *models.Investigation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(inv)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketCheckpoints)).Put(checkpointKey(inv.Target), data)
	})
}

// LoadCheckpoint restores the saved investigation state for a target.
// Returns nil (not an error) when no checkpoint exists.
func (s *Store) LoadCheckpoint(target string) (*models.Investigation, error) {
	var inv *models.Investigation

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketCheckpoints)).Get(checkpointKey(target))
		if data == nil {
			return nil
		}
		inv = &models.Investigation{}
		return json.Unmarshal(data, inv)
	})
	return inv, err
}

// DeleteCheckpoint removes a target's checkpoint after a completed run
func (s *Store) DeleteCheckpoint(target string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketCheckpoints)).Delete(checkpointKey(target))
	})
}

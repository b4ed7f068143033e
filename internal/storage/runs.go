package storage

import (
	"encoding/json"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/wkarim/osintagent/internal/models"
)

// SaveRun persists a run metadata record to the database
func (s *Store) SaveRun(meta *models.RunMeta) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}

		runs := tx.Bucket([]byte(bucketRuns))
		if err := runs.Put([]byte(meta.ID), data); err != nil {
			return err
		}

		// Maintain the target -> []run_id index
		index := tx.Bucket([]byte(bucketRunIndex))
		targetKey := []byte(meta.Target)

		var runIDs []string
		if existing := index.Get(targetKey); existing != nil {
			if err := json.Unmarshal(existing, &runIDs); err != nil {
				return err
			}
		}

		found := false
		for _, id := range runIDs {
			if id == meta.ID {
				found = true
				break
			}
		}
		if !found {
			runIDs = append(runIDs, meta.ID)
		}

		indexData, err := json.Marshal(runIDs)
		if err != nil {
			return err
		}
		return index.Put(targetKey, indexData)
	})
}

// GetRun retrieves a run metadata record by ID, or nil when absent
func (s *Store) GetRun(id string) (*models.RunMeta, error) {
	var meta *models.RunMeta

	err := s.db.View(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(bucketRuns))
		data := runs.Get([]byte(id))
		if data == nil {
			return nil
		}

		meta = &models.RunMeta{}
		return json.Unmarshal(data, meta)
	})

	return meta, err
}

// ListRuns retrieves all run records for a target, newest first
func (s *Store) ListRuns(target string) ([]*models.RunMeta, error) {
	var runs []*models.RunMeta

	err := s.db.View(func(tx *bbolt.Tx) error {
		index := tx.Bucket([]byte(bucketRunIndex))
		data := index.Get([]byte(target))
		if data == nil {
			return nil
		}

		var runIDs []string
		if err := json.Unmarshal(data, &runIDs); err != nil {
			return err
		}

		runsBucket := tx.Bucket([]byte(bucketRuns))
		for _, id := range runIDs {
			runData := runsBucket.Get([]byte(id))
			if runData != nil {
				var meta models.RunMeta
				if err := json.Unmarshal(runData, &meta); err != nil {
					return err
				}
				runs = append(runs, &meta)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

// UpdateRunStatus updates the status of a run and sets CompletedAt on
// transition to a terminal state.
func (s *Store) UpdateRunStatus(id string, status models.RunStatus) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(bucketRuns))

		data := runs.Get([]byte(id))
		if data == nil {
			return nil
		}

		var meta models.RunMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}

		meta.Status = status
		if (status == models.StatusComplete || status == models.StatusFailed) && meta.CompletedAt == nil {
			now := time.Now()
			meta.CompletedAt = &now
		}

		updatedData, err := json.Marshal(&meta)
		if err != nil {
			return err
		}
		return runs.Put([]byte(id), updatedData)
	})
}

package activity

import (
	"context"
	"encoding/json"
	"sort"

	"gymledger/internal/adapters/storage/kv"
	domain "gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
)

// KVStore implements Store over the activities key-value store.
type KVStore struct {
	records kv.Store
}

// NewKVStore creates a new activity store.
func NewKVStore(records kv.Store) *KVStore {
	return &KVStore{records: records}
}

// Save persists an Activity.
// PRE: entity has an assigned ID
// POST: Entity is persisted (insert or update)
func (s *KVStore) Save(ctx context.Context, entity domain.Activity) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return &faults.PersistenceError{Op: "encode", Key: entity.ID, Err: err}
	}
	return s.records.Set(ctx, entity.ID, raw)
}

// SaveVerified persists an Activity through the verified write path (import).
// PRE: entity has been coerced
// POST: Entity is persisted and confirmed by read-back
func (s *KVStore) SaveVerified(ctx context.Context, entity domain.Activity) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return &faults.PersistenceError{Op: "encode", Key: entity.ID, Err: err}
	}
	return s.records.SetVerified(ctx, entity.ID, raw)
}

// List retrieves every activity, sorted by timestamp descending. Records
// that no longer decode are skipped.
// POST: Returns activities newest first
func (s *KVStore) List(ctx context.Context) ([]domain.Activity, error) {
	var results []domain.Activity
	err := s.records.Iterate(ctx, func(_ string, value json.RawMessage) error {
		var entity domain.Activity
		if err := json.Unmarshal(value, &entity); err != nil {
			return nil
		}
		results = append(results, entity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp > results[j].Timestamp
	})
	return results, nil
}

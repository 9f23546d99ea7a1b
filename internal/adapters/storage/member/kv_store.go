package member

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"gymledger/internal/adapters/storage/kv"
	"gymledger/internal/domain/faults"
	domain "gymledger/internal/domain/member"
)

// KVStore implements Store over the members key-value store. Records are
// stored in their dual-named JSON shape (domain.Record); the canonical
// Member form never leaves this package boundary un-mirrored.
type KVStore struct {
	records kv.Store
}

// NewKVStore creates a new member store.
func NewKVStore(records kv.Store) *KVStore {
	return &KVStore{records: records}
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the member or a NotFoundError when absent
func (s *KVStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	raw, err := s.records.Get(ctx, id)
	if err != nil {
		return domain.Member{}, err
	}
	if raw == nil {
		return domain.Member{}, &faults.NotFoundError{Kind: "member", ID: id}
	}
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Member{}, &faults.PersistenceError{Op: "decode", Key: id, Err: err}
	}
	return domain.FromRecord(rec), nil
}

// Save persists a Member.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *KVStore) Save(ctx context.Context, entity domain.Member) error {
	raw, err := json.Marshal(entity.ToRecord())
	if err != nil {
		return &faults.PersistenceError{Op: "encode", Key: entity.ID, Err: err}
	}
	return s.records.Set(ctx, entity.ID, raw)
}

// SaveVerified persists a Member through the verified write path (import).
// PRE: entity has been coerced to valid ranges
// POST: Entity is persisted and confirmed by read-back
func (s *KVStore) SaveVerified(ctx context.Context, entity domain.Member) error {
	raw, err := json.Marshal(entity.ToRecord())
	if err != nil {
		return &faults.PersistenceError{Op: "encode", Key: entity.ID, Err: err}
	}
	return s.records.SetVerified(ctx, entity.ID, raw)
}

// Delete removes a Member. Associated payments and activities are left in
// place, referencing the now-missing member id.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *KVStore) Delete(ctx context.Context, id string) error {
	return s.records.Remove(ctx, id)
}

// List retrieves every member, sorted by name (case-folded). Records that no
// longer decode are skipped, matching the scan tolerance of the underlying
// store.
// POST: Returns members sorted by name; never returns a partial error
func (s *KVStore) List(ctx context.Context) ([]domain.Member, error) {
	var results []domain.Member
	err := s.records.Iterate(ctx, func(_ string, value json.RawMessage) error {
		var rec domain.Record
		if err := json.Unmarshal(value, &rec); err != nil {
			return nil
		}
		results = append(results, domain.FromRecord(rec))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})
	return results, nil
}

package payment

import (
	"context"
	"encoding/json"
	"sort"

	"gymledger/internal/adapters/storage/kv"
	"gymledger/internal/domain/faults"
	domain "gymledger/internal/domain/payment"
)

// KVStore implements Store over the payments key-value store.
type KVStore struct {
	records kv.Store
}

// NewKVStore creates a new payment store.
func NewKVStore(records kv.Store) *KVStore {
	return &KVStore{records: records}
}

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the payment or a NotFoundError when absent
func (s *KVStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	raw, err := s.records.Get(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if raw == nil {
		return domain.Payment{}, &faults.NotFoundError{Kind: "payment", ID: id}
	}
	var entity domain.Payment
	if err := json.Unmarshal(raw, &entity); err != nil {
		return domain.Payment{}, &faults.PersistenceError{Op: "decode", Key: id, Err: err}
	}
	return entity, nil
}

// Save persists a Payment.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *KVStore) Save(ctx context.Context, entity domain.Payment) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return &faults.PersistenceError{Op: "encode", Key: entity.ID, Err: err}
	}
	return s.records.Set(ctx, entity.ID, raw)
}

// SaveVerified persists a Payment through the verified write path (import).
// PRE: entity has been coerced to valid ranges
// POST: Entity is persisted and confirmed by read-back
func (s *KVStore) SaveVerified(ctx context.Context, entity domain.Payment) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return &faults.PersistenceError{Op: "encode", Key: entity.ID, Err: err}
	}
	return s.records.SetVerified(ctx, entity.ID, raw)
}

// Delete removes a Payment.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *KVStore) Delete(ctx context.Context, id string) error {
	return s.records.Remove(ctx, id)
}

// List retrieves every payment, sorted by date descending. Records that no
// longer decode are skipped.
// POST: Returns payments newest first
func (s *KVStore) List(ctx context.Context) ([]domain.Payment, error) {
	var results []domain.Payment
	err := s.records.Iterate(ctx, func(_ string, value json.RawMessage) error {
		var entity domain.Payment
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
		return results[i].Date > results[j].Date
	})
	return results, nil
}

// ListByMember retrieves the payments recorded against one member id,
// sorted by date descending.
// PRE: memberID is non-empty
// POST: Returns matching payments newest first
func (s *KVStore) ListByMember(ctx context.Context, memberID string) ([]domain.Payment, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var results []domain.Payment
	for _, p := range all {
		if p.MemberID == memberID {
			results = append(results, p)
		}
	}
	return results, nil
}

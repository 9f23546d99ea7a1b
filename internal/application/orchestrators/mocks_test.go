package orchestrators

import (
	"context"
	"sort"
	"strings"
	"sync"

	activityDomain "gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	memberDomain "gymledger/internal/domain/member"
	paymentDomain "gymledger/internal/domain/payment"
)

// mockMemberStore implements the member store interface in memory.
type mockMemberStore struct {
	mu      sync.Mutex
	byID    map[string]memberDomain.Member
	saveErr error
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{byID: make(map[string]memberDomain.Member)}
}

// GetByID implements memberStore.Store.
// PRE: id is non-empty
// POST: returns the member or a NotFoundError
func (s *mockMemberStore) GetByID(_ context.Context, id string) (memberDomain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return memberDomain.Member{}, &faults.NotFoundError{Kind: "member", ID: id}
	}
	return m, nil
}

// Save implements memberStore.Store.
// PRE: member is valid
// POST: member is stored by ID
func (s *mockMemberStore) Save(_ context.Context, m memberDomain.Member) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[m.ID] = m
	return nil
}

// SaveVerified implements memberStore.Store.
// PRE: member has been coerced
// POST: member is stored by ID
func (s *mockMemberStore) SaveVerified(ctx context.Context, m memberDomain.Member) error {
	return s.Save(ctx, m)
}

// Delete implements memberStore.Store.
// PRE: id is non-empty
// POST: member is removed
func (s *mockMemberStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// List implements memberStore.Store.
// POST: returns all stored members sorted by name
func (s *mockMemberStore) List(_ context.Context) ([]memberDomain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]memberDomain.Member, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// mockPaymentStore implements the payment store interface in memory.
type mockPaymentStore struct {
	mu      sync.Mutex
	byID    map[string]paymentDomain.Payment
	saveErr error
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{byID: make(map[string]paymentDomain.Payment)}
}

// GetByID implements paymentStore.Store.
// PRE: id is non-empty
// POST: returns the payment or a NotFoundError
func (s *mockPaymentStore) GetByID(_ context.Context, id string) (paymentDomain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return paymentDomain.Payment{}, &faults.NotFoundError{Kind: "payment", ID: id}
	}
	return p, nil
}

// Save implements paymentStore.Store.
// PRE: payment is valid
// POST: payment is stored by ID
func (s *mockPaymentStore) Save(_ context.Context, p paymentDomain.Payment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = p
	return nil
}

// SaveVerified implements paymentStore.Store.
// PRE: payment has been coerced
// POST: payment is stored by ID
func (s *mockPaymentStore) SaveVerified(ctx context.Context, p paymentDomain.Payment) error {
	return s.Save(ctx, p)
}

// Delete implements paymentStore.Store.
// PRE: id is non-empty
// POST: payment is removed
func (s *mockPaymentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// List implements paymentStore.Store.
// POST: returns all stored payments sorted by date descending
func (s *mockPaymentStore) List(_ context.Context) ([]paymentDomain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]paymentDomain.Payment, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// ListByMember implements paymentStore.Store.
// PRE: memberID is non-empty
// POST: returns stored payments for the member
func (s *mockPaymentStore) ListByMember(ctx context.Context, memberID string) ([]paymentDomain.Payment, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []paymentDomain.Payment
	for _, p := range all {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockActivityStore implements the activity store interface in memory.
type mockActivityStore struct {
	mu      sync.Mutex
	entries []activityDomain.Activity
	saveErr error
}

func newMockActivityStore() *mockActivityStore {
	return &mockActivityStore{}
}

// Save implements activityStore.Store.
// PRE: activity has an ID
// POST: activity is appended
func (s *mockActivityStore) Save(_ context.Context, a activityDomain.Activity) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, a)
	return nil
}

// SaveVerified implements activityStore.Store.
// PRE: activity has been coerced
// POST: activity is appended
func (s *mockActivityStore) SaveVerified(ctx context.Context, a activityDomain.Activity) error {
	return s.Save(ctx, a)
}

// List implements activityStore.Store.
// POST: returns appended activities sorted by timestamp descending
func (s *mockActivityStore) List(_ context.Context) ([]activityDomain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]activityDomain.Activity(nil), s.entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

// ofType returns the stored activities with the given type.
func (s *mockActivityStore) ofType(t string) []activityDomain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []activityDomain.Activity
	for _, a := range s.entries {
		if a.ActivityType == t {
			out = append(out, a)
		}
	}
	return out
}

// mockConfig implements the config store interface in memory.
type mockConfig struct {
	mu     sync.Mutex
	values map[string]string
}

func newMockConfig() *mockConfig {
	return &mockConfig{values: make(map[string]string)}
}

// Get implements config.Store.
// POST: returns the stored value or "" when absent
func (s *mockConfig) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

// Set implements config.Store.
// POST: value is stored by key
func (s *mockConfig) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

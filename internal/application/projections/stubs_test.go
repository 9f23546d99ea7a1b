package projections

import (
	"context"
	"errors"

	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/member"
	"gymledger/internal/domain/payment"
	"gymledger/internal/domain/pricing"
)

// errStoreDown simulates a storage layer read failure.
var errStoreDown = errors.New("store unavailable")

// stubMemberStore serves a fixed member list; failing toggles read errors.
type stubMemberStore struct {
	members []member.Member
	failing bool
}

func (s *stubMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	if s.failing {
		return member.Member{}, errStoreDown
	}
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return member.Member{}, &faults.NotFoundError{Kind: "member", ID: id}
}

func (s *stubMemberStore) Save(_ context.Context, m member.Member) error         { return nil }
func (s *stubMemberStore) SaveVerified(_ context.Context, m member.Member) error { return nil }
func (s *stubMemberStore) Delete(_ context.Context, id string) error             { return nil }

func (s *stubMemberStore) List(_ context.Context) ([]member.Member, error) {
	if s.failing {
		return nil, errStoreDown
	}
	return s.members, nil
}

// stubPaymentStore serves a fixed payment list.
type stubPaymentStore struct {
	payments []payment.Payment
	failing  bool
}

func (s *stubPaymentStore) GetByID(_ context.Context, id string) (payment.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return payment.Payment{}, &faults.NotFoundError{Kind: "payment", ID: id}
}

func (s *stubPaymentStore) Save(_ context.Context, p payment.Payment) error         { return nil }
func (s *stubPaymentStore) SaveVerified(_ context.Context, p payment.Payment) error { return nil }
func (s *stubPaymentStore) Delete(_ context.Context, id string) error               { return nil }

func (s *stubPaymentStore) List(_ context.Context) ([]payment.Payment, error) {
	if s.failing {
		return nil, errStoreDown
	}
	return s.payments, nil
}

func (s *stubPaymentStore) ListByMember(ctx context.Context, memberID string) ([]payment.Payment, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []payment.Payment
	for _, p := range all {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubActivityStore serves a fixed activity list.
type stubActivityStore struct {
	activities []activity.Activity
	failing    bool
}

func (s *stubActivityStore) Save(_ context.Context, a activity.Activity) error         { return nil }
func (s *stubActivityStore) SaveVerified(_ context.Context, a activity.Activity) error { return nil }

func (s *stubActivityStore) List(_ context.Context) ([]activity.Activity, error) {
	if s.failing {
		return nil, errStoreDown
	}
	return s.activities, nil
}

// stubConfig serves a fixed pricing blob to the resolver.
type stubConfig struct {
	pricing string
}

func (s *stubConfig) Get(_ context.Context, key string) (string, error) {
	if key == pricing.ConfigKey {
		return s.pricing, nil
	}
	return "", nil
}

// defaultResolver returns a resolver backed by the hardcoded price table.
func defaultResolver() pricing.Resolver {
	return pricing.Resolver{Config: &stubConfig{}}
}

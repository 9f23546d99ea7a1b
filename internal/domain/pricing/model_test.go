package pricing_test

import (
	"context"
	"errors"
	"testing"

	"gymledger/internal/domain/pricing"
)

// TestDecode verifies partial blobs keep defaults and broken blobs fall back
// entirely.
func TestDecode(t *testing.T) {
	full := pricing.Defaults()

	partial := pricing.Decode([]byte(`{"month": 2000}`))
	if partial.Month != 2000 {
		t.Errorf("month = %d, want overridden 2000", partial.Month)
	}
	if partial.Sessions13 != full.Sessions13 {
		t.Errorf("sessions13 = %d, want default %d", partial.Sessions13, full.Sessions13)
	}

	broken := pricing.Decode([]byte(`{not json`))
	if broken != full {
		t.Errorf("broken blob = %+v, want full defaults", broken)
	}

	empty := pricing.Decode(nil)
	if empty != full {
		t.Errorf("empty blob = %+v, want full defaults", empty)
	}
}

// TestTableResolve maps plan labels to prices through exact and heuristic
// matching.
func TestTableResolve(t *testing.T) {
	table := pricing.Defaults()
	tests := []struct {
		label string
		want  int
	}{
		{"single session", table.SingleSession},
		{"13 sessions", table.Sessions13},
		{"15 sessions", table.Sessions15},
		{"30 sessions", table.Sessions30},
		{"half-month", table.HalfMonth},
		{"month", table.Month},
		{"quarterly", table.Quarterly},
		{"yearly", table.Yearly},
		{" 13 Sessions ", table.Sessions13},
		{"plan with 30 classes", table.Sessions30},
		{"half month special", table.HalfMonth},
		{"3 month quarter deal", table.Quarterly},
		{"annual year pass", table.Yearly},
		{"completely unknown", table.Sessions13},
		{"", table.Sessions13},
	}
	for _, tt := range tests {
		if got := table.Resolve(tt.label); got != tt.want {
			t.Errorf("Resolve(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

// staticConfig serves one pricing blob, optionally failing.
type staticConfig struct {
	blob string
	err  error
}

func (c *staticConfig) Get(_ context.Context, key string) (string, error) {
	return c.blob, c.err
}

// TestResolverReadsLiveConfig verifies price edits take effect on the next
// resolution without restarting anything.
func TestResolverReadsLiveConfig(t *testing.T) {
	cfg := &staticConfig{blob: `{"month": 1000}`}
	r := pricing.Resolver{Config: cfg}

	if got := r.Resolve(context.Background(), "month"); got != 1000 {
		t.Errorf("price = %d, want 1000", got)
	}
	cfg.blob = `{"month": 1200}`
	if got := r.Resolve(context.Background(), "month"); got != 1200 {
		t.Errorf("price after edit = %d, want 1200", got)
	}
}

// TestResolverStorageFailureFallsBack verifies a read failure resolves
// against the defaults.
func TestResolverStorageFailureFallsBack(t *testing.T) {
	r := pricing.Resolver{Config: &staticConfig{err: errors.New("store down")}}
	if got := r.Resolve(context.Background(), "month"); got != pricing.Defaults().Month {
		t.Errorf("price = %d, want default %d", got, pricing.Defaults().Month)
	}
}

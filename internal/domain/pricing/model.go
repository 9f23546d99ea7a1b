package pricing

import (
	"context"
	"encoding/json"
	"strings"
)

// ConfigKey is the config store key holding the persisted price table.
const ConfigKey = "pricing"

// Table maps each plan to its current price. Serialized as the pricing
// configuration blob described in the backup/config contract.
type Table struct {
	SingleSession int `json:"singleSession"`
	Sessions13    int `json:"sessions13"`
	Sessions15    int `json:"sessions15"`
	Sessions30    int `json:"sessions30"`
	HalfMonth     int `json:"halfMonth"`
	Month         int `json:"month"`
	Quarterly     int `json:"quarterly"`
	Yearly        int `json:"yearly"`
}

// Defaults returns the hardcoded fallback price table used when the
// persisted blob is missing or malformed.
func Defaults() Table {
	return Table{
		SingleSession: 200,
		Sessions13:    1500,
		Sessions15:    1800,
		Sessions30:    2500,
		HalfMonth:     800,
		Month:         1500,
		Quarterly:     4000,
		Yearly:        15000,
	}
}

// Decode parses a persisted pricing blob. Keys absent from the blob keep
// their default values; a blob that fails to parse yields the full defaults.
func Decode(raw []byte) Table {
	t := Defaults()
	if len(raw) == 0 {
		return t
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return Defaults()
	}
	return t
}

// Resolve maps a free-text plan label to a price. Exact label matches win,
// then digit and keyword heuristics, then the 13-session price as the final
// fallback.
// POST: always returns a price from the table, never an error
func (t Table) Resolve(label string) int {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "single session":
		return t.SingleSession
	case "13 sessions":
		return t.Sessions13
	case "15 sessions":
		return t.Sessions15
	case "30 sessions":
		return t.Sessions30
	case "half-month":
		return t.HalfMonth
	case "month":
		return t.Month
	case "quarter", "quarterly":
		return t.Quarterly
	case "year", "yearly":
		return t.Yearly
	}

	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "13"):
		return t.Sessions13
	case strings.Contains(l, "15"):
		return t.Sessions15
	case strings.Contains(l, "30"):
		return t.Sessions30
	case strings.Contains(l, "half"):
		return t.HalfMonth
	case strings.Contains(l, "quarter"):
		return t.Quarterly
	case strings.Contains(l, "year"):
		return t.Yearly
	case strings.Contains(l, "month"):
		return t.Month
	case strings.Contains(l, "single"):
		return t.SingleSession
	}
	return t.Sessions13
}

// ConfigReader is the slice of the config store the resolver needs.
type ConfigReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// Resolver resolves plan prices against the live config store. The blob is
// re-read on every call so price edits take effect immediately; callers must
// not cache resolved prices across pricing-changed notifications.
type Resolver struct {
	Config ConfigReader
}

// Resolve returns the current price for a plan label.
// PRE: Config is non-nil
// POST: Returns the resolved price; storage failures fall back to defaults
func (r Resolver) Resolve(ctx context.Context, label string) int {
	raw, err := r.Config.Get(ctx, ConfigKey)
	if err != nil {
		return Defaults().Resolve(label)
	}
	return Decode([]byte(raw)).Resolve(label)
}

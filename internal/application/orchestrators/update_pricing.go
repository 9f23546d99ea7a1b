package orchestrators

import (
	"context"
	"encoding/json"
	"log/slog"

	"gymledger/internal/adapters/storage/config"
	"gymledger/internal/application/events"
	"gymledger/internal/domain/pricing"
)

// UpdatePricingInput carries the full replacement price table.
type UpdatePricingInput struct {
	Table pricing.Table
}

// UpdatePricingDeps holds dependencies for UpdatePricing.
type UpdatePricingDeps struct {
	Config config.Store
	Bus    *events.Bus
}

// ExecuteUpdatePricing persists a new price table. Every price display
// re-resolves on the pricing-changed notification, so past statistics shift
// to the new prices by design.
// POST: pricing config key replaced; pricing-changed published after commit
func ExecuteUpdatePricing(ctx context.Context, input UpdatePricingInput, deps UpdatePricingDeps) error {
	raw, err := json.Marshal(input.Table)
	if err != nil {
		return err
	}
	if err := deps.Config.Set(ctx, pricing.ConfigKey, string(raw)); err != nil {
		return err
	}

	if deps.Bus != nil {
		deps.Bus.Publish(events.Event{Topic: events.TopicPricingChanged})
	}

	slog.Info("config_event", "event", "pricing_updated")
	return nil
}

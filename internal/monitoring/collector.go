// Package monitoring watches advice generation volume and spend, and raises
// webhook alerts when configured thresholds are breached.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/finsight/advisor-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of advisor usage.
type MetricsSnapshot struct {
	// Advice generation within the lookback window.
	AdviceRequests     int     `json:"advice_requests"`
	AdviceInputTokens  int64   `json:"advice_input_tokens"`
	AdviceOutputTokens int64   `json:"advice_output_tokens"`
	AdviceCostUSD      float64 `json:"advice_cost_usd"`

	// Stored records overall.
	Profiles int `json:"profiles"`
	Sessions int `json:"sessions"`
	Budgets  int `json:"budgets"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers usage metrics from the store.
type Collector struct {
	store store.Store
}

// NewCollector creates a metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot of advisor usage over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	now := time.Now().UTC()
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}

	cutoff := now.Add(-time.Duration(lookbackHours) * time.Hour)
	stats, err := c.store.AdviceStats(ctx, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: advice stats")
	}
	snap.AdviceRequests = stats.Requests
	snap.AdviceInputTokens = stats.InputTokens
	snap.AdviceOutputTokens = stats.OutputTokens
	snap.AdviceCostUSD = stats.CostUSD

	counts, err := c.store.Counts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: counts")
	}
	snap.Profiles = counts.Profiles
	snap.Sessions = counts.Sessions
	snap.Budgets = counts.Budgets

	return snap, nil
}

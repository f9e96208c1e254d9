// Package usage records per-run token usage and incurred provider cost,
// broken down by provider, generation step, and content type. The ledger is
// run-scoped; the pipeline itself holds no long-lived state.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Ledger accumulates usage for one pipeline run. Safe for concurrent use
// by the bounded worker pool.
type Ledger struct {
	mu   sync.Mutex
	data RunData
}

// NewLedger creates a ledger for the given run id.
func NewLedger(runID string) *Ledger {
	return &Ledger{
		data: RunData{
			Version:   "1.0",
			RunID:     runID,
			StartedAt: time.Now(),
			Aggregate: AggregatedStats{
				ByProvider:    make(map[string]TokenCounts),
				ByStep:        make(map[string]TokenCounts),
				ByContentType: make(map[string]TokenCounts),
			},
		},
	}
}

// TrackTokens records the raw token usage of one text generation call.
func (l *Ledger) TrackTokens(provider, step string, input, output int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.data.Aggregate.TotalRun.Add(input, output)
	addTokens(l.data.Aggregate.ByProvider, provider, input, output)
	addTokens(l.data.Aggregate.ByStep, step, input, output)
}

// TrackCost records the incurred cost of one provider call, attributed to
// a step and a content type.
func (l *Ledger) TrackCost(provider, step, contentType string, cost float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.data.Aggregate.TotalRun.AddCost(cost)
	addCost(l.data.Aggregate.ByProvider, provider, cost)
	addCost(l.data.Aggregate.ByStep, step, cost)
	addCost(l.data.Aggregate.ByContentType, contentType, cost)
}

// TotalCost returns the summed incurred cost so far.
func (l *Ledger) TotalCost() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.Aggregate.TotalRun.Cost
}

// Stats returns a copy of the aggregated stats.
func (l *Ledger) Stats() AggregatedStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := l.data.Aggregate
	stats.ByProvider = copyCounts(stats.ByProvider)
	stats.ByStep = copyCounts(stats.ByStep)
	stats.ByContentType = copyCounts(stats.ByContentType)
	return stats
}

// Save writes the run ledger under workspace/.postforge/usage/.
func (l *Ledger) Save(workspace string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(workspace, ".postforge", "usage")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create usage dir: %w", err)
	}

	data, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, l.data.RunID+".json"), data, 0644)
}

func copyCounts(src map[string]TokenCounts) map[string]TokenCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addTokens(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

func addCost(m map[string]TokenCounts, key string, cost float64) {
	entry := m[key]
	entry.AddCost(cost)
	m[key] = entry
}

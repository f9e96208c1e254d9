package usage

import "time"

// RunData is the root structure for one pipeline run's ledger, persisted
// by the CLI for reporting.
type RunData struct {
	Version   string          `json:"version"`
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// AggregatedStats holds counters broken down by attribution dimensions.
type AggregatedStats struct {
	TotalRun      TokenCounts            `json:"total_run"`
	ByProvider    map[string]TokenCounts `json:"by_provider"`
	ByStep        map[string]TokenCounts `json:"by_step"`         // idea, copy_for_design, final_design, ...
	ByContentType map[string]TokenCounts `json:"by_content_type"` // text_only, single_image, carousel
}

// TokenCounts holds input/output sums plus incurred cost.
type TokenCounts struct {
	Input  int64   `json:"input"`
	Output int64   `json:"output"`
	Total  int64   `json:"total"`
	Cost   float64 `json:"cost,omitempty"`
}

// Add accumulates raw token counts.
func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}

// AddCost accumulates incurred provider cost.
func (tc *TokenCounts) AddCost(cost float64) {
	tc.Cost += cost
}

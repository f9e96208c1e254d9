package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/content"
	"postforge/internal/costs"
)

var estimateRequestFile string

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Quote the token cost of a campaign request without running it",
	Long: `Allocates the requested post count across the content mix weights and
sums the per-type cost estimates. The quote is for display; actual billing
is always the per-asset cost recorded during a real run.`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateRequestFile, "request", "r", "", "campaign request YAML file (required)")
	_ = estimateCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(estimateRequestFile)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	counts := allocateMix(req.ContentCount, req.MixWeights())

	var total float64
	fmt.Printf("Estimate for campaign %s (%d posts):\n\n", req.CampaignID, req.ContentCount)
	for _, t := range content.KnownContentTypes {
		n := counts[t]
		if n == 0 {
			continue
		}
		per := costs.EstimateFor(t)
		fmt.Printf("  %-12s %3d x %6.2f = %8.2f\n", t, n, per, float64(n)*per)
		total += float64(n) * per
	}
	fmt.Printf("\n  Total: %.2f tokens\n", total)
	return nil
}

// allocateMix splits n posts across weighted content types using largest
// remainder, so the counts always sum to n.
func allocateMix(n int, weights map[content.ContentType]int) map[content.ContentType]int {
	var totalWeight int
	for _, w := range weights {
		totalWeight += w
	}
	counts := make(map[content.ContentType]int, len(weights))
	if totalWeight == 0 || n == 0 {
		return counts
	}

	type slot struct {
		t   content.ContentType
		rem int
	}
	var slots []slot
	allocated := 0

	// Iterate in declared type order so ties break deterministically.
	for _, t := range content.KnownContentTypes {
		w, ok := weights[t]
		if !ok {
			continue
		}
		share := n * w
		counts[t] = share / totalWeight
		allocated += share / totalWeight
		slots = append(slots, slot{t: t, rem: share % totalWeight})
	}

	for allocated < n {
		best := -1
		for i, s := range slots {
			if best == -1 || s.rem > slots[best].rem {
				best = i
			}
		}
		counts[slots[best].t]++
		slots[best].rem = -1
		allocated++
	}
	return counts
}

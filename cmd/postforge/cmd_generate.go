package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/pipeline"
	"postforge/internal/provider"
)

var (
	requestFile   string
	campaignsFile string
	agencyID      string
	userID        string
	agencyBalance float64
	skipBilling   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full content generation pipeline for one campaign brief",
	Long: `Reads a campaign content request from a YAML file, runs all three
pipeline stages, prints the resulting publications, and settles the summed
actual cost against the agency wallet.

Items that fail a stage are reported and skipped; the run itself only fails
when idea generation fails or the campaign is unknown.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&requestFile, "request", "r", "", "campaign request YAML file (required)")
	generateCmd.Flags().StringVar(&campaignsFile, "campaigns", "", "campaign contexts YAML file (required)")
	generateCmd.Flags().StringVar(&agencyID, "agency", "", "agency id to bill (required)")
	generateCmd.Flags().StringVar(&userID, "user", "", "user id for run attribution")
	generateCmd.Flags().Float64Var(&agencyBalance, "balance", 1000, "starting wallet balance for the in-memory wallet")
	generateCmd.Flags().BoolVar(&skipBilling, "skip-billing", false, "run without settling the wallet")
	_ = generateCmd.MarkFlagRequired("request")
	_ = generateCmd.MarkFlagRequired("campaigns")
	_ = generateCmd.MarkFlagRequired("agency")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(requestFile)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	store, err := account.LoadStoreFromFile(campaignsFile)
	if err != nil {
		return err
	}

	text, design, err := provider.FromConfig(cfg)
	if err != nil {
		return err
	}

	orch := pipeline.NewOrchestrator(store, text, design, pipeline.Options{
		Concurrency: cfg.Pipeline.Concurrency,
	})

	logger.Info("starting campaign run",
		zap.String("campaign", req.CampaignID),
		zap.String("agency", agencyID),
		zap.Int("requested", req.ContentCount))

	result, err := orch.GenerateCompleteCampaign(cmd.Context(), req, agencyID, userID)
	if err != nil {
		return err
	}

	printRun(result)

	if err := result.SaveUsage(workspace); err != nil {
		logger.Warn("could not persist usage ledger", zap.Error(err))
	}

	// Billing happens exactly once per run, with the summed actual cost.
	if !skipBilling {
		wallet := account.NewMemoryWallet(map[string]float64{agencyID: agencyBalance})
		ref := fmt.Sprintf("run:%s", result.RunID)
		desc := fmt.Sprintf("campaign %s content generation", req.CampaignID)
		if err := wallet.ConsumeTokens(cmd.Context(), agencyID, result.Summary.TotalCost, desc, ref); err != nil {
			return fmt.Errorf("billing failed: %w", err)
		}
		bal, _ := wallet.Balance(cmd.Context(), agencyID)
		fmt.Printf("\nBilled %.2f tokens to %s (balance: %.2f)\n", result.Summary.TotalCost, agencyID, bal)
	}

	return nil
}

func loadRequest(path string) (*content.CampaignContentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}

	var req content.CampaignContentRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}
	return &req, nil
}

func printRun(result *pipeline.RunResult) {
	fmt.Printf("Run %s\n\n", result.RunID)

	for _, pub := range result.Publications {
		fmt.Printf("  %s  %-12s %-12s %s\n",
			pub.ScheduledDate.Format("2006-01-02"), pub.Platform, pub.ContentType, firstLine(pub.Content.Text))
		if len(pub.Content.Images) > 0 {
			fmt.Printf("             assets: %d, cost: %.2f\n", len(pub.Content.Images), pub.Metrics.TotalCost)
		}
	}

	failed := append(append([]pipeline.ItemFailure{}, result.Developed.Failed...), result.Assembly...)
	if len(failed) > 0 {
		fmt.Printf("\nSkipped items:\n")
		for _, f := range failed {
			fmt.Printf("  [%s] %s: %s\n", f.Stage, f.ItemID, f.Reason)
		}
	}

	fmt.Printf("\nSummary: %d posts, %.2f tokens, %v\n",
		result.Summary.TotalPosts, result.Summary.TotalCost, result.Summary.GenerationTime.Round(10*time.Millisecond))

	types := make([]string, 0, len(result.Summary.ContentMix))
	for t := range result.Summary.ContentMix {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-12s %d\n", t, result.Summary.ContentMix[content.ContentType(t)])
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	if len(s) > 72 {
		return s[:72] + "..."
	}
	return s
}

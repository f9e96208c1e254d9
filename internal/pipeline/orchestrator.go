// Package pipeline implements the three-stage campaign content generation
// pipeline: a brief becomes distributed content ideas, each idea becomes
// developed copy plus visual specs, and each developed item becomes a final
// cost-accounted publication.
//
// Stage one is fatal on failure because the idea batch is the root of the
// dependency graph. Stages two and three isolate failures per item: a flaky
// provider call costs one post, never the batch.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/logging"
	"postforge/internal/metrics"
	"postforge/internal/provider"
	"postforge/internal/usage"
)

// Options tunes orchestrator execution.
type Options struct {
	// Concurrency bounds the worker pool for the development and assembly
	// stages. 1 means fully sequential; values below 1 fall back to the
	// default of 3.
	Concurrency int
}

// Orchestrator sequences the pipeline stages. Providers are injected so
// tests can substitute doubles without touching pipeline logic.
type Orchestrator struct {
	store       account.ContextStore
	text        provider.TextClient
	design      provider.DesignClient
	concurrency int
	newRunID    func() string
}

// NewOrchestrator wires the pipeline against its collaborators.
func NewOrchestrator(store account.ContextStore, text provider.TextClient, design provider.DesignClient, opts Options) *Orchestrator {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 3
	}

	return &Orchestrator{
		store:       store,
		text:        text,
		design:      design,
		concurrency: concurrency,
		newRunID:    uuid.NewString,
	}
}

// Summary is the caller-facing digest of one run. TotalCost is the billing
// figure the caller settles against the agency wallet.
type Summary struct {
	TotalPosts     int                         `json:"total_posts"`
	TotalCost      float64                     `json:"total_cost"`
	GenerationTime time.Duration               `json:"generation_time"`
	ContentMix     map[content.ContentType]int `json:"content_mix"`
}

// RunResult carries every artifact of one pipeline run. Failures are data,
// not logs: callers needing strict completeness compare len(Ideas) against
// len(Publications) and retry the deltas themselves.
type RunResult struct {
	RunID        string
	AgencyID     string
	Ideas        []content.ContentIdea
	Developed    BatchResult[content.DevelopedContent]
	Publications []content.FinalPublication
	Assembly     []ItemFailure
	Summary      Summary
	Usage        usage.AggregatedStats

	ledger *usage.Ledger
}

// SaveUsage persists the run's usage ledger under the workspace.
func (r *RunResult) SaveUsage(workspace string) error {
	return r.ledger.Save(workspace)
}

// GenerateCompleteCampaign runs the full pipeline for one request.
//
// Stages:
//  1. resolve campaign context (fatal if unknown, before any provider call)
//  2. generate ideas (fatal on provider or parse failure)
//  3. develop each idea (isolate and continue)
//  4. assemble each developed item (isolate and continue)
//  5. summarize
//
// The run always completes unless stage 1 or 2 fails.
func (o *Orchestrator) GenerateCompleteCampaign(ctx context.Context, req *content.CampaignContentRequest, agencyID, userID string) (*RunResult, error) {
	runStart := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	metrics.RunsStarted.Inc()
	runID := o.newRunID()
	logging.Pipeline("run %s: campaign %s, agency %s, user %s, %d posts requested",
		runID, req.CampaignID, agencyID, userID, req.ContentCount)

	cc, err := o.store.Campaign(ctx, req.CampaignID)
	if err != nil {
		metrics.RunsFailed.Inc()
		return nil, err
	}

	ledger := usage.NewLedger(runID)
	ideaGen := NewIdeaGenerator(o.text, ledger)
	developer := NewContentDeveloper(o.text, o.design, ledger)
	assembler := NewPublicationAssembler(o.design, o.text.Name(), ledger)

	// Stage: ideas. Fatal on failure.
	ideas, err := ideaGen.Generate(ctx, req, cc)
	if err != nil {
		metrics.RunsFailed.Inc()
		return nil, err
	}

	ideaByID := make(map[string]content.ContentIdea, len(ideas))
	ideaOrder := make(map[string]int, len(ideas))
	for i, idea := range ideas {
		ideaByID[idea.ID] = idea
		ideaOrder[idea.ID] = i
	}

	// Stage: development. Isolate and continue.
	developed := o.developAll(ctx, developer, ideas, cc)
	if len(developed.Succeeded) == 0 && len(ideas) > 0 {
		// Every idea failed. The run still completes, but this pattern
		// usually means a systemic provider outage, not flaky items.
		metrics.EmptyDevelopment.Inc()
		logging.PipelineWarn("run %s: all %d ideas failed development", runID, len(ideas))
	}

	// Stage: assembly. Isolate and continue.
	publications, assemblyFailures := o.assembleAll(ctx, assembler, developed.Succeeded, ideaByID, req.CampaignID, cc)

	// Output order is deterministic regardless of worker scheduling.
	sort.SliceStable(publications, func(i, j int) bool {
		if !publications[i].ScheduledDate.Equal(publications[j].ScheduledDate) {
			return publications[i].ScheduledDate.Before(publications[j].ScheduledDate)
		}
		return ideaOrder[publications[i].IdeaID] < ideaOrder[publications[j].IdeaID]
	})

	result := &RunResult{
		RunID:        runID,
		AgencyID:     agencyID,
		Ideas:        ideas,
		Developed:    developed,
		Publications: publications,
		Assembly:     assemblyFailures,
		Summary:      summarize(publications, time.Since(runStart)),
		Usage:        ledger.Stats(),
		ledger:       ledger,
	}

	for _, pub := range publications {
		metrics.PublicationsProduced.WithLabelValues(string(pub.ContentType)).Inc()
	}
	metrics.RunsCompleted.Inc()

	logging.Pipeline("run %s: complete, %d/%d publications, cost %.2f, took %v",
		runID, result.Summary.TotalPosts, req.ContentCount, result.Summary.TotalCost, result.Summary.GenerationTime)

	return result, nil
}

// developAll runs the development stage under the bounded worker pool.
// Worker functions never return errors: a failure is recorded against its
// item and must not cancel siblings in flight.
func (o *Orchestrator) developAll(ctx context.Context, developer *ContentDeveloper, ideas []content.ContentIdea, cc account.CampaignContext) BatchResult[content.DevelopedContent] {
	var (
		mu     sync.Mutex
		result BatchResult[content.DevelopedContent]
	)

	eg := &errgroup.Group{}
	eg.SetLimit(o.concurrency)

	for _, idea := range ideas {
		if ctx.Err() != nil {
			mu.Lock()
			result.addFailure(StageDevelopment, idea.ID, ctx.Err())
			mu.Unlock()
			continue
		}

		idea := idea
		eg.Go(func() error {
			item, err := developer.Develop(ctx, idea, cc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.ItemsFailed.WithLabelValues(string(StageDevelopment)).Inc()
				logging.DevelopmentWarn("idea %s failed development: %v", idea.ID, err)
				result.addFailure(StageDevelopment, idea.ID, err)
				return nil
			}
			result.addSuccess(item)
			return nil
		})
	}

	_ = eg.Wait() // workers never return errors
	return result
}

// assembleAll runs the assembly stage with the same isolation policy.
func (o *Orchestrator) assembleAll(ctx context.Context, assembler *PublicationAssembler, developed []content.DevelopedContent, ideaByID map[string]content.ContentIdea, campaignID string, cc account.CampaignContext) ([]content.FinalPublication, []ItemFailure) {
	var (
		mu           sync.Mutex
		publications []content.FinalPublication
		failures     []ItemFailure
	)

	record := func(stage Stage, itemID string, err error) {
		metrics.ItemsFailed.WithLabelValues(string(stage)).Inc()
		logging.AssemblyWarn("content %s failed assembly: %v", itemID, err)
		failures = append(failures, ItemFailure{Stage: stage, ItemID: itemID, Err: err, Reason: err.Error()})
	}

	eg := &errgroup.Group{}
	eg.SetLimit(o.concurrency)

	for _, item := range developed {
		if ctx.Err() != nil {
			mu.Lock()
			record(StageAssembly, item.IdeaID, ctx.Err())
			mu.Unlock()
			continue
		}

		item := item
		idea, ok := ideaByID[item.IdeaID]
		if !ok {
			// Cannot happen within a run; guards against misuse.
			mu.Lock()
			record(StageAssembly, item.IdeaID, fmt.Errorf("no originating idea for content %s", item.IdeaID))
			mu.Unlock()
			continue
		}

		eg.Go(func() error {
			pub, err := assembler.Assemble(ctx, item, idea, campaignID, cc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				record(StageAssembly, item.IdeaID, err)
				return nil
			}
			publications = append(publications, pub)
			return nil
		})
	}

	_ = eg.Wait()
	return publications, failures
}

// summarize folds the publications into the run digest.
func summarize(publications []content.FinalPublication, elapsed time.Duration) Summary {
	summary := Summary{
		TotalPosts:     len(publications),
		GenerationTime: elapsed,
		ContentMix:     make(map[content.ContentType]int),
	}
	for _, pub := range publications {
		summary.TotalCost += pub.Metrics.TotalCost
		summary.ContentMix[pub.ContentType]++
	}
	return summary
}

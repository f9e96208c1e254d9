package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/provider"
)

func TestMain(m *testing.M) {
	// go.opencensus.io starts a global worker goroutine in its package
	// init, before any test runs; it is not stoppable from this module.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// developAllJSON satisfies the copy contract of every assemblable content
// type, so one canned response serves mixed batches.
const developAllJSON = `{"main_text": "Body", "caption": "Cap", "hashtags": ["#a"], "headline": "H", "subheadline": "S", "cta": "Go", "image_prompts": ["bg one", "bg two", "bg three"], "carousel_slides": ["s1", "s2", "s3"], "design_instructions": "clean"}`

// scenarioText answers the idea call with the given drafts and every
// develop call with developAllJSON, unless failTitles marks the idea's
// title as poisoned.
func scenarioText(ideaJSON string, failTitles ...string) *mockTextClient {
	return &mockTextClient{
		GenerateFunc: func(_ context.Context, instructions, prompt string) (provider.TextResult, error) {
			if instructions == ideaInstructions {
				return provider.TextResult{Content: ideaJSON, InputTokens: 100, OutputTokens: 200}, nil
			}
			for _, title := range failTitles {
				if strings.Contains(prompt, "TITLE: "+title) {
					return provider.TextResult{}, errors.New("model overloaded")
				}
			}
			return provider.TextResult{Content: developAllJSON, InputTokens: 30, OutputTokens: 60}, nil
		},
	}
}

func scenarioStore() *account.MemoryStore {
	store := account.NewMemoryStore()
	store.Put(testCampaignContext())
	return store
}

func draftJSON(title string, ct content.ContentType) string {
	return fmt.Sprintf(`{"title": %q, "concept": "concept for %s", "content_type": %q, "objective": "awareness", "priority": "medium"}`, title, title, ct)
}

func TestOrchestratorFullRun(t *testing.T) {
	ideaJSON := fmt.Sprintf(`{"ideas": [%s, %s, %s, %s]}`,
		draftJSON("Alpha", content.TypeTextOnly),
		draftJSON("Beta", content.TypeSingleImage),
		draftJSON("Gamma", content.TypeCarousel),
		draftJSON("Delta", content.TypeTextOnly))

	text := scenarioText(ideaJSON)
	design := &mockDesignClient{}
	orch := NewOrchestrator(scenarioStore(), text, design, Options{Concurrency: 2})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "agency-1", result.AgencyID)
	assert.Len(t, result.Ideas, 4)
	assert.Len(t, result.Developed.Succeeded, 4)
	assert.Empty(t, result.Developed.Failed)
	assert.Len(t, result.Publications, 4)
	assert.Empty(t, result.Assembly)

	// 1 single image + 3 carousel slides.
	assert.Equal(t, 4, design.designCallCount())

	assert.Equal(t, 4, result.Summary.TotalPosts)
	assert.Equal(t, map[content.ContentType]int{
		content.TypeTextOnly:    2,
		content.TypeSingleImage: 1,
		content.TypeCarousel:    1,
	}, result.Summary.ContentMix)

	// Default mock design cost is 8 per asset.
	assert.Equal(t, 32.0, result.Summary.TotalCost)
	assert.Equal(t, result.Summary.TotalCost, result.Usage.TotalRun.Cost)
	assert.Positive(t, result.Summary.GenerationTime)

	for _, pub := range result.Publications {
		assert.Equal(t, content.StatusDraft, pub.Status)
		assert.Equal(t, "camp-1", pub.CampaignID)
	}

	// Publications come back in schedule order regardless of worker timing.
	for i := 1; i < len(result.Publications); i++ {
		assert.False(t, result.Publications[i].ScheduledDate.Before(result.Publications[i-1].ScheduledDate),
			"publication %d scheduled before its predecessor", i)
	}
}

func TestOrchestratorUnknownCampaignIsFatal(t *testing.T) {
	text := scenarioText(`{"ideas": []}`)
	orch := NewOrchestrator(account.NewMemoryStore(), text, &mockDesignClient{}, Options{})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrCampaignNotFound)
	assert.Nil(t, result)
	assert.Equal(t, 0, text.callCount(), "no provider call is made for an unknown campaign")
}

func TestOrchestratorInvalidRequestIsFatal(t *testing.T) {
	text := scenarioText(`{"ideas": []}`)
	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{})

	req := testRequest()
	req.ContentCount = 0

	_, err := orch.GenerateCompleteCampaign(context.Background(), req, "agency-1", "user-1")
	require.Error(t, err)
	assert.Equal(t, 0, text.callCount())
}

func TestOrchestratorIdeaFailureIsFatal(t *testing.T) {
	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{}, errors.New("provider down")
		},
	}
	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIdeaGenerationFailed)
	assert.Nil(t, result)
}

func TestOrchestratorIsolatesDevelopmentFailures(t *testing.T) {
	ideaJSON := fmt.Sprintf(`{"ideas": [%s, %s, %s]}`,
		draftJSON("Alpha", content.TypeTextOnly),
		draftJSON("Beta", content.TypeTextOnly),
		draftJSON("Gamma", content.TypeTextOnly))

	text := scenarioText(ideaJSON, "Beta")
	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{Concurrency: 1})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.NoError(t, err, "one failed item never fails the run")

	assert.Len(t, result.Ideas, 3)
	assert.Len(t, result.Developed.Succeeded, 2)
	require.Len(t, result.Developed.Failed, 1)
	assert.Equal(t, StageDevelopment, result.Developed.Failed[0].Stage)
	assert.NotEmpty(t, result.Developed.Failed[0].ItemID)
	assert.Contains(t, result.Developed.Failed[0].Reason, "model overloaded")
	assert.Len(t, result.Publications, 2)
	assert.Equal(t, 2, result.Summary.TotalPosts)
}

func TestOrchestratorIsolatesVideoIdeas(t *testing.T) {
	ideaJSON := fmt.Sprintf(`{"ideas": [%s, %s]}`,
		draftJSON("Alpha", content.TypeTextOnly),
		draftJSON("Reel", content.TypeVideo))

	text := scenarioText(ideaJSON)
	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.NoError(t, err)

	assert.Len(t, result.Publications, 1)
	require.Len(t, result.Developed.Failed, 1)
	assert.ErrorIs(t, result.Developed.Failed[0].Err, ErrUnsupportedContentType)
}

func TestOrchestratorIsolatesAssemblyFailures(t *testing.T) {
	ideaJSON := fmt.Sprintf(`{"ideas": [%s, %s, %s]}`,
		draftJSON("Alpha", content.TypeSingleImage),
		draftJSON("Beta", content.TypeSingleImage),
		draftJSON("Gamma", content.TypeTextOnly))

	text := scenarioText(ideaJSON)
	var designCalls int
	design := &mockDesignClient{
		GenerateDesignFn: func(_ context.Context, req provider.DesignRequest) (provider.DesignResult, error) {
			designCalls++
			if designCalls == 1 {
				return provider.DesignResult{}, errors.New("render failed")
			}
			return provider.DesignResult{FinalImageURL: "https://cdn.example.com/ok.png", Cost: 8}, nil
		},
	}
	orch := NewOrchestrator(scenarioStore(), text, design, Options{Concurrency: 1})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.NoError(t, err)

	assert.Len(t, result.Developed.Succeeded, 3)
	assert.Len(t, result.Publications, 2)
	require.Len(t, result.Assembly, 1)
	assert.Equal(t, StageAssembly, result.Assembly[0].Stage)
	assert.Contains(t, result.Assembly[0].Reason, "render failed")
}

func TestOrchestratorAllDevelopmentFailedStillCompletes(t *testing.T) {
	ideaJSON := fmt.Sprintf(`{"ideas": [%s, %s]}`,
		draftJSON("Alpha", content.TypeTextOnly),
		draftJSON("Beta", content.TypeTextOnly))

	text := scenarioText(ideaJSON, "Alpha", "Beta")
	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.NoError(t, err, "an empty development stage is a warning, not a run failure")

	assert.Len(t, result.Ideas, 2)
	assert.Empty(t, result.Developed.Succeeded)
	assert.Len(t, result.Developed.Failed, 2)
	assert.Empty(t, result.Publications)
	assert.Zero(t, result.Summary.TotalPosts)
	assert.Zero(t, result.Summary.TotalCost)
}

func TestOrchestratorConcurrentRun(t *testing.T) {
	var drafts []string
	for i := 0; i < 20; i++ {
		drafts = append(drafts, draftJSON(fmt.Sprintf("Idea %02d", i), content.TypeTextOnly))
	}
	ideaJSON := fmt.Sprintf(`{"ideas": [%s]}`, strings.Join(drafts, ", "))

	text := scenarioText(ideaJSON)
	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{Concurrency: 8})

	result, err := orch.GenerateCompleteCampaign(context.Background(), testRequest(), "agency-1", "user-1")
	require.NoError(t, err)

	assert.Len(t, result.Publications, 20)
	// 1 idea call + 20 develop calls.
	assert.Equal(t, 21, text.callCount())
}

func TestOrchestratorCancelledContext(t *testing.T) {
	ideaJSON := fmt.Sprintf(`{"ideas": [%s]}`, draftJSON("Alpha", content.TypeTextOnly))

	text := &mockTextClient{
		GenerateFunc: func(ctx context.Context, instructions, _ string) (provider.TextResult, error) {
			if err := ctx.Err(); err != nil {
				return provider.TextResult{}, err
			}
			return provider.TextResult{Content: ideaJSON}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := NewOrchestrator(scenarioStore(), text, &mockDesignClient{}, Options{})
	_, err := orch.GenerateCompleteCampaign(ctx, testRequest(), "agency-1", "user-1")
	require.Error(t, err)
}

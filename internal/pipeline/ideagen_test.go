package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postforge/internal/content"
	"postforge/internal/provider"
)

func ideaResponse(drafts string) string {
	return fmt.Sprintf(`{"ideas": [%s]}`, drafts)
}

const validDraftJSON = `{"title": "Myth busting", "concept": "Debunk workout myths", "content_type": "text_only", "topics": ["fitness"], "tone": "playful", "objective": "awareness", "priority": "high"}`

func TestIdeaGeneratorHappyPath(t *testing.T) {
	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{
				Content:      ideaResponse(validDraftJSON + "," + validDraftJSON + "," + validDraftJSON),
				InputTokens:  120,
				OutputTokens: 340,
			}, nil
		},
	}
	ledger := newTestLedger()
	gen := NewIdeaGenerator(text, ledger)

	ideas, err := gen.Generate(context.Background(), testRequest(), testCampaignContext())
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, 1, text.callCount(), "idea generation makes exactly one provider call")

	for i, idea := range ideas {
		assert.NotEmpty(t, idea.ID, "idea %d has an id", i)
		assert.Equal(t, "Myth busting", idea.Title)
		assert.Equal(t, content.TypeTextOnly, idea.ContentType)
		assert.Equal(t, content.ObjectiveAwareness, idea.Objective)
		assert.Equal(t, content.PriorityHigh, idea.Priority)
		assert.False(t, idea.ScheduledDate.IsZero(), "idea %d is scheduled", i)
	}

	// Ideas alternate across the two requested platforms.
	assert.Equal(t, "instagram", ideas[0].Platform)
	assert.Equal(t, "linkedin", ideas[1].Platform)
	assert.Equal(t, "instagram", ideas[2].Platform)

	stats := ledger.Stats()
	assert.EqualValues(t, 120, stats.ByStep["idea"].Input)
	assert.EqualValues(t, 340, stats.ByStep["idea"].Output)
}

func TestIdeaGeneratorAcceptsFencedResponse(t *testing.T) {
	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{
				Content: "```json\n" + ideaResponse(validDraftJSON) + "\n```",
			}, nil
		},
	}
	gen := NewIdeaGenerator(text, newTestLedger())

	ideas, err := gen.Generate(context.Background(), testRequest(), testCampaignContext())
	require.NoError(t, err)
	assert.Len(t, ideas, 1)
}

func TestIdeaGeneratorDropsMalformedDrafts(t *testing.T) {
	drafts := validDraftJSON + "," +
		`{"title": "", "concept": "no title", "content_type": "text_only", "objective": "awareness"},` +
		`{"title": "Bad type", "concept": "c", "content_type": "hologram", "objective": "awareness"},` +
		`{"title": "Bad objective", "concept": "c", "content_type": "text_only", "objective": "world domination"}`

	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{Content: ideaResponse(drafts)}, nil
		},
	}
	gen := NewIdeaGenerator(text, newTestLedger())

	ideas, err := gen.Generate(context.Background(), testRequest(), testCampaignContext())
	require.NoError(t, err)
	assert.Len(t, ideas, 1, "only the well-formed draft survives")
}

func TestIdeaGeneratorDefaultsPriority(t *testing.T) {
	draft := `{"title": "T", "concept": "C", "content_type": "carousel", "objective": "education", "priority": "urgent!!"}`
	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{Content: ideaResponse(draft)}, nil
		},
	}
	gen := NewIdeaGenerator(text, newTestLedger())

	ideas, err := gen.Generate(context.Background(), testRequest(), testCampaignContext())
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, content.PriorityMedium, ideas[0].Priority)
}

func TestIdeaGeneratorFatalCases(t *testing.T) {
	cases := []struct {
		name     string
		generate func(ctx context.Context, instructions, prompt string) (provider.TextResult, error)
	}{
		{
			"provider error",
			func(_ context.Context, _, _ string) (provider.TextResult, error) {
				return provider.TextResult{}, errors.New("model overloaded")
			},
		},
		{
			"unparsable response",
			func(_ context.Context, _, _ string) (provider.TextResult, error) {
				return provider.TextResult{Content: "I could not produce JSON today."}, nil
			},
		},
		{
			"zero drafts",
			func(_ context.Context, _, _ string) (provider.TextResult, error) {
				return provider.TextResult{Content: `{"ideas": []}`}, nil
			},
		},
		{
			"every draft malformed",
			func(_ context.Context, _, _ string) (provider.TextResult, error) {
				return provider.TextResult{Content: ideaResponse(`{"title": "", "concept": ""}`)}, nil
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := NewIdeaGenerator(&mockTextClient{GenerateFunc: tc.generate}, newTestLedger())

			ideas, err := gen.Generate(context.Background(), testRequest(), testCampaignContext())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIdeaGenerationFailed)
			assert.Nil(t, ideas)
		})
	}
}

func TestIdeaPromptCarriesCampaignContext(t *testing.T) {
	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{Content: ideaResponse(validDraftJSON)}, nil
		},
	}
	gen := NewIdeaGenerator(text, newTestLedger())

	req := testRequest()
	req.Brand = &content.BrandGuidelines{
		Tone:          "bold",
		AvoidedTopics: []string{"politics"},
	}

	_, err := gen.Generate(context.Background(), req, testCampaignContext())
	require.NoError(t, err)

	calls := text.recordedCalls()
	require.Len(t, calls, 1)
	prompt := calls[0].Prompt
	assert.Contains(t, prompt, "Spring Launch")
	assert.Contains(t, prompt, "fitness")
	assert.Contains(t, prompt, "young professionals")
	assert.Contains(t, prompt, "2026-03-01")
	assert.Contains(t, prompt, "2026-03-07")
	assert.Contains(t, prompt, "instagram, linkedin")
	assert.Contains(t, prompt, "bold")
	assert.Contains(t, prompt, "politics")
	assert.Contains(t, calls[0].Instructions, "strategist")
}

func TestIdeaGeneratorSchedulesWithinWindow(t *testing.T) {
	var drafts string
	for i := 0; i < 12; i++ {
		if i > 0 {
			drafts += ","
		}
		drafts += validDraftJSON
	}
	text := &mockTextClient{
		GenerateFunc: func(_ context.Context, _, _ string) (provider.TextResult, error) {
			return provider.TextResult{Content: ideaResponse(drafts)}, nil
		},
	}
	gen := NewIdeaGenerator(text, newTestLedger())

	req := testRequest()
	ideas, err := gen.Generate(context.Background(), req, testCampaignContext())
	require.NoError(t, err)
	require.Len(t, ideas, 12)

	end := req.DateRange.End.Add(24 * time.Hour)
	for i, idea := range ideas {
		assert.False(t, idea.ScheduledDate.Before(req.DateRange.Start), "idea %d before window start", i)
		assert.True(t, idea.ScheduledDate.Before(end), "idea %d past window end", i)
	}
}

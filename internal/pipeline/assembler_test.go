package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postforge/internal/content"
	"postforge/internal/costs"
	"postforge/internal/provider"
)

func developedItem(ideaID string, ct content.ContentType, specs *content.VisualSpecs) content.DevelopedContent {
	return content.DevelopedContent{
		IdeaID:      ideaID,
		ContentType: ct,
		Platform:    "instagram",
		Copy: content.ContentCopy{
			MainText:    "Post body text",
			Headline:    "Headline",
			Subheadline: "Subheadline",
			CTA:         "Join now",
			Hashtags:    []string{"#fitness"},
		},
		VisualSpecs: specs,
	}
}

func TestAssembleTextOnly(t *testing.T) {
	design := &mockDesignClient{}
	ledger := newTestLedger()
	asm := NewPublicationAssembler(design, "mock-text", ledger)

	idea := testIdea("idea-1", content.TypeTextOnly)
	pub, err := asm.Assemble(context.Background(), developedItem("idea-1", content.TypeTextOnly, nil), idea, "camp-1", testCampaignContext())
	require.NoError(t, err)

	assert.NotEmpty(t, pub.ID)
	assert.Equal(t, "idea-1", pub.IdeaID)
	assert.Equal(t, "camp-1", pub.CampaignID)
	assert.Equal(t, content.StatusDraft, pub.Status)
	assert.Equal(t, idea.ScheduledDate, pub.ScheduledDate)
	assert.Equal(t, idea.Platform, pub.Platform)
	assert.Equal(t, "Post body text", pub.Content.Text)

	assert.Equal(t, 0, design.designCallCount(), "text_only never calls the design service")
	assert.Zero(t, pub.Metrics.TotalCost)
	assert.Zero(t, pub.Metrics.AssetsGenerated)
	assert.NotNil(t, pub.Content.Images, "images is empty, not nil")
	assert.Empty(t, pub.Content.Images)
	assert.Empty(t, pub.Content.DesignAssets)
	assert.Equal(t, []string{"mock-text"}, pub.Metrics.ProvidersUsed)
	assert.Zero(t, ledger.TotalCost())
}

func TestAssembleSingleImage(t *testing.T) {
	design := &mockDesignClient{
		GenerateDesignFn: func(_ context.Context, req provider.DesignRequest) (provider.DesignResult, error) {
			return provider.DesignResult{FinalImageURL: "https://cdn.example.com/one.png", Cost: 8}, nil
		},
	}
	ledger := newTestLedger()
	asm := NewPublicationAssembler(design, "mock-text", ledger)

	specs := &content.VisualSpecs{
		TemplateID:   "tpl-1",
		ImagePrompts: []string{"gym at sunrise"},
	}
	idea := testIdea("idea-2", content.TypeSingleImage)

	pub, err := asm.Assemble(context.Background(), developedItem("idea-2", content.TypeSingleImage, specs), idea, "camp-1", testCampaignContext())
	require.NoError(t, err)

	calls := design.recordedDesignCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tpl-1", calls[0].TemplateID)
	assert.Equal(t, "Headline", calls[0].Headline)
	assert.Equal(t, "gym at sunrise", calls[0].BackgroundPrompt)
	assert.Equal(t, []string{"#FF5733", "#222222"}, calls[0].BrandColors)

	assert.Equal(t, []string{"https://cdn.example.com/one.png"}, pub.Content.Images)
	assert.Equal(t, pub.Content.Images, pub.Content.DesignAssets, "images and design assets stay in lockstep")
	assert.Equal(t, 1, pub.Metrics.AssetsGenerated)
	assert.Equal(t, 8.0, pub.Metrics.TotalCost)
	assert.Equal(t, []string{"mock-text", "mock-design"}, pub.Metrics.ProvidersUsed)

	// Actual cost lands in the run ledger under the final design step.
	stats := ledger.Stats()
	assert.Equal(t, 8.0, stats.ByStep[string(costs.StepFinalDesign)].Cost)
	assert.Equal(t, 8.0, stats.ByContentType["single_image"].Cost)
}

func TestAssembleCarousel(t *testing.T) {
	var costPerSlide = []float64{8, 8, 8, 8}
	design := &mockDesignClient{
		GenerateDesignFn: func(_ context.Context, req provider.DesignRequest) (provider.DesignResult, error) {
			n := req.Customizations["slide"]
			return provider.DesignResult{FinalImageURL: "https://cdn.example.com/slide-" + n + ".png", Cost: 8}, nil
		},
	}
	ledger := newTestLedger()
	asm := NewPublicationAssembler(design, "mock-text", ledger)

	specs := &content.VisualSpecs{
		TemplateID: "tpl-car",
		CarouselSlides: []string{
			"Slide one headline\nslide one detail",
			"Slide two headline",
			"Slide three headline\nslide three detail",
			"Slide four headline",
		},
		ImagePrompts: []string{"bg one", "bg two", "bg three", "bg four"},
	}
	idea := testIdea("idea-3", content.TypeCarousel)

	pub, err := asm.Assemble(context.Background(), developedItem("idea-3", content.TypeCarousel, specs), idea, "camp-1", testCampaignContext())
	require.NoError(t, err)

	calls := design.recordedDesignCalls()
	require.Len(t, calls, 4, "one design call per slide")
	for i, call := range calls {
		assert.Equal(t, fmt.Sprintf("%d", i+1), call.Customizations["slide"], "slides render in order")
		assert.Equal(t, specs.ImagePrompts[i], call.BackgroundPrompt)
	}
	assert.Equal(t, "Slide one headline", calls[0].Headline)
	assert.Equal(t, "slide one detail", calls[0].Subheadline)
	assert.Equal(t, "Slide two headline", calls[1].Headline)
	assert.Empty(t, calls[1].Subheadline)

	assert.Len(t, pub.Content.Images, 4)
	assert.Equal(t, 4, pub.Metrics.AssetsGenerated)

	var want float64
	for _, c := range costPerSlide {
		want += c
	}
	assert.Equal(t, want, pub.Metrics.TotalCost, "cost is the sum of per-slide provider costs")
	assert.Equal(t, want, ledger.TotalCost())
}

func TestAssembleCarouselSlideFailureAbortsItem(t *testing.T) {
	design := &mockDesignClient{
		GenerateDesignFn: func(_ context.Context, req provider.DesignRequest) (provider.DesignResult, error) {
			if req.Customizations["slide"] == "2" {
				return provider.DesignResult{}, errors.New("render timeout")
			}
			return provider.DesignResult{FinalImageURL: "https://cdn.example.com/x.png", Cost: 8}, nil
		},
	}
	asm := NewPublicationAssembler(design, "mock-text", newTestLedger())

	specs := &content.VisualSpecs{
		TemplateID:     "tpl-car",
		CarouselSlides: []string{"one", "two", "three"},
	}
	idea := testIdea("idea-4", content.TypeCarousel)

	_, err := asm.Assemble(context.Background(), developedItem("idea-4", content.TypeCarousel, specs), idea, "camp-1", testCampaignContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slide 2/3")
	assert.Equal(t, 2, design.designCallCount(), "rendering stops at the failed slide")
}

func TestAssembleMissingVisualSpecs(t *testing.T) {
	asm := NewPublicationAssembler(&mockDesignClient{}, "mock-text", newTestLedger())

	for _, ct := range []content.ContentType{content.TypeSingleImage, content.TypeCarousel} {
		idea := testIdea("idea-5", ct)
		_, err := asm.Assemble(context.Background(), developedItem("idea-5", ct, nil), idea, "camp-1", testCampaignContext())
		assert.Error(t, err, "content type %s without specs", ct)
	}
}

func TestAssembleUnsupportedType(t *testing.T) {
	asm := NewPublicationAssembler(&mockDesignClient{}, "mock-text", newTestLedger())

	idea := testIdea("idea-6", content.TypeVideo)
	_, err := asm.Assemble(context.Background(), developedItem("idea-6", content.TypeVideo, nil), idea, "camp-1", testCampaignContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestSplitSlideCopy(t *testing.T) {
	cases := []struct {
		in          string
		headline    string
		subheadline string
	}{
		{"Just a headline", "Just a headline", ""},
		{"Headline\nSubheadline", "Headline", "Subheadline"},
		{"  Headline  \n  Sub  \nextra ignored", "Headline", "Sub"},
	}

	for _, tc := range cases {
		h, s := splitSlideCopy(tc.in)
		assert.Equal(t, tc.headline, h)
		assert.Equal(t, tc.subheadline, s)
	}
}

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/costs"
	"postforge/internal/logging"
	"postforge/internal/provider"
	"postforge/internal/usage"
)

// maxHashtags caps provider-supplied hashtag lists.
const maxHashtags = 10

// ContentDeveloper expands a single idea into finished copy and, for visual
// types, a design specification. Batching and failure isolation are the
// orchestrator's job: Develop reports errors and lets the caller decide.
type ContentDeveloper struct {
	text   provider.TextClient
	design provider.DesignClient
	ledger *usage.Ledger
}

// NewContentDeveloper creates a developer recording usage into ledger.
func NewContentDeveloper(text provider.TextClient, design provider.DesignClient, ledger *usage.Ledger) *ContentDeveloper {
	return &ContentDeveloper{text: text, design: design, ledger: ledger}
}

// copyDraft is the shape requested from the text provider.
type copyDraft struct {
	MainText       string   `json:"main_text"`
	Caption        string   `json:"caption"`
	Hashtags       []string `json:"hashtags"`
	Headline       string   `json:"headline"`
	Subheadline    string   `json:"subheadline"`
	CTA            string   `json:"cta"`
	ImagePrompts   []string `json:"image_prompts"`
	CarouselSlides []string `json:"carousel_slides"`
	Instructions   string   `json:"design_instructions"`
}

// Develop expands one idea. Video ideas are rejected here with a typed
// error rather than silently dropped at assembly: the request schema admits
// them but no assembler branch exists yet.
func (d *ContentDeveloper) Develop(ctx context.Context, idea content.ContentIdea, cc account.CampaignContext) (content.DevelopedContent, error) {
	if idea.ContentType == content.TypeVideo {
		return content.DevelopedContent{}, fmt.Errorf("%w: video (idea %s)", ErrUnsupportedContentType, idea.ID)
	}

	step := costs.StepCopyForPublication
	if idea.ContentType != content.TypeTextOnly {
		step = costs.StepCopyForDesign
	}

	result, err := d.text.GenerateStructured(ctx, developInstructions, developPrompt(idea, cc))
	if err != nil {
		return content.DevelopedContent{}, fmt.Errorf("copy generation for idea %s: %w", idea.ID, err)
	}
	d.ledger.TrackTokens(d.text.Name(), string(step), result.InputTokens, result.OutputTokens)

	var draft copyDraft
	if err := decodeResponse(result.Content, &draft); err != nil {
		return content.DevelopedContent{}, fmt.Errorf("copy for idea %s: %w", idea.ID, err)
	}
	if draft.MainText == "" {
		return content.DevelopedContent{}, fmt.Errorf("copy for idea %s: %w: missing main_text", idea.ID, ErrMalformedProviderResponse)
	}

	developed := content.DevelopedContent{
		IdeaID:      idea.ID,
		ContentType: idea.ContentType,
		Platform:    idea.Platform,
		Copy: content.ContentCopy{
			MainText:    draft.MainText,
			Headline:    draft.Headline,
			Subheadline: draft.Subheadline,
			CTA:         draft.CTA,
			Hashtags:    normalizeHashtags(draft.Hashtags),
			Caption:     draft.Caption,
		},
		Metadata: content.ContentMetadata{
			EstimatedCost:       costs.EstimateFor(idea.ContentType),
			EstimatedEngagement: 0, // placeholder until the analytics service scores drafts
			BrandCompliance:     1,
			QualityScore:        1,
		},
	}

	if idea.ContentType != content.TypeTextOnly {
		specs, err := d.buildVisualSpecs(ctx, idea, cc, draft)
		if err != nil {
			return content.DevelopedContent{}, err
		}
		developed.VisualSpecs = specs
	}

	logging.Development("developed idea %s (%s, %d hashtags)", idea.ID, idea.ContentType, len(developed.Copy.Hashtags))
	return developed, nil
}

// buildVisualSpecs validates the visual half of the draft and selects a
// template. The template id is attached verbatim; template internals are
// the design service's business.
func (d *ContentDeveloper) buildVisualSpecs(ctx context.Context, idea content.ContentIdea, cc account.CampaignContext, draft copyDraft) (*content.VisualSpecs, error) {
	switch idea.ContentType {
	case content.TypeSingleImage:
		if len(draft.ImagePrompts) == 0 {
			return nil, fmt.Errorf("idea %s: %w: single_image copy missing image prompt", idea.ID, ErrMalformedProviderResponse)
		}
	case content.TypeCarousel:
		if len(draft.CarouselSlides) == 0 {
			return nil, fmt.Errorf("idea %s: %w: carousel copy missing slides", idea.ID, ErrMalformedProviderResponse)
		}
	}

	template, err := d.design.SelectTemplate(ctx, provider.TemplateQuery{
		ContentType:       string(idea.ContentType),
		Platform:          idea.Platform,
		BrandStyle:        cc.Brand.Style,
		Industry:          cc.Brand.Industry,
		CampaignObjective: cc.Objective,
		TargetAudience:    cc.Brand.TargetAudience,
		BrandColors:       cc.Brand.Colors,
	})
	if err != nil {
		return nil, fmt.Errorf("template selection for idea %s: %w", idea.ID, err)
	}

	return &content.VisualSpecs{
		TemplateID:     template.ID,
		ImagePrompts:   draft.ImagePrompts,
		CarouselSlides: draft.CarouselSlides,
		Instructions:   draft.Instructions,
	}, nil
}

// normalizeHashtags trims entries, guarantees the # prefix, drops empties,
// and caps the list.
func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || t == "#" {
			continue
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
		if len(out) == maxHashtags {
			break
		}
	}
	return out
}

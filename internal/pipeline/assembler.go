package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/costs"
	"postforge/internal/logging"
	"postforge/internal/provider"
	"postforge/internal/usage"
)

// PublicationAssembler turns a developed content item into a final
// publication, invoking the design service once per required asset and
// summing the actually incurred costs into the publication's metrics.
type PublicationAssembler struct {
	design           provider.DesignClient
	textProviderName string
	ledger           *usage.Ledger
	newID            func() string
}

// NewPublicationAssembler creates an assembler. textProviderName is listed
// in ProvidersUsed since every publication's copy came from the text
// provider even when no image call happens.
func NewPublicationAssembler(design provider.DesignClient, textProviderName string, ledger *usage.Ledger) *PublicationAssembler {
	return &PublicationAssembler{
		design:           design,
		textProviderName: textProviderName,
		ledger:           ledger,
		newID:            uuid.NewString,
	}
}

// Assemble builds one final publication. The originating idea is passed in
// because the publication needs a scheduled date and platform independent of
// the developed content. Generation time is recorded on every path,
// including failures, via the deferred stamp.
func (a *PublicationAssembler) Assemble(ctx context.Context, developed content.DevelopedContent, idea content.ContentIdea, campaignID string, cc account.CampaignContext) (content.FinalPublication, error) {
	start := time.Now()

	pub := content.FinalPublication{
		ID:            a.newID(),
		IdeaID:        idea.ID,
		CampaignID:    campaignID,
		Platform:      idea.Platform,
		ContentType:   developed.ContentType,
		ScheduledDate: idea.ScheduledDate,
		Status:        content.StatusDraft,
		Content: content.PublicationContent{
			Text:         developed.Copy.MainText,
			Hashtags:     developed.Copy.Hashtags,
			Images:       []string{},
			DesignAssets: []string{},
		},
		Metrics: content.GenerationMetrics{
			ProvidersUsed: []string{a.textProviderName},
		},
	}

	var err error
	switch developed.ContentType {
	case content.TypeTextOnly:
		// No assets, no cost.
	case content.TypeSingleImage:
		err = a.assembleSingleImage(ctx, &pub, developed, cc)
	case content.TypeCarousel:
		err = a.assembleCarousel(ctx, &pub, developed, cc)
	default:
		err = fmt.Errorf("%w: %s (idea %s)", ErrUnsupportedContentType, developed.ContentType, idea.ID)
	}

	pub.Metrics.GenerationTime = time.Since(start).Milliseconds()
	if err != nil {
		return content.FinalPublication{}, err
	}

	pub.Metrics.AssetsGenerated = len(pub.Content.Images)
	logging.Assembly("assembled publication %s (idea %s, %s, %d assets, cost %.2f)",
		pub.ID, idea.ID, pub.ContentType, pub.Metrics.AssetsGenerated, pub.Metrics.TotalCost)

	return pub, nil
}

func (a *PublicationAssembler) assembleSingleImage(ctx context.Context, pub *content.FinalPublication, developed content.DevelopedContent, cc account.CampaignContext) error {
	specs := developed.VisualSpecs
	if specs == nil || len(specs.ImagePrompts) == 0 {
		return fmt.Errorf("single_image content %s has no visual specs", developed.IdeaID)
	}

	result, err := a.design.GenerateDesign(ctx, provider.DesignRequest{
		TemplateID:       specs.TemplateID,
		Headline:         developed.Copy.Headline,
		Subheadline:      developed.Copy.Subheadline,
		CTA:              developed.Copy.CTA,
		BrandColors:      cc.Brand.Colors,
		BackgroundPrompt: specs.ImagePrompts[0],
	})
	if err != nil {
		return fmt.Errorf("image generation for %s: %w", developed.IdeaID, err)
	}

	a.recordAsset(pub, developed, result)
	return nil
}

func (a *PublicationAssembler) assembleCarousel(ctx context.Context, pub *content.FinalPublication, developed content.DevelopedContent, cc account.CampaignContext) error {
	specs := developed.VisualSpecs
	if specs == nil || len(specs.CarouselSlides) == 0 {
		return fmt.Errorf("carousel content %s has no slides", developed.IdeaID)
	}

	// Slides render in order; a failure on any slide aborts this
	// publication and leaves retry policy to the provider client.
	for i, slide := range specs.CarouselSlides {
		headline, subheadline := splitSlideCopy(slide)

		prompt := ""
		if i < len(specs.ImagePrompts) {
			prompt = specs.ImagePrompts[i]
		}

		result, err := a.design.GenerateDesign(ctx, provider.DesignRequest{
			TemplateID:       specs.TemplateID,
			Headline:         headline,
			Subheadline:      subheadline,
			CTA:              developed.Copy.CTA,
			BrandColors:      cc.Brand.Colors,
			BackgroundPrompt: prompt,
			Customizations:   map[string]string{"slide": fmt.Sprintf("%d", i+1)},
		})
		if err != nil {
			return fmt.Errorf("carousel slide %d/%d for %s: %w", i+1, len(specs.CarouselSlides), developed.IdeaID, err)
		}

		a.recordAsset(pub, developed, result)
	}
	return nil
}

// recordAsset appends one rendered asset to both parallel arrays and adds
// the provider-reported cost to the publication metrics and the run ledger.
func (a *PublicationAssembler) recordAsset(pub *content.FinalPublication, developed content.DevelopedContent, result provider.DesignResult) {
	pub.Content.Images = append(pub.Content.Images, result.FinalImageURL)
	pub.Content.DesignAssets = append(pub.Content.DesignAssets, result.FinalImageURL)
	pub.Metrics.TotalCost += result.Cost

	if len(pub.Metrics.ProvidersUsed) == 1 {
		pub.Metrics.ProvidersUsed = append(pub.Metrics.ProvidersUsed, a.design.Name())
	}

	a.ledger.TrackCost(a.design.Name(), string(costs.StepFinalDesign), string(developed.ContentType), result.Cost)
}

// splitSlideCopy treats the first line of a slide's copy as its headline
// and the second line, when present, as the subheadline.
func splitSlideCopy(slide string) (headline, subheadline string) {
	lines := strings.SplitN(strings.TrimSpace(slide), "\n", 3)
	headline = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		subheadline = strings.TrimSpace(lines[1])
	}
	return headline, subheadline
}

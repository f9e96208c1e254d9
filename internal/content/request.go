package content

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CampaignContentRequest is the input contract for one pipeline run.
// It is immutable for the duration of the run.
type CampaignContentRequest struct {
	CampaignID   string           `json:"campaign_id" yaml:"campaign_id" validate:"required"`
	ClientID     string           `json:"client_id" yaml:"client_id" validate:"required"`
	ContentCount int              `json:"content_count" yaml:"content_count" validate:"required,gt=0"`
	DateRange    DateRange        `json:"date_range" yaml:"date_range"`
	Platforms    []string         `json:"platforms" yaml:"platforms" validate:"required,min=1,dive,required"`
	ContentMix   ContentMix       `json:"content_mix" yaml:"content_mix"`
	Brand        *BrandGuidelines `json:"brand_guidelines,omitempty" yaml:"brand_guidelines"`
}

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags plus the cross-field rules the tags cannot
// express: date ordering and mix weight sanity.
func (r *CampaignContentRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return fmt.Errorf("invalid campaign request: %w", err)
	}

	if r.DateRange.Start.IsZero() || r.DateRange.End.IsZero() {
		return fmt.Errorf("invalid campaign request: date range is required")
	}
	// Start == End is a valid single-day campaign; only reversed ranges fail.
	if r.DateRange.End.Before(r.DateRange.Start) {
		return fmt.Errorf("invalid campaign request: date range end %s precedes start %s",
			r.DateRange.End.Format("2006-01-02"), r.DateRange.Start.Format("2006-01-02"))
	}

	mix := r.ContentMix
	if mix.TextOnly < 0 || mix.SingleImage < 0 || mix.Carousel < 0 || mix.Video < 0 {
		return fmt.Errorf("invalid campaign request: content mix weights must be non-negative")
	}
	if mix.TextOnly+mix.SingleImage+mix.Carousel+mix.Video == 0 {
		return fmt.Errorf("invalid campaign request: at least one content mix weight must be positive")
	}

	return nil
}

// MixWeights returns the requested weights keyed by content type, omitting
// zero entries. Used when composing the idea generation instruction.
func (r *CampaignContentRequest) MixWeights() map[ContentType]int {
	weights := make(map[ContentType]int, 4)
	if r.ContentMix.TextOnly > 0 {
		weights[TypeTextOnly] = r.ContentMix.TextOnly
	}
	if r.ContentMix.SingleImage > 0 {
		weights[TypeSingleImage] = r.ContentMix.SingleImage
	}
	if r.ContentMix.Carousel > 0 {
		weights[TypeCarousel] = r.ContentMix.Carousel
	}
	if r.ContentMix.Video > 0 {
		weights[TypeVideo] = r.ContentMix.Video
	}
	return weights
}

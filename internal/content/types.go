// Package content defines the entities that flow through the campaign
// generation pipeline: the inbound request, the planned ideas, the developed
// copy/visual specs, and the final publications.
//
// Entities are created stage by stage and are read-only once produced; a
// pipeline run only reads upstream artifacts and appends new ones.
package content

import "time"

// ContentType classifies the visual shape of a post.
type ContentType string

const (
	TypeTextOnly    ContentType = "text_only"
	TypeSingleImage ContentType = "single_image"
	TypeCarousel    ContentType = "carousel"
	TypeVideo       ContentType = "video" // declared in the request schema; not yet assemblable
)

// KnownContentTypes lists every valid ContentType value.
var KnownContentTypes = []ContentType{TypeTextOnly, TypeSingleImage, TypeCarousel, TypeVideo}

// Valid reports whether the content type is one of the declared values.
func (t ContentType) Valid() bool {
	switch t {
	case TypeTextOnly, TypeSingleImage, TypeCarousel, TypeVideo:
		return true
	}
	return false
}

// Objective is the marketing objective a piece of content serves.
type Objective string

const (
	ObjectiveAwareness  Objective = "awareness"
	ObjectiveEngagement Objective = "engagement"
	ObjectiveConversion Objective = "conversion"
	ObjectiveEducation  Objective = "education"
)

// Valid reports whether the objective is one of the declared values.
func (o Objective) Valid() bool {
	switch o {
	case ObjectiveAwareness, ObjectiveEngagement, ObjectiveConversion, ObjectiveEducation:
		return true
	}
	return false
}

// Priority ranks an idea for downstream review.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PublicationStatus is the review lifecycle of a final publication.
// The pipeline always emits StatusDraft; later transitions belong to the
// scheduling layer.
type PublicationStatus string

const (
	StatusDraft     PublicationStatus = "draft"
	StatusApproved  PublicationStatus = "approved"
	StatusScheduled PublicationStatus = "scheduled"
	StatusPublished PublicationStatus = "published"
)

// DateRange is the campaign posting window, inclusive of Start.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// ContentMix holds the requested relative weights per content type.
// Weights need not sum to 100; they are proportions, not exact counts.
type ContentMix struct {
	TextOnly    int `json:"text_only" yaml:"text_only"`
	SingleImage int `json:"single_image" yaml:"single_image"`
	Carousel    int `json:"carousel" yaml:"carousel"`
	Video       int `json:"video" yaml:"video"`
}

// BrandGuidelines carries the client's brand constraints into prompts.
type BrandGuidelines struct {
	Tone            string   `json:"tone,omitempty" yaml:"tone"`
	Style           string   `json:"style,omitempty" yaml:"style"`
	Colors          []string `json:"colors,omitempty" yaml:"colors"`
	PreferredTopics []string `json:"preferred_topics,omitempty" yaml:"preferred_topics"`
	AvoidedTopics   []string `json:"avoided_topics,omitempty" yaml:"avoided_topics"`
}

// ContentIdea is a planned piece of content, not yet written.
type ContentIdea struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Concept       string      `json:"concept"`
	ContentType   ContentType `json:"content_type"`
	Platform      string      `json:"platform"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Topics        []string    `json:"topics,omitempty"`
	Tone          string      `json:"tone,omitempty"`
	Objective     Objective   `json:"objective"`
	Priority      Priority    `json:"priority"`
}

// ContentCopy is the written half of a developed item.
type ContentCopy struct {
	MainText    string   `json:"main_text"`
	Headline    string   `json:"headline,omitempty"`
	Subheadline string   `json:"subheadline,omitempty"`
	CTA         string   `json:"cta,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Caption     string   `json:"caption,omitempty"`
}

// VisualSpecs describes the design work required for a visual item.
// TemplateID is attached verbatim from the template selector; this layer
// does not reason about template internals.
type VisualSpecs struct {
	TemplateID     string   `json:"template_id"`
	ImagePrompts   []string `json:"image_prompts,omitempty"`
	CarouselSlides []string `json:"carousel_slides,omitempty"`
	Instructions   string   `json:"instructions,omitempty"`
}

// ContentMetadata carries advisory scores for downstream filtering.
// It never influences pipeline control flow.
type ContentMetadata struct {
	EstimatedCost       float64 `json:"estimated_cost"`
	EstimatedEngagement float64 `json:"estimated_engagement"`
	BrandCompliance     float64 `json:"brand_compliance"`
	QualityScore        float64 `json:"quality_score"`
}

// DevelopedContent is an idea expanded into copy and, for visual types,
// a design specification. Zero or one exists per idea.
type DevelopedContent struct {
	IdeaID      string          `json:"idea_id"`
	ContentType ContentType     `json:"content_type"`
	Platform    string          `json:"platform"`
	Copy        ContentCopy     `json:"copy"`
	VisualSpecs *VisualSpecs    `json:"visual_specs,omitempty"`
	Metadata    ContentMetadata `json:"metadata"`
}

// PublicationContent is the concrete material of a final publication.
type PublicationContent struct {
	Text         string   `json:"text"`
	Hashtags     []string `json:"hashtags,omitempty"`
	Images       []string `json:"images"`
	DesignAssets []string `json:"design_assets"`
}

// GenerationMetrics is the measured (not estimated) cost record for one
// publication. TotalCost is the sum of per-asset provider costs actually
// incurred.
type GenerationMetrics struct {
	TotalCost       float64  `json:"total_cost"`
	GenerationTime  int64    `json:"generation_time_ms"`
	ProvidersUsed   []string `json:"providers_used"`
	AssetsGenerated int      `json:"assets_generated"`
}

// FinalPublication is a fully generated, ready-to-review post.
type FinalPublication struct {
	ID            string             `json:"id"`
	IdeaID        string             `json:"idea_id"`
	CampaignID    string             `json:"campaign_id"`
	Platform      string             `json:"platform"`
	ContentType   ContentType        `json:"content_type"`
	ScheduledDate time.Time          `json:"scheduled_date"`
	Status        PublicationStatus  `json:"status"`
	Content       PublicationContent `json:"content"`
	Metrics       GenerationMetrics  `json:"generation_metrics"`
}

// Package provider defines the generative capabilities the pipeline consumes
// and the real clients behind them. The pipeline only sees the interfaces;
// concrete clients are injected at construction so tests can substitute
// doubles without touching pipeline logic.
package provider

import "context"

// TextResult is the outcome of one text generation call.
type TextResult struct {
	// Content is the raw model output, expected (but never trusted) to be
	// JSON matching the caller's requested shape.
	Content string

	InputTokens  int
	OutputTokens int
}

// TextClient is the text generation capability.
type TextClient interface {
	// GenerateStructured sends a system instruction plus a user prompt and
	// returns the raw response. Callers validate the structure themselves.
	GenerateStructured(ctx context.Context, instructions, prompt string) (TextResult, error)

	// Name identifies the provider for usage attribution.
	Name() string
}

// TemplateQuery describes the content a template must fit.
type TemplateQuery struct {
	ContentType       string   `json:"content_type"`
	Platform          string   `json:"platform"`
	BrandStyle        string   `json:"brand_style,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	CampaignObjective string   `json:"campaign_objective,omitempty"`
	TargetAudience    string   `json:"target_audience,omitempty"`
	BrandColors       []string `json:"brand_colors,omitempty"`
}

// Template is a reusable visual layout, referenced by id only.
type Template struct {
	ID string `json:"id"`
}

// DesignRequest asks the design service to render one final image.
type DesignRequest struct {
	TemplateID       string            `json:"template_id"`
	Headline         string            `json:"headline,omitempty"`
	Subheadline      string            `json:"subheadline,omitempty"`
	CTA              string            `json:"cta,omitempty"`
	BrandColors      []string          `json:"brand_colors,omitempty"`
	BackgroundPrompt string            `json:"background_prompt,omitempty"`
	Customizations   map[string]string `json:"customizations,omitempty"`
}

// DesignResult is the rendered asset plus the provider-reported cost for
// that single call. Cost here is billing truth; estimates never are.
type DesignResult struct {
	FinalImageURL string
	Cost          float64
}

// DesignClient is the template selection and image generation capability.
type DesignClient interface {
	// SelectTemplate returns the optimal template for the query.
	SelectTemplate(ctx context.Context, q TemplateQuery) (Template, error)

	// GenerateDesign renders one final image from a template and content.
	GenerateDesign(ctx context.Context, req DesignRequest) (DesignResult, error)

	// Name identifies the provider for usage attribution.
	Name() string
}

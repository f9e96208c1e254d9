package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"postforge/internal/account"
	"postforge/internal/content"
)

// The prompt builders keep all model-facing wording in one place. Output
// shape contracts here must stay in sync with the draft structs in
// ideagen.go and developer.go.

const ideaInstructions = `You are a senior social media strategist at a marketing agency.
You plan content calendars that balance reach, engagement, and conversion.
Always return raw JSON matching the requested schema, with no commentary.`

func ideaPrompt(req *content.CampaignContentRequest, cc account.CampaignContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan %d content ideas for the campaign %q.\n\n", req.ContentCount, cc.CampaignName)
	fmt.Fprintf(&b, "CAMPAIGN OBJECTIVE: %s\n", cc.Objective)
	fmt.Fprintf(&b, "CLIENT INDUSTRY: %s\n", cc.Brand.Industry)
	fmt.Fprintf(&b, "TARGET AUDIENCE: %s\n", cc.Brand.TargetAudience)
	fmt.Fprintf(&b, "POSTING WINDOW: %s to %s\n",
		req.DateRange.Start.Format("2006-01-02"), req.DateRange.End.Format("2006-01-02"))
	fmt.Fprintf(&b, "PLATFORMS: %s\n", strings.Join(req.Platforms, ", "))
	fmt.Fprintf(&b, "CONTENT MIX (relative weights): %s\n", formatMix(req.MixWeights()))

	if g := req.Brand; g != nil {
		if g.Tone != "" {
			fmt.Fprintf(&b, "BRAND TONE: %s\n", g.Tone)
		}
		if g.Style != "" {
			fmt.Fprintf(&b, "BRAND STYLE: %s\n", g.Style)
		}
		if len(g.PreferredTopics) > 0 {
			fmt.Fprintf(&b, "PREFERRED TOPICS: %s\n", strings.Join(g.PreferredTopics, ", "))
		}
		if len(g.AvoidedTopics) > 0 {
			fmt.Fprintf(&b, "AVOID: %s\n", strings.Join(g.AvoidedTopics, ", "))
		}
	}

	b.WriteString(`
Return JSON only:
{"ideas": [{"title": "string", "concept": "one or two sentences", "content_type": "text_only|single_image|carousel|video", "topics": ["string"], "tone": "string", "objective": "awareness|engagement|conversion|education", "priority": "high|medium|low"}]}

Distribute content types to match the requested mix weights as closely as the idea count allows.`)

	return b.String()
}

const developInstructions = `You are a senior copywriter at a social media marketing agency.
You write platform-native copy that stays strictly on brand.
Always return raw JSON matching the requested schema, with no commentary.`

func developPrompt(idea content.ContentIdea, cc account.CampaignContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Develop the following content idea into finished copy.\n\n")
	fmt.Fprintf(&b, "TITLE: %s\nCONCEPT: %s\nCONTENT TYPE: %s\nPLATFORM: %s\nOBJECTIVE: %s\n",
		idea.Title, idea.Concept, idea.ContentType, idea.Platform, idea.Objective)
	if idea.Tone != "" {
		fmt.Fprintf(&b, "TONE: %s\n", idea.Tone)
	}
	fmt.Fprintf(&b, "CLIENT INDUSTRY: %s\nTARGET AUDIENCE: %s\n", cc.Brand.Industry, cc.Brand.TargetAudience)
	if cc.Brand.Tone != "" {
		fmt.Fprintf(&b, "BRAND TONE: %s\n", cc.Brand.Tone)
	}

	switch idea.ContentType {
	case content.TypeSingleImage:
		b.WriteString(`
Return JSON only:
{"main_text": "string", "caption": "string", "hashtags": ["#tag"], "headline": "short overlay headline", "subheadline": "optional", "cta": "call to action", "image_prompts": ["one background image description"], "design_instructions": "string"}`)
	case content.TypeCarousel:
		b.WriteString(`
Return JSON only:
{"main_text": "string", "caption": "string", "hashtags": ["#tag"], "headline": "cover headline", "subheadline": "optional", "cta": "call to action", "carousel_slides": ["slide copy, first line is the slide headline"], "image_prompts": ["one background description per slide"], "design_instructions": "string"}
Use between 3 and 6 slides.`)
	default:
		b.WriteString(`
Return JSON only:
{"main_text": "string", "caption": "string", "hashtags": ["#tag"]}`)
	}

	return b.String()
}

// formatMix renders weights in a stable order so prompts are reproducible.
func formatMix(weights map[content.ContentType]int) string {
	keys := make([]string, 0, len(weights))
	for t := range weights {
		keys = append(keys, string(t))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, weights[content.ContentType(k)]))
	}
	return strings.Join(parts, ", ")
}

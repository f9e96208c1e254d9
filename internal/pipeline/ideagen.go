package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/costs"
	"postforge/internal/logging"
	"postforge/internal/provider"
	"postforge/internal/schedule"
	"postforge/internal/usage"
)

// IdeaGenerator turns a campaign brief into a distributed set of content
// ideas. It makes exactly one text provider call per run.
type IdeaGenerator struct {
	text   provider.TextClient
	ledger *usage.Ledger
	newID  func() string
}

// NewIdeaGenerator creates an idea generator recording usage into ledger.
func NewIdeaGenerator(text provider.TextClient, ledger *usage.Ledger) *IdeaGenerator {
	return &IdeaGenerator{
		text:   text,
		ledger: ledger,
		newID:  uuid.NewString,
	}
}

// ideaDraftResponse is the shape requested from the text provider.
type ideaDraftResponse struct {
	Ideas []ideaDraft `json:"ideas"`
}

type ideaDraft struct {
	Title       string   `json:"title"`
	Concept     string   `json:"concept"`
	ContentType string   `json:"content_type"`
	Topics      []string `json:"topics"`
	Tone        string   `json:"tone"`
	Objective   string   `json:"objective"`
	Priority    string   `json:"priority"`
}

// Generate produces the idea batch for one run. A provider failure or an
// unparsable response is fatal: with no ideas, nothing downstream can run.
// Individual malformed drafts are dropped, not fatal.
func (g *IdeaGenerator) Generate(ctx context.Context, req *content.CampaignContentRequest, cc account.CampaignContext) ([]content.ContentIdea, error) {
	timer := logging.StartTimer(logging.CategoryIdeas, "idea generation")
	defer timer.StopWithInfo()

	result, err := g.text.GenerateStructured(ctx, ideaInstructions, ideaPrompt(req, cc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdeaGenerationFailed, err)
	}

	g.ledger.TrackTokens(g.text.Name(), string(costs.StepIdea), result.InputTokens, result.OutputTokens)

	var parsed ideaDraftResponse
	if err := decodeResponse(result.Content, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdeaGenerationFailed, err)
	}
	if len(parsed.Ideas) == 0 {
		return nil, fmt.Errorf("%w: provider returned zero idea drafts", ErrIdeaGenerationFailed)
	}

	drafts := make([]schedule.IdeaDraft, 0, len(parsed.Ideas))
	for i, d := range parsed.Ideas {
		draft, ok := validateDraft(d)
		if !ok {
			logging.Get(logging.CategoryIdeas).Warn("dropping malformed idea draft %d (title=%q type=%q objective=%q)",
				i, d.Title, d.ContentType, d.Objective)
			continue
		}
		drafts = append(drafts, draft)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: every idea draft was malformed", ErrIdeaGenerationFailed)
	}

	ideas := schedule.Distribute(drafts, req.DateRange, req.Platforms, g.newID)
	logging.Schedule("distributed %d ideas over %s to %s across %d platforms",
		len(ideas), req.DateRange.Start.Format("2006-01-02"),
		req.DateRange.End.Format("2006-01-02"), len(req.Platforms))

	logging.Ideas("generated %d ideas (%d drafts dropped) for campaign %s",
		len(ideas), len(parsed.Ideas)-len(drafts), req.CampaignID)

	return ideas, nil
}

// validateDraft enforces the structural contract on one provider draft:
// title, concept, a known content type, and a known objective. Priority
// defaults to medium when absent or unknown.
func validateDraft(d ideaDraft) (schedule.IdeaDraft, bool) {
	if d.Title == "" || d.Concept == "" {
		return schedule.IdeaDraft{}, false
	}

	ct := content.ContentType(d.ContentType)
	if !ct.Valid() {
		return schedule.IdeaDraft{}, false
	}

	obj := content.Objective(d.Objective)
	if !obj.Valid() {
		return schedule.IdeaDraft{}, false
	}

	prio := content.Priority(d.Priority)
	switch prio {
	case content.PriorityHigh, content.PriorityMedium, content.PriorityLow:
	default:
		prio = content.PriorityMedium
	}

	return schedule.IdeaDraft{
		Title:       d.Title,
		Concept:     d.Concept,
		ContentType: ct,
		Topics:      d.Topics,
		Tone:        d.Tone,
		Objective:   obj,
		Priority:    prio,
	}, true
}

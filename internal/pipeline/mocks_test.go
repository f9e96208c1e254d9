package pipeline

import (
	"context"
	"sync"
	"time"

	"postforge/internal/account"
	"postforge/internal/content"
	"postforge/internal/provider"
	"postforge/internal/usage"
)

// mockTextClient implements provider.TextClient with a pluggable function
// field. Calls are recorded under a mutex so concurrent orchestrator tests
// can assert on them safely.
type mockTextClient struct {
	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, instructions, prompt string) (provider.TextResult, error)

	calls []textCall
}

type textCall struct {
	Instructions string
	Prompt       string
}

func (m *mockTextClient) GenerateStructured(ctx context.Context, instructions, prompt string) (provider.TextResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, textCall{Instructions: instructions, Prompt: prompt})
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, instructions, prompt)
	}
	return provider.TextResult{Content: "{}", InputTokens: 10, OutputTokens: 20}, nil
}

func (m *mockTextClient) Name() string { return "mock-text" }

func (m *mockTextClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockTextClient) recordedCalls() []textCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]textCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockDesignClient implements provider.DesignClient the same way.
type mockDesignClient struct {
	mu               sync.Mutex
	SelectFunc       func(ctx context.Context, q provider.TemplateQuery) (provider.Template, error)
	GenerateDesignFn func(ctx context.Context, req provider.DesignRequest) (provider.DesignResult, error)

	selectCalls []provider.TemplateQuery
	designCalls []provider.DesignRequest
}

func (m *mockDesignClient) SelectTemplate(ctx context.Context, q provider.TemplateQuery) (provider.Template, error) {
	m.mu.Lock()
	m.selectCalls = append(m.selectCalls, q)
	m.mu.Unlock()

	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, q)
	}
	return provider.Template{ID: "tpl-default"}, nil
}

func (m *mockDesignClient) GenerateDesign(ctx context.Context, req provider.DesignRequest) (provider.DesignResult, error) {
	m.mu.Lock()
	m.designCalls = append(m.designCalls, req)
	m.mu.Unlock()

	if m.GenerateDesignFn != nil {
		return m.GenerateDesignFn(ctx, req)
	}
	return provider.DesignResult{FinalImageURL: "https://cdn.example.com/asset.png", Cost: 8}, nil
}

func (m *mockDesignClient) Name() string { return "mock-design" }

func (m *mockDesignClient) designCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.designCalls)
}

func (m *mockDesignClient) recordedDesignCalls() []provider.DesignRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.DesignRequest, len(m.designCalls))
	copy(out, m.designCalls)
	return out
}

func (m *mockDesignClient) recordedSelectCalls() []provider.TemplateQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.TemplateQuery, len(m.selectCalls))
	copy(out, m.selectCalls)
	return out
}

// Shared fixtures.

func testCampaignContext() account.CampaignContext {
	return account.CampaignContext{
		CampaignID:   "camp-1",
		CampaignName: "Spring Launch",
		Objective:    "awareness",
		Brand: account.ClientBrand{
			Industry:       "fitness",
			TargetAudience: "young professionals",
			Tone:           "energetic",
			Style:          "modern",
			Colors:         []string{"#FF5733", "#222222"},
		},
	}
}

func testRequest() *content.CampaignContentRequest {
	return &content.CampaignContentRequest{
		CampaignID:   "camp-1",
		ClientID:     "client-1",
		ContentCount: 6,
		DateRange: content.DateRange{
			Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		},
		Platforms:  []string{"instagram", "linkedin"},
		ContentMix: content.ContentMix{TextOnly: 40, SingleImage: 40, Carousel: 20},
	}
}

func testIdea(id string, ct content.ContentType) content.ContentIdea {
	return content.ContentIdea{
		ID:            id,
		Title:         "Morning routine myths",
		Concept:       "Debunk three common myths about morning workout routines",
		ContentType:   ct,
		Platform:      "instagram",
		ScheduledDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Objective:     content.ObjectiveAwareness,
		Priority:      content.PriorityMedium,
	}
}

func newTestLedger() *usage.Ledger {
	return usage.NewLedger("run-test")
}

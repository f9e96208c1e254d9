package provider

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"postforge/internal/logging"
)

// GenAIConfig configures the Gemini text client.
type GenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// DefaultGenAIConfig returns sensible defaults for the given key.
func DefaultGenAIConfig(apiKey string) GenAIConfig {
	return GenAIConfig{
		APIKey:      apiKey,
		Model:       "gemini-2.5-flash",
		Temperature: 0.8,
		Timeout:     90 * time.Second,
	}
}

// GenAIClient implements TextClient using Google's Gemini API.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGenAIClient creates a new Gemini text client.
func NewGenAIClient(cfg GenAIConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
		timeout:     timeout,
	}, nil
}

// GenerateStructured sends one generation request with JSON response mode
// enabled. The per-call timeout caps how long a stalled provider can hold
// a pipeline item.
func (c *GenAIClient) GenerateStructured(ctx context.Context, instructions, prompt string) (TextResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	timer := logging.StartTimer(logging.CategoryProviders, fmt.Sprintf("genai %s call", c.model))
	defer timer.Stop()

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		ResponseMIMEType: "application/json",
	}
	if instructions != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(instructions, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return TextResult{}, fmt.Errorf("genai generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return TextResult{}, fmt.Errorf("genai returned an empty response")
	}

	result := TextResult{Content: text}
	if resp.UsageMetadata != nil {
		result.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	logging.ProvidersDebug("genai %s: %d in / %d out tokens",
		c.model, result.InputTokens, result.OutputTokens)

	return result, nil
}

// Name identifies the provider for usage attribution.
func (c *GenAIClient) Name() string {
	return fmt.Sprintf("genai:%s", c.model)
}

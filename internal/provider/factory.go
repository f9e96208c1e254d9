package provider

import (
	"fmt"
	"os"

	"postforge/internal/config"
)

// FromConfig builds the real provider clients from resolved configuration.
func FromConfig(cfg *config.Config) (TextClient, DesignClient, error) {
	text, err := NewGenAIClient(GenAIConfig{
		APIKey:      cfg.Providers.Text.APIKey,
		Model:       cfg.Providers.Text.Model,
		Temperature: cfg.Providers.Text.Temperature,
		Timeout:     cfg.TextTimeout(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("text provider: %w", err)
	}

	design, err := NewRESTDesignClient(DesignServiceConfig{
		BaseURL: cfg.Providers.Design.BaseURL,
		APIKey:  cfg.Providers.Design.APIKey,
		Timeout: cfg.DesignTimeout(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("design provider: %w", err)
	}

	return text, design, nil
}

// FromEnv builds clients from environment variables only, for callers that
// do not carry a config file. GEMINI_API_KEY and POSTFORGE_DESIGN_URL are
// required; POSTFORGE_DESIGN_API_KEY is optional.
func FromEnv() (TextClient, DesignClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil, fmt.Errorf("no API key found; set GEMINI_API_KEY")
	}

	text, err := NewGenAIClient(DefaultGenAIConfig(apiKey))
	if err != nil {
		return nil, nil, err
	}

	design, err := NewRESTDesignClient(DesignServiceConfig{
		BaseURL: os.Getenv("POSTFORGE_DESIGN_URL"),
		APIKey:  os.Getenv("POSTFORGE_DESIGN_API_KEY"),
	})
	if err != nil {
		return nil, nil, err
	}

	return text, design, nil
}

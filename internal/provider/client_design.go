package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postforge/internal/logging"
)

// DesignServiceConfig configures the REST design client.
type DesignServiceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RESTDesignClient implements DesignClient against the template/design
// service's JSON API.
type RESTDesignClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTDesignClient creates a new design service client.
func NewRESTDesignClient(cfg DesignServiceConfig) (*RESTDesignClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("design service base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &RESTDesignClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type selectTemplateResponse struct {
	ID string `json:"id"`
}

type generateDesignResponse struct {
	FinalImageURL string `json:"final_image_url"`
	Metadata      struct {
		TotalCost float64 `json:"total_cost"`
	} `json:"metadata"`
}

// SelectTemplate asks the design service for the optimal template for the
// given content shape, platform, and brand context.
func (c *RESTDesignClient) SelectTemplate(ctx context.Context, q TemplateQuery) (Template, error) {
	var resp selectTemplateResponse
	if err := c.post(ctx, "/v1/templates/select", q, &resp); err != nil {
		return Template{}, fmt.Errorf("template selection failed: %w", err)
	}
	if resp.ID == "" {
		return Template{}, fmt.Errorf("template selection returned no template id")
	}

	logging.ProvidersDebug("template selected: %s (type=%s platform=%s)", resp.ID, q.ContentType, q.Platform)
	return Template{ID: resp.ID}, nil
}

// GenerateDesign renders one final image and reports the provider's cost
// for that single call.
func (c *RESTDesignClient) GenerateDesign(ctx context.Context, req DesignRequest) (DesignResult, error) {
	timer := logging.StartTimer(logging.CategoryProviders, "design generation")
	defer timer.Stop()

	var resp generateDesignResponse
	if err := c.post(ctx, "/v1/designs/generate", req, &resp); err != nil {
		return DesignResult{}, fmt.Errorf("design generation failed: %w", err)
	}
	if resp.FinalImageURL == "" {
		return DesignResult{}, fmt.Errorf("design generation returned no image url")
	}

	return DesignResult{
		FinalImageURL: resp.FinalImageURL,
		Cost:          resp.Metadata.TotalCost,
	}, nil
}

// Name identifies the provider for usage attribution.
func (c *RESTDesignClient) Name() string {
	return "design-service"
}

// post sends a JSON request and decodes a JSON response. Non-2xx statuses
// become errors carrying a truncated response body for diagnosis.
func (c *RESTDesignClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("design service %s returned %d: %s", path, resp.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

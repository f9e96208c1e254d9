// Package account holds the read-only campaign/client context the pipeline
// consumes and the token wallet collaborator the caller settles against
// after a run. Persistence behind these interfaces belongs to the
// surrounding application layer.
package account

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrCampaignNotFound is returned when a campaign id does not resolve.
// The orchestrator treats it as fatal before any provider call is made.
var ErrCampaignNotFound = errors.New("campaign not found")

// ClientBrand is the client's brand settings used in prompt composition.
type ClientBrand struct {
	Industry       string   `yaml:"industry" json:"industry"`
	TargetAudience string   `yaml:"target_audience" json:"target_audience"`
	Tone           string   `yaml:"tone" json:"tone"`
	Style          string   `yaml:"style" json:"style"`
	Colors         []string `yaml:"colors" json:"colors"`
}

// CampaignContext is everything the pipeline reads about a campaign.
// It is immutable for the duration of a run.
type CampaignContext struct {
	CampaignID   string      `yaml:"campaign_id" json:"campaign_id"`
	CampaignName string      `yaml:"campaign_name" json:"campaign_name"`
	Objective    string      `yaml:"objective" json:"objective"`
	Brand        ClientBrand `yaml:"brand" json:"brand"`
}

// ContextStore resolves campaign context by id.
type ContextStore interface {
	Campaign(ctx context.Context, campaignID string) (CampaignContext, error)
}

// MemoryStore is an in-memory ContextStore, used by the CLI (loaded from a
// YAML file) and by tests.
type MemoryStore struct {
	mu        sync.RWMutex
	campaigns map[string]CampaignContext
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{campaigns: make(map[string]CampaignContext)}
}

// Put registers or replaces a campaign context.
func (s *MemoryStore) Put(cc CampaignContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[cc.CampaignID] = cc
}

// Campaign resolves a campaign context by id.
func (s *MemoryStore) Campaign(_ context.Context, campaignID string) (CampaignContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cc, ok := s.campaigns[campaignID]
	if !ok {
		return CampaignContext{}, fmt.Errorf("%w: %s", ErrCampaignNotFound, campaignID)
	}
	return cc, nil
}

// LoadStoreFromFile reads campaign contexts from a YAML file into a new
// MemoryStore. File shape: a top-level `campaigns:` list.
func LoadStoreFromFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaigns file %s: %w", path, err)
	}

	var doc struct {
		Campaigns []CampaignContext `yaml:"campaigns"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse campaigns file %s: %w", path, err)
	}

	store := NewMemoryStore()
	for _, cc := range doc.Campaigns {
		if cc.CampaignID == "" {
			return nil, fmt.Errorf("campaigns file %s: entry missing campaign_id", path)
		}
		store.Put(cc)
	}
	return store, nil
}

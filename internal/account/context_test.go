package account

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	store.Put(CampaignContext{
		CampaignID:   "camp-1",
		CampaignName: "Spring Launch",
		Objective:    "awareness",
		Brand:        ClientBrand{Industry: "fitness"},
	})

	cc, err := store.Campaign(context.Background(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Launch", cc.CampaignName)
	assert.Equal(t, "fitness", cc.Brand.Industry)
}

func TestMemoryStoreUnknownCampaign(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Campaign(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestLoadStoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.yaml")
	doc := `campaigns:
  - campaign_id: camp-1
    campaign_name: Spring Launch
    objective: awareness
    brand:
      industry: fitness
      target_audience: young professionals
      tone: energetic
      colors: ["#FF5733"]
  - campaign_id: camp-2
    campaign_name: Summer Sale
    objective: conversion
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	store, err := LoadStoreFromFile(path)
	require.NoError(t, err)

	cc, err := store.Campaign(context.Background(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, "energetic", cc.Brand.Tone)
	assert.Equal(t, []string{"#FF5733"}, cc.Brand.Colors)

	_, err = store.Campaign(context.Background(), "camp-2")
	assert.NoError(t, err)
}

func TestLoadStoreFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStoreFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("campaigns: {not: [a list"), 0644))
		_, err := LoadStoreFromFile(path)
		assert.Error(t, err)
	})

	t.Run("entry without id", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "noid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("campaigns:\n  - campaign_name: Nameless\n"), 0644))
		_, err := LoadStoreFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "campaign_id")
	})
}

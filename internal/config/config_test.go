package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate(), "the shipped defaults must validate")

	assert.Equal(t, "https://www.instagram.com/", cfg.Platform.BaseURL)
	assert.Equal(t, ".instagram.com", cfg.Platform.CookieDomain)
	assert.Equal(t, 5*time.Second, cfg.Events.Timeout)
	assert.Equal(t, "automation_worker", cfg.Events.Source)
	assert.Equal(t, 0.25, cfg.Behavior.OpenPostChance)
	assert.Equal(t, 0.20, cfg.Behavior.LikeChance)
	assert.Equal(t, 30*time.Second, cfg.Behavior.BrowseFloor)
	assert.Equal(t, 300*time.Second, cfg.Behavior.BrowseCapMax)
}

func TestNewConfigFromViperAppliesOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("behavior.like_chance", 0.5)
	v.Set("platform.name", "TestGram")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Behavior.LikeChance)
	assert.Equal(t, "TestGram", cfg.Platform.Name)
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Platform.BaseURL = ""
	require.ErrorContains(t, cfg.Validate(), "platform.base_url")

	cfg = NewDefaultConfig()
	cfg.Events.Endpoint = ""
	require.ErrorContains(t, cfg.Validate(), "events.endpoint")

	cfg = NewDefaultConfig()
	cfg.Events.Timeout = 0
	require.ErrorContains(t, cfg.Validate(), "events.timeout")
}

func TestBehaviorValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BehaviorConfig)
	}{
		{"probability above one", func(b *BehaviorConfig) { b.LikeChance = 1.5 }},
		{"negative probability", func(b *BehaviorConfig) { b.OpenPostChance = -0.1 }},
		{"inverted scroll pixels", func(b *BehaviorConfig) { b.ScrollMaxPx = b.ScrollMinPx - 1 }},
		{"zero scroll steps", func(b *BehaviorConfig) { b.ScrollMinSteps = 0 }},
		{"zero browse floor", func(b *BehaviorConfig) { b.BrowseFloor = 0 }},
		{"cap below floor", func(b *BehaviorConfig) { b.BrowseCapMin = b.BrowseFloor - time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(&cfg.Behavior)
			assert.Error(t, cfg.Validate())
		})
	}
}

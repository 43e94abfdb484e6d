package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Len(t, cfg.Tiers, 6)
	assert.True(t, cfg.Images.Enabled)
	assert.Equal(t, 20, cfg.Images.MaxHeight)
	assert.Equal(t, 200, cfg.Watch.DebounceMillis)

	num, den := cfg.TierRatio(1)
	assert.Equal(t, 7, num)
	assert.Equal(t, 7, den)
}

func TestTierRatioFallsBackPastTable(t *testing.T) {
	cfg := &Config{Tiers: []TierConfig{{9, 10}}}

	num, den := cfg.TierRatio(1)
	assert.Equal(t, 9, num)
	assert.Equal(t, 10, den)

	// Level 3 is past the configured table; built-in values apply.
	num, den = cfg.TierRatio(3)
	assert.Equal(t, 3, num)
	assert.Equal(t, 4, den)
}

func TestTierRatioIgnoresZeroDenominator(t *testing.T) {
	cfg := &Config{Tiers: []TierConfig{{5, 0}}}
	num, den := cfg.TierRatio(1)
	assert.Equal(t, 7, num)
	assert.Equal(t, 7, den)
}

func TestHeaderStyleClamps(t *testing.T) {
	skin := SkinConfig{Headers: []StyleConfig{{Fg: "1"}, {Fg: "2"}}}
	assert.Equal(t, "1", skin.HeaderStyle(0).Fg)
	assert.Equal(t, "2", skin.HeaderStyle(6).Fg)
	assert.True(t, SkinConfig{}.HeaderStyle(1).Bold)
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Skin.Link.Fg = "#87cefa"
	cfg.Images.MaxHeight = 12

	data, err := cfg.ToYAML()
	require.NoError(t, err)

	back, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "#87cefa", back.Skin.Link.Fg)
	assert.Equal(t, 12, back.Images.MaxHeight)
	assert.Equal(t, cfg.Tiers, back.Tiers)
}

func TestCloneIsDeep(t *testing.T) {
	cfg := NewConfig()
	clone := cfg.Clone()
	clone.Skin.Headers[0].Fg = "99"
	clone.Tiers[0].Numerator = 1

	assert.Equal(t, "12", cfg.Skin.Headers[0].Fg)
	assert.Equal(t, 7, cfg.Tiers[0].Numerator)
}

func TestGenerateTemplateParsesBack(t *testing.T) {
	data, err := GenerateTemplate()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# bigmd configuration.")

	back, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Tiers, back.Tiers)
}

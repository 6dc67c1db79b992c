package recommender

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecencyPenalty_Steps(t *testing.T) {
	cfg := DefaultConfig()
	day := 24 * time.Hour

	assert.Zero(t, cfg.RecencyPenalty(time.Time{}, testNow))
	assert.Equal(t, 1.0, cfg.RecencyPenalty(testNow.Add(-day), testNow))
	assert.Equal(t, 1.0, cfg.RecencyPenalty(testNow.Add(-3*day), testNow))
	assert.Equal(t, 0.4, cfg.RecencyPenalty(testNow.Add(-5*day), testNow))
	assert.Equal(t, 0.4, cfg.RecencyPenalty(testNow.Add(-10*day), testNow))
	assert.Zero(t, cfg.RecencyPenalty(testNow.Add(-11*day), testNow))
	assert.Equal(t, 1.0, cfg.RecencyPenalty(testNow.Add(day), testNow))
}

func TestRecencyPenalty_Monotonic(t *testing.T) {
	configs := map[string]Config{
		"default": DefaultConfig(),
		"inverted": Config{
			RecentWindow:    48 * time.Hour,
			ModerateWindow:  24 * time.Hour,
			RecentPenalty:   0.2,
			ModeratePenalty: 0.9,
		}.Normalize(),
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			prev := cfg.RecencyPenalty(testNow, testNow)
			for hours := 1; hours <= 60*24; hours++ {
				p := cfg.RecencyPenalty(testNow.Add(-time.Duration(hours)*time.Hour), testNow)
				assert.LessOrEqual(t, p, prev, "penalty rose at %dh", hours)
				prev = p
			}
			assert.Equal(t, cfg.RecencyPenalty(time.Time{}, testNow), prev)
		})
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{
		TopK:             -1,
		FallbackLimit:    -3,
		NoiseAmplitude:   -1,
		MaxOutfits:       0,
		AnchorPolicy:     "coin",
		DressProbability: 2,
	}.Normalize()

	def := DefaultConfig()
	assert.Equal(t, def.TopK, cfg.TopK)
	assert.Equal(t, def.FallbackLimit, cfg.FallbackLimit)
	assert.Zero(t, cfg.NoiseAmplitude)
	assert.Equal(t, def.MaxOutfits, cfg.MaxOutfits)
	assert.Equal(t, PolicyRandom, cfg.AnchorPolicy)
	assert.Equal(t, def.DressProbability, cfg.DressProbability)
	assert.Equal(t, def.RecentWindow, cfg.RecentWindow)
	assert.Equal(t, def.RecentWindow, cfg.ModerateWindow)
}

func TestConfigNormalize_BoundsFallbackLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackLimit = 10
	assert.Equal(t, MaxFallbackLimit, cfg.Normalize().FallbackLimit)

	cfg.FallbackLimit = 1
	assert.Equal(t, 1, cfg.Normalize().FallbackLimit)
}

func TestConfigNormalize_RejectsNonFinite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseAmplitude = math.NaN()
	cfg.RecentPenalty = math.Inf(1)
	cfg.ModeratePenalty = math.NaN()
	cfg.DressProbability = math.NaN()
	got := cfg.Normalize()

	def := DefaultConfig()
	assert.Equal(t, def.NoiseAmplitude, got.NoiseAmplitude)
	assert.Equal(t, def.RecentPenalty, got.RecentPenalty)
	assert.Equal(t, def.ModeratePenalty, got.ModeratePenalty)
	assert.Equal(t, def.DressProbability, got.DressProbability)
}

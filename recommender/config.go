package recommender

import (
	"math"
	"time"
)

// Anchor policy names accepted in Config.AnchorPolicy.
const (
	PolicyRandom    = "random"
	PolicyAlternate = "alternate"
	PolicySeparates = "separates"
	PolicyDress     = "dress"
)

// MaxFallbackLimit bounds the precipitation fallbacks appended per clothing
// type, so a shortlist never holds more than TopK+MaxFallbackLimit items.
const MaxFallbackLimit = 2

// Config holds the ranking and assembly tunables.
type Config struct {
	TopK             int           `yaml:"top_k"`
	FallbackLimit    int           `yaml:"fallback_limit"`
	NoiseAmplitude   float64       `yaml:"noise_amplitude"`
	RecentWindow     time.Duration `yaml:"recent_window"`
	ModerateWindow   time.Duration `yaml:"moderate_window"`
	RecentPenalty    float64       `yaml:"recent_penalty"`
	ModeratePenalty  float64       `yaml:"moderate_penalty"`
	MaxOutfits       int           `yaml:"max_outfits"`
	AnchorPolicy     string        `yaml:"anchor_policy"`
	DressProbability float64       `yaml:"dress_probability"`
	Layering         bool          `yaml:"layering"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		TopK:             5,
		FallbackLimit:    2,
		NoiseAmplitude:   0.15,
		RecentWindow:     3 * 24 * time.Hour,
		ModerateWindow:   10 * 24 * time.Hour,
		RecentPenalty:    1.0,
		ModeratePenalty:  0.4,
		MaxOutfits:       5,
		AnchorPolicy:     PolicyRandom,
		DressProbability: 0.5,
		Layering:         true,
	}
}

// Normalize replaces out-of-range values with defaults so a bad tuning file
// cannot break monotonic recency or the outfit cap.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	if c.FallbackLimit < 0 {
		c.FallbackLimit = def.FallbackLimit
	}
	if c.FallbackLimit > MaxFallbackLimit {
		c.FallbackLimit = MaxFallbackLimit
	}
	if !finite(c.NoiseAmplitude) {
		c.NoiseAmplitude = def.NoiseAmplitude
	}
	if c.NoiseAmplitude < 0 {
		c.NoiseAmplitude = 0
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = def.RecentWindow
	}
	if c.ModerateWindow < c.RecentWindow {
		c.ModerateWindow = c.RecentWindow
	}
	if !finite(c.RecentPenalty) {
		c.RecentPenalty = def.RecentPenalty
	}
	if !finite(c.ModeratePenalty) {
		c.ModeratePenalty = def.ModeratePenalty
	}
	if c.RecentPenalty < 0 {
		c.RecentPenalty = 0
	}
	if c.ModeratePenalty < 0 {
		c.ModeratePenalty = 0
	}
	if c.ModeratePenalty > c.RecentPenalty {
		c.ModeratePenalty = c.RecentPenalty
	}
	if c.MaxOutfits <= 0 {
		c.MaxOutfits = def.MaxOutfits
	}
	switch c.AnchorPolicy {
	case PolicyRandom, PolicyAlternate, PolicySeparates, PolicyDress:
	default:
		c.AnchorPolicy = def.AnchorPolicy
	}
	if math.IsNaN(c.DressProbability) || c.DressProbability < 0 || c.DressProbability > 1 {
		c.DressProbability = def.DressProbability
	}
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

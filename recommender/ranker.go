package recommender

import (
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/raushankrgupta/threadline/models"
)

// WeatherContext is the weather a recommendation is made for.
type WeatherContext struct {
	Season models.Season `json:"season"`
	Precip models.Precip `json:"precip,omitempty"`
}

// WeightedCandidate is a garment with the components of its ranking score.
type WeightedCandidate struct {
	Garment        models.Garment
	SubtypeWeight  float64
	FitWeight      float64
	OccasionWeight float64
	RecencyPenalty float64
	Score          float64
	// Fallback marks items kept only because they suit the precipitation.
	Fallback bool
}

// Shortlist holds the ranked candidates per clothing type in ascending
// preference, so the best candidate is at the end.
type Shortlist map[models.ClothingType][]WeightedCandidate

// Len returns the number of candidates left for t.
func (s Shortlist) Len(t models.ClothingType) int {
	return len(s[t])
}

// Pop removes and returns the most preferred candidate of t.
func (s Shortlist) Pop(t models.ClothingType) (WeightedCandidate, bool) {
	list := s[t]
	if len(list) == 0 {
		return WeightedCandidate{}, false
	}
	c := list[len(list)-1]
	s[t] = list[:len(list)-1]
	return c, true
}

// Take removes and returns the candidate at index i of t.
func (s Shortlist) Take(t models.ClothingType, i int) WeightedCandidate {
	list := s[t]
	c := list[i]
	s[t] = slices.Delete(list, i, i+1)
	return c
}

// Types returns the clothing types present, known types first in their
// canonical order, then any others alphabetically.
func (s Shortlist) Types() []models.ClothingType {
	var types []models.ClothingType
	for _, t := range models.ClothingTypes {
		if _, ok := s[t]; ok {
			types = append(types, t)
		}
	}
	var extra []models.ClothingType
	for t := range s {
		if !slices.Contains(models.ClothingTypes, t) {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(types, extra...)
}

// Ranker scores garments and builds a Shortlist. A Ranker is used for a
// single request and is not safe for concurrent use.
type Ranker struct {
	cfg Config
	rng *rand.Rand
	now time.Time
}

func NewRanker(cfg Config, rng *rand.Rand, now time.Time) *Ranker {
	return &Ranker{cfg: cfg.Normalize(), rng: rng, now: now}
}

// Rank scores every eligible garment and keeps the top K per clothing type,
// adding precipitation fallbacks when the top K holds nothing suitable.
func (r *Ranker) Rank(garments []models.Garment, history []models.WornRecord, weather WeatherContext) Shortlist {
	var eligible []models.Garment
	for _, g := range garments {
		if g.IsDeleted || !g.Season.SameBucket(weather.Season) {
			continue
		}
		eligible = append(eligible, g)
	}

	weights := ComputeWeights(eligible, history)
	lastWorn := lastWornDates(history)

	byType := make(map[models.ClothingType][]WeightedCandidate)
	for _, g := range eligible {
		c := WeightedCandidate{
			Garment:        g,
			SubtypeWeight:  weights.Subtype(g.Type, g.Subtype),
			FitWeight:      weights.Fit(g.Type, g.Fit),
			OccasionWeight: weights.Occasion(g.Type, g.Occasion),
			RecencyPenalty: r.cfg.RecencyPenalty(lastWorn[g.ID], r.now),
		}
		c.Score = c.SubtypeWeight + c.FitWeight + c.OccasionWeight - c.RecencyPenalty + r.noise()
		byType[g.Type] = append(byType[g.Type], c)
	}

	shortlist := make(Shortlist, len(byType))
	for t, candidates := range byType {
		shortlist[t] = r.selectTop(candidates, weather.Precip)
	}
	return shortlist
}

func (r *Ranker) selectTop(candidates []WeightedCandidate, precip models.Precip) []WeightedCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	k := min(r.cfg.TopK, len(candidates))
	top := candidates[:k:k]

	var fallbacks []WeightedCandidate
	if precip != models.PrecipNone && !slices.ContainsFunc(top, func(c WeightedCandidate) bool {
		return c.Garment.Precip == precip
	}) {
		for _, c := range candidates[k:] {
			if len(fallbacks) == r.cfg.FallbackLimit {
				break
			}
			if c.Garment.Precip == precip {
				c.Score = 0
				c.Fallback = true
				fallbacks = append(fallbacks, c)
			}
		}
	}

	out := make([]WeightedCandidate, 0, len(top)+len(fallbacks))
	for i := len(top) - 1; i >= 0; i-- {
		out = append(out, top[i])
	}
	for i := len(fallbacks) - 1; i >= 0; i-- {
		out = append(out, fallbacks[i])
	}
	return out
}

func (r *Ranker) noise() float64 {
	if r.cfg.NoiseAmplitude == 0 || r.rng == nil {
		return 0
	}
	return (r.rng.Float64()*2 - 1) * r.cfg.NoiseAmplitude
}

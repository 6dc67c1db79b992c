package recommender

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/raushankrgupta/threadline/colors"
	"github.com/raushankrgupta/threadline/models"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

type garmentOpt func(*models.Garment)

func newGarment(id string, t models.ClothingType, opts ...garmentOpt) models.Garment {
	g := models.Garment{
		ID:            id,
		Username:      "alice",
		Type:          t,
		Fit:           models.FitFitted,
		Occasion:      models.OccasionCasual,
		Season:        models.SeasonSummer,
		ImageFilename: "alice_" + id + ".png",
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func withColor(l, a, b float64) garmentOpt {
	return func(g *models.Garment) { g.PrimaryColor = &colors.Lab{L: l, A: a, B: b} }
}

func withLab(lab colors.Lab) garmentOpt {
	return func(g *models.Garment) { g.PrimaryColor = &lab }
}

func withPrecip(p models.Precip) garmentOpt {
	return func(g *models.Garment) { g.Precip = p }
}

func withSubtype(s models.Subtype) garmentOpt {
	return func(g *models.Garment) { g.Subtype = s }
}

func withFit(f models.Fit) garmentOpt {
	return func(g *models.Garment) { g.Fit = f }
}

func withOccasion(o models.Occasion) garmentOpt {
	return func(g *models.Garment) { g.Occasion = o }
}

func withSeason(s models.Season) garmentOpt {
	return func(g *models.Garment) { g.Season = s }
}

func asLayerable() garmentOpt {
	return func(g *models.Garment) { g.Layerable = true }
}

func asDeleted() garmentOpt {
	return func(g *models.Garment) { g.IsDeleted = true }
}

func wornOn(id string, daysAgo int) models.WornRecord {
	return models.WornRecord{
		GarmentID: id,
		OutfitID:  fmt.Sprintf("outfit-%s-%d", id, daysAgo),
		DateWorn:  testNow.AddDate(0, 0, -daysAgo),
	}
}

func candidates(garments ...models.Garment) []WeightedCandidate {
	out := make([]WeightedCandidate, len(garments))
	for i, g := range garments {
		out[i] = WeightedCandidate{Garment: g}
	}
	return out
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.NoiseAmplitude = 0
	return cfg
}

// randomWardrobe builds n garments of each type with random attributes.
func randomWardrobe(rng *rand.Rand, n int) []models.Garment {
	var out []models.Garment
	for _, t := range models.ClothingTypes {
		subtypes := models.AllowedSubtypes[t]
		for i := 0; i < n; i++ {
			precip := models.PrecipNone
			switch rng.IntN(4) {
			case 0:
				precip = models.PrecipRain
			case 1:
				precip = models.PrecipSnow
			}
			g := newGarment(fmt.Sprintf("%s-%d", t, i), t,
				withSubtype(subtypes[rng.IntN(len(subtypes))]),
				withFit(models.Fits[rng.IntN(len(models.Fits))]),
				withOccasion(models.Occasions[rng.IntN(len(models.Occasions))]),
				withPrecip(precip),
				withColor(rng.Float64()*100, rng.Float64()*200-100, rng.Float64()*200-100),
			)
			g.Layerable = t == models.TypeTop && rng.IntN(2) == 0
			out = append(out, g)
		}
	}
	return out
}

func randomHistory(rng *rand.Rand, garments []models.Garment, wears int) []models.WornRecord {
	var out []models.WornRecord
	for i := 0; i < wears; i++ {
		g := garments[rng.IntN(len(garments))]
		out = append(out, wornOn(g.ID, rng.IntN(30)))
	}
	return out
}

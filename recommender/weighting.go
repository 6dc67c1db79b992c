package recommender

import "github.com/raushankrgupta/threadline/models"

type attributeCounts struct {
	subtype  map[models.Subtype]int
	fit      map[models.Fit]int
	occasion map[models.Occasion]int
	total    int
}

// AttributeWeights holds, per clothing type, the share of wears each
// subtype, fit and occasion value accounts for.
type AttributeWeights struct {
	byType map[models.ClothingType]*attributeCounts
}

// ComputeWeights counts every wear record of an eligible garment. A garment
// worn three times contributes three times. Records pointing at garments
// outside the eligible set are ignored.
func ComputeWeights(garments []models.Garment, history []models.WornRecord) AttributeWeights {
	byID := make(map[string]*models.Garment, len(garments))
	for i := range garments {
		byID[garments[i].ID] = &garments[i]
	}

	w := AttributeWeights{byType: make(map[models.ClothingType]*attributeCounts)}
	for _, rec := range history {
		g, ok := byID[rec.GarmentID]
		if !ok {
			continue
		}
		c := w.byType[g.Type]
		if c == nil {
			c = &attributeCounts{
				subtype:  make(map[models.Subtype]int),
				fit:      make(map[models.Fit]int),
				occasion: make(map[models.Occasion]int),
			}
			w.byType[g.Type] = c
		}
		c.subtype[g.Subtype]++
		c.fit[g.Fit]++
		c.occasion[g.Occasion]++
		c.total++
	}
	return w
}

func (w AttributeWeights) Subtype(t models.ClothingType, s models.Subtype) float64 {
	c := w.byType[t]
	if c == nil || c.total == 0 {
		return 0
	}
	return float64(c.subtype[s]) / float64(c.total)
}

func (w AttributeWeights) Fit(t models.ClothingType, f models.Fit) float64 {
	c := w.byType[t]
	if c == nil || c.total == 0 {
		return 0
	}
	return float64(c.fit[f]) / float64(c.total)
}

func (w AttributeWeights) Occasion(t models.ClothingType, o models.Occasion) float64 {
	c := w.byType[t]
	if c == nil || c.total == 0 {
		return 0
	}
	return float64(c.occasion[o]) / float64(c.total)
}

// Wears returns the number of wear records counted for a clothing type.
func (w AttributeWeights) Wears(t models.ClothingType) int {
	if c := w.byType[t]; c != nil {
		return c.total
	}
	return 0
}

// Package insights summarises how a wardrobe is being worn: utilization,
// most reworn items and declutter candidates.
package insights

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/raushankrgupta/threadline/models"
)

// TotalKey is the utilization row covering the whole wardrobe.
const TotalKey = "TOTAL"

// MonthCutoff returns the start of the day one month before now.
func MonthCutoff(now time.Time) time.Time {
	y, m, d := now.AddDate(0, -1, 0).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// TypeUtilization is the share of a type's garments worn at least once in the window.
type TypeUtilization struct {
	Type    string  `json:"type"`
	Percent float64 `json:"percent"`
}

// Utilization reports, for the non-deleted garments, the fraction of each
// type (and of the whole wardrobe) worn in outfits. The TOTAL row comes first.
func Utilization(garments []models.Garment, outfits []models.Outfit) []TypeUtilization {
	owned := activeByID(garments)
	worn := make(map[string]bool)
	for _, o := range outfits {
		for _, id := range o.ClothingIDs {
			if _, ok := owned[id]; ok {
				worn[id] = true
			}
		}
	}

	total := make(map[models.ClothingType]int)
	used := make(map[models.ClothingType]int)
	for _, g := range owned {
		total[g.Type]++
		if worn[g.ID] {
			used[g.Type]++
		}
	}

	out := []TypeUtilization{{Type: TotalKey, Percent: ratio(len(worn), len(owned))}}
	for _, t := range sortedTypes(total) {
		out = append(out, TypeUtilization{Type: string(t), Percent: ratio(used[t], total[t])})
	}
	return out
}

// Rewear is the most worn garment of a type within the window.
type Rewear struct {
	ID    string              `json:"id"`
	Type  models.ClothingType `json:"type"`
	Image string              `json:"img"`
	Wears int                 `json:"wears"`
}

// Rewears returns, per clothing type, the garment worn the most times in the
// given outfits, provided it was worn more than once. Ties go to the garment
// listed first.
func Rewears(garments []models.Garment, outfits []models.Outfit) []Rewear {
	counts := make(map[string]int)
	for _, o := range outfits {
		for _, id := range o.ClothingIDs {
			counts[id]++
		}
	}

	best := make(map[models.ClothingType]Rewear)
	for _, g := range garments {
		if g.IsDeleted || counts[g.ID] <= 1 {
			continue
		}
		if cur, ok := best[g.Type]; ok && cur.Wears >= counts[g.ID] {
			continue
		}
		best[g.Type] = Rewear{ID: g.ID, Type: g.Type, Image: g.ImageFilename, Wears: counts[g.ID]}
	}

	out := make([]Rewear, 0, len(best))
	for _, t := range sortedTypes(best) {
		out = append(out, best[t])
	}
	return out
}

// DeclutterCandidate is a garment that has gone unworn for a while.
type DeclutterCandidate struct {
	ID       string              `json:"id"`
	Type     models.ClothingType `json:"type"`
	Image    string              `json:"img"`
	LastWorn *time.Time          `json:"recent,omitempty"`
	Wears    int                 `json:"wear_counts"`
}

// Declutter lists non-deleted garments owned for over a month and not worn
// within the last month, least worn first.
func Declutter(garments []models.Garment, history []models.WornRecord, now time.Time) []DeclutterCandidate {
	cutoff := MonthCutoff(now)

	wears := make(map[string]int)
	last := make(map[string]time.Time)
	for _, rec := range history {
		wears[rec.GarmentID]++
		if rec.DateWorn.After(last[rec.GarmentID]) {
			last[rec.GarmentID] = rec.DateWorn
		}
	}

	out := []DeclutterCandidate{}
	for _, g := range garments {
		if g.IsDeleted || !g.CreatedAt.Before(cutoff) {
			continue
		}
		c := DeclutterCandidate{ID: g.ID, Type: g.Type, Image: g.ImageFilename, Wears: wears[g.ID]}
		if recent, ok := last[g.ID]; ok {
			if !recent.Before(cutoff) {
				continue
			}
			c.LastWorn = &recent
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Wears < out[j].Wears })
	return out
}

// PastOutfitItem is one garment of a previously worn outfit.
type PastOutfitItem struct {
	ID    string              `json:"id"`
	Type  models.ClothingType `json:"type,omitempty"`
	Image string              `json:"img,omitempty"`
}

// PastOutfit is a logged outfit with its garments resolved.
type PastOutfit struct {
	ID       string           `json:"outfit_id"`
	DateWorn time.Time        `json:"timestamp"`
	Items    []PastOutfitItem `json:"items"`
}

// PastOutfits resolves the garments of logged outfits. Garments no longer in
// the wardrobe keep their id without type or image.
func PastOutfits(outfits []models.Outfit, garments []models.Garment) []PastOutfit {
	byID := make(map[string]models.Garment, len(garments))
	for _, g := range garments {
		byID[g.ID] = g
	}
	out := make([]PastOutfit, 0, len(outfits))
	for _, o := range outfits {
		p := PastOutfit{ID: o.ID, DateWorn: o.DateWorn, Items: make([]PastOutfitItem, 0, len(o.ClothingIDs))}
		for _, id := range o.ClothingIDs {
			item := PastOutfitItem{ID: id}
			if g, ok := byID[id]; ok {
				item.Type, item.Image = g.Type, g.ImageFilename
			}
			p.Items = append(p.Items, item)
		}
		out = append(out, p)
	}
	return out
}

func activeByID(garments []models.Garment) map[string]models.Garment {
	out := make(map[string]models.Garment, len(garments))
	for _, g := range garments {
		if !g.IsDeleted {
			out[g.ID] = g
		}
	}
	return out
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(d)*100) / 100
}

func sortedTypes[V any](m map[models.ClothingType]V) []models.ClothingType {
	types := make([]models.ClothingType, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b models.ClothingType) int {
		ia, ib := slices.Index(models.ClothingTypes, a), slices.Index(models.ClothingTypes, b)
		if ia == -1 {
			ia = len(models.ClothingTypes)
		}
		if ib == -1 {
			ib = len(models.ClothingTypes)
		}
		if ia != ib {
			return ia - ib
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return types
}

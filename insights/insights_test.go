package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/threadline/models"
)

var now = time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)

func g(id string, t models.ClothingType, createdDaysAgo int) models.Garment {
	return models.Garment{
		ID:            id,
		Type:          t,
		ImageFilename: id + ".png",
		CreatedAt:     now.AddDate(0, 0, -createdDaysAgo),
	}
}

func outfit(daysAgo int, ids ...string) models.Outfit {
	return models.Outfit{ID: "o" + ids[0], ClothingIDs: ids, DateWorn: now.AddDate(0, 0, -daysAgo)}
}

func TestMonthCutoff(t *testing.T) {
	assert.Equal(t, time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), MonthCutoff(now))
}

func TestUtilization(t *testing.T) {
	deleted := g("t4", models.TypeTop, 5)
	deleted.IsDeleted = true
	garments := []models.Garment{
		g("t1", models.TypeTop, 90), g("t2", models.TypeTop, 90), g("t3", models.TypeTop, 90),
		g("b1", models.TypeBottom, 90),
		g("s1", models.TypeShoes, 90), g("s2", models.TypeShoes, 90),
		deleted,
	}
	outfits := []models.Outfit{
		outfit(2, "t1", "b1", "s1"),
		outfit(5, "t1", "b1", "s1"),
		outfit(6, "t4"),
	}

	got := Utilization(garments, outfits)
	assert.Equal(t, []TypeUtilization{
		{Type: TotalKey, Percent: 0.5},
		{Type: "TOP", Percent: 0.33},
		{Type: "BOTTOM", Percent: 1},
		{Type: "SHOES", Percent: 0.5},
	}, got)
}

func TestUtilizationEmpty(t *testing.T) {
	assert.Equal(t, []TypeUtilization{{Type: TotalKey, Percent: 0}}, Utilization(nil, nil))
}

func TestRewears(t *testing.T) {
	garments := []models.Garment{
		g("t1", models.TypeTop, 90), g("t2", models.TypeTop, 90),
		g("b1", models.TypeBottom, 90),
		g("s1", models.TypeShoes, 90),
	}
	outfits := []models.Outfit{
		outfit(1, "t1", "b1", "s1"),
		outfit(2, "t2", "b1"),
		outfit(3, "t2"),
		outfit(4, "t1"),
	}

	got := Rewears(garments, outfits)
	require.Len(t, got, 2)
	assert.Equal(t, Rewear{ID: "t1", Type: models.TypeTop, Image: "t1.png", Wears: 2}, got[0])
	assert.Equal(t, Rewear{ID: "b1", Type: models.TypeBottom, Image: "b1.png", Wears: 2}, got[1])
}

func TestDeclutter(t *testing.T) {
	fresh := g("fresh", models.TypeTop, 3)
	gone := g("gone", models.TypeTop, 200)
	gone.IsDeleted = true
	garments := []models.Garment{
		g("worn-lately", models.TypeTop, 120),
		g("worn-long-ago", models.TypeTop, 120),
		g("never", models.TypeShoes, 120),
		fresh,
		gone,
	}
	history := []models.WornRecord{
		{GarmentID: "worn-lately", DateWorn: now.AddDate(0, 0, -3)},
		{GarmentID: "worn-long-ago", DateWorn: now.AddDate(0, 0, -50)},
		{GarmentID: "worn-long-ago", DateWorn: now.AddDate(0, 0, -70)},
	}

	got := Declutter(garments, history, now)
	require.Len(t, got, 2)
	assert.Equal(t, "never", got[0].ID)
	assert.Zero(t, got[0].Wears)
	assert.Nil(t, got[0].LastWorn)
	assert.Equal(t, "worn-long-ago", got[1].ID)
	assert.Equal(t, 2, got[1].Wears)
	require.NotNil(t, got[1].LastWorn)
	assert.True(t, got[1].LastWorn.Equal(now.AddDate(0, 0, -50)))
}

func TestPastOutfits(t *testing.T) {
	garments := []models.Garment{g("t1", models.TypeTop, 10)}
	got := PastOutfits([]models.Outfit{outfit(1, "t1", "gone")}, garments)

	require.Len(t, got, 1)
	assert.Equal(t, []PastOutfitItem{
		{ID: "t1", Type: models.TypeTop, Image: "t1.png"},
		{ID: "gone"},
	}, got[0].Items)
}

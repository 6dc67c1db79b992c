package recommender

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/threadline/models"
)

func assertHasBase(t *testing.T, o Outfit) {
	t.Helper()
	_, shoes := o[models.TypeShoes]
	require.True(t, shoes, "outfit without shoes: %v", o)
	if _, dress := o[models.TypeDress]; dress {
		_, bottom := o[models.TypeBottom]
		assert.False(t, bottom, "dress outfit with bottom: %v", o)
		if top, ok := o[models.TypeTop]; ok {
			assert.True(t, top.Layer, "dress outfit with non-layer top: %v", o)
		}
		return
	}
	_, top := o[models.TypeTop]
	_, bottom := o[models.TypeBottom]
	assert.True(t, top && bottom, "separates outfit missing top or bottom: %v", o)
	assert.False(t, o[models.TypeTop].Layer)
}

func manyOf(t models.ClothingType, n int, opts ...garmentOpt) []WeightedCandidate {
	var gs []models.Garment
	for i := 0; i < n; i++ {
		gs = append(gs, newGarment(fmt.Sprintf("%s-%d", t, i), t, opts...))
	}
	return candidates(gs...)
}

func TestAssemble_RequiredBaseAlways(t *testing.T) {
	cfg := DefaultConfig()
	for seed := uint64(0); seed < 100; seed++ {
		rng := seededRand(seed)
		garments := randomWardrobe(rng, rng.IntN(6))
		for i := len(garments) - 1; i >= 0; i-- {
			if rng.IntN(3) == 0 {
				garments = append(garments[:i], garments[i+1:]...)
			}
		}
		list := NewRanker(cfg, rng, testNow).Rank(garments, nil, WeatherContext{Season: models.SeasonSummer})
		outfits := NewAssembler(cfg, NewAnchorPolicy(cfg, rng)).Assemble(list)

		assert.LessOrEqual(t, len(outfits), cfg.MaxOutfits)
		used := map[string]bool{}
		for _, o := range outfits {
			assertHasBase(t, o)
			for _, item := range o {
				assert.False(t, used[item.ID], "seed %d reused %s", seed, item.ID)
				used[item.ID] = true
			}
		}
	}
}

func TestAssemble_StopsAtCap(t *testing.T) {
	list := Shortlist{
		models.TypeTop:    manyOf(models.TypeTop, 100),
		models.TypeBottom: manyOf(models.TypeBottom, 100),
		models.TypeShoes:  manyOf(models.TypeShoes, 100),
		models.TypeDress:  manyOf(models.TypeDress, 100),
	}
	cfg := DefaultConfig()
	cfg.MaxOutfits = 3
	outfits := NewAssembler(cfg, &AlternatePolicy{}).Assemble(list)
	require.Len(t, outfits, 3)
	assert.Equal(t, KindSeparates, outfits[0].Kind())
	assert.Equal(t, KindDress, outfits[1].Kind())
	assert.Equal(t, KindSeparates, outfits[2].Kind())
}

func TestAssemble_ShoesExhausted(t *testing.T) {
	list := Shortlist{
		models.TypeDress: manyOf(models.TypeDress, 2),
		models.TypeShoes: manyOf(models.TypeShoes, 1),
	}
	outfits := NewAssembler(DefaultConfig(), FixedPolicy(KindSeparates)).Assemble(list)
	require.Len(t, outfits, 1)
	assert.Len(t, outfits[0], 2)
	assert.Contains(t, outfits[0], models.TypeDress)
	assert.Contains(t, outfits[0], models.TypeShoes)
	assert.Equal(t, "DRESS-1", outfits[0][models.TypeDress].ID)
	assert.Equal(t, "alice_DRESS-1.png", outfits[0][models.TypeDress].Image)
}

func TestAssemble_NothingToBuild(t *testing.T) {
	list := Shortlist{
		models.TypeTop:       manyOf(models.TypeTop, 4),
		models.TypeOuterwear: manyOf(models.TypeOuterwear, 4),
	}
	outfits := NewAssembler(DefaultConfig(), FixedPolicy(KindDress)).Assemble(list)
	assert.Empty(t, outfits)
	assert.NotNil(t, outfits)
}

func TestAssemble_DressLayering(t *testing.T) {
	newList := func() Shortlist {
		return Shortlist{
			models.TypeDress:     candidates(newGarment("dress", models.TypeDress, withLab(red))),
			models.TypeShoes:     manyOf(models.TypeShoes, 1),
			models.TypeOuterwear: manyOf(models.TypeOuterwear, 1),
			models.TypeTop: candidates(
				newGarment("tee", models.TypeTop),
				newGarment("cardigan", models.TypeTop, asLayerable()),
			),
		}
	}

	outfits := NewAssembler(DefaultConfig(), FixedPolicy(KindDress)).Assemble(newList())
	require.Len(t, outfits, 1)
	o := outfits[0]
	assert.Equal(t, "dress", o[models.TypeDress].ID)
	assert.Equal(t, "OUTERWEAR-0", o[models.TypeOuterwear].ID)
	assert.Equal(t, OutfitItem{ID: "cardigan", Image: "alice_cardigan.png", Layer: true}, o[models.TypeTop])
	assertHasBase(t, o)

	cfg := DefaultConfig()
	cfg.Layering = false
	outfits = NewAssembler(cfg, FixedPolicy(KindDress)).Assemble(newList())
	require.Len(t, outfits, 1)
	assert.NotContains(t, outfits[0], models.TypeTop)
}

func TestAssemble_SeparatesMatchesAnchor(t *testing.T) {
	list := Shortlist{
		models.TypeTop: candidates(newGarment("red-top", models.TypeTop, withLab(red))),
		models.TypeBottom: candidates(
			newGarment("red-jeans", models.TypeBottom, withLab(red)),
			newGarment("teal-jeans", models.TypeBottom, withColor(53.24, -80.09, -67.2)),
		),
		models.TypeShoes: manyOf(models.TypeShoes, 2),
		models.TypeDress: manyOf(models.TypeDress, 1),
	}
	outfits := NewAssembler(DefaultConfig(), FixedPolicy(KindSeparates)).Assemble(list)

	require.Len(t, outfits, 2)
	assert.Equal(t, "teal-jeans", outfits[0][models.TypeBottom].ID)
	assert.NotContains(t, outfits[0], models.TypeDress)
	assert.Equal(t, KindDress, outfits[1].Kind())
}

func TestAlternatePolicy(t *testing.T) {
	p := &AlternatePolicy{}
	got := []OutfitKind{p.Choose(), p.Choose(), p.Choose(), p.Choose()}
	assert.Equal(t, []OutfitKind{KindSeparates, KindDress, KindSeparates, KindDress}, got)
}

func TestRandomPolicy_Extremes(t *testing.T) {
	rng := seededRand(3)
	always := &RandomPolicy{Rng: rng, DressProbability: 1}
	never := &RandomPolicy{Rng: rng, DressProbability: 0}
	for i := 0; i < 100; i++ {
		assert.Equal(t, KindDress, always.Choose())
		assert.Equal(t, KindSeparates, never.Choose())
	}
}

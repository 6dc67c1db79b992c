package recommender

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/threadline/models"
)

type stubReader struct {
	garments   []models.Garment
	history    []models.WornRecord
	garmentErr error
	historyErr error

	mu      sync.Mutex
	seasons []models.Season
}

func (s *stubReader) ActiveGarments(_ context.Context, _ string, season models.Season) ([]models.Garment, error) {
	s.mu.Lock()
	s.seasons = append(s.seasons, season)
	s.mu.Unlock()
	return s.garments, s.garmentErr
}

func (s *stubReader) WearHistory(context.Context, string) ([]models.WornRecord, error) {
	return s.history, s.historyErr
}

func newTestService(reader WardrobeReader, opts ...Option) *Service {
	opts = append([]Option{
		WithClock(func() time.Time { return testNow }),
		WithRandSource(func() *rand.Rand { return seededRand(42) }),
	}, opts...)
	return NewService(reader, DefaultConfig(), nil, opts...)
}

func TestRecommend_ReadErrorsPropagate(t *testing.T) {
	boom := errors.New("db down")

	_, err := newTestService(&stubReader{garmentErr: boom}).Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonSummer})
	require.ErrorIs(t, err, boom)

	_, err = newTestService(&stubReader{
		garments:   []models.Garment{newGarment("t", models.TypeTop)},
		historyErr: boom,
	}).Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonSummer})
	require.ErrorIs(t, err, boom)
}

func TestRecommend_EmptyWardrobe(t *testing.T) {
	outfits, err := newTestService(&stubReader{}).Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonWinter})
	require.NoError(t, err)
	assert.NotNil(t, outfits)
	assert.Empty(t, outfits)
}

func TestRecommend_PassesSeasonToReader(t *testing.T) {
	reader := &stubReader{}
	_, err := newTestService(reader).Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonWinter})
	require.NoError(t, err)
	assert.Equal(t, []models.Season{models.SeasonWinter}, reader.seasons)
}

func TestRecommend_SeparatesOnlyWardrobe(t *testing.T) {
	reader := &stubReader{}
	for i := 0; i < 5; i++ {
		top := newGarment(fmt.Sprintf("top-%d", i), models.TypeTop, withColor(60, float64(i*10-20), 10))
		if i == 0 {
			top = newGarment("red-top", models.TypeTop, withLab(red))
		}
		reader.garments = append(reader.garments,
			top,
			newGarment(fmt.Sprintf("bottom-%d", i), models.TypeBottom, withColor(30, 0, float64(-i*5))),
			newGarment(fmt.Sprintf("shoes-%d", i), models.TypeShoes, withColor(20, 0, 0)),
		)
	}
	for d := 15; d < 40; d += 3 {
		reader.history = append(reader.history, wornOn("red-top", d))
	}

	outfits, err := newTestService(reader).Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonSummer})
	require.NoError(t, err)
	require.NotEmpty(t, outfits)
	assert.LessOrEqual(t, len(outfits), 5)
	for _, o := range outfits {
		assert.Len(t, o, 3)
		assert.Contains(t, o, models.TypeTop)
		assert.Contains(t, o, models.TypeBottom)
		assert.Contains(t, o, models.TypeShoes)
		assert.NotContains(t, o, models.TypeDress)
		assert.NotContains(t, o, models.TypeOuterwear)
	}
}

func TestRecommend_DressesShareOnePairOfShoes(t *testing.T) {
	reader := &stubReader{garments: []models.Garment{
		newGarment("d1", models.TypeDress, withLab(red)),
		newGarment("d2", models.TypeDress),
		newGarment("s1", models.TypeShoes),
	}}
	outfits, err := newTestService(reader).Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonSummer})
	require.NoError(t, err)
	require.Len(t, outfits, 1)
	assert.Len(t, outfits[0], 2)
	assert.Contains(t, outfits[0], models.TypeDress)
	assert.Equal(t, "s1", outfits[0][models.TypeShoes].ID)
}

func TestRecommend_RainTopIsProducible(t *testing.T) {
	garments, history := favouriteTops()
	garments = append(garments,
		newGarment("b1", models.TypeBottom), newGarment("b2", models.TypeBottom),
		newGarment("s1", models.TypeShoes), newGarment("s2", models.TypeShoes),
	)
	reader := &stubReader{garments: garments, history: history}

	svc := newTestService(reader, WithAnchorPolicy(func(Config, *rand.Rand) AnchorPolicy {
		return FixedPolicy(KindSeparates)
	}))
	outfits, err := svc.Recommend(context.Background(), "alice",
		WeatherContext{Season: models.SeasonSummer, Precip: models.PrecipRain})
	require.NoError(t, err)
	require.Len(t, outfits, 2)
	assert.Equal(t, "rain-top", outfits[0][models.TypeTop].ID)
}

func TestRecommend_ConcurrentCallsIndependent(t *testing.T) {
	reader := &stubReader{garments: randomWardrobe(seededRand(9), 8)}
	svc := NewService(reader, DefaultConfig(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outfits, err := svc.Recommend(context.Background(), "alice", WeatherContext{Season: models.SeasonSummer})
			assert.NoError(t, err)
			assert.Len(t, outfits, 5)
		}()
	}
	wg.Wait()
}

package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/threadline/models"
)

func newWeatherServer(t *testing.T, body string, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "key", r.URL.Query().Get("appid"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherClientCurrent(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		season models.Season
		precip models.Precip
	}{
		{"warm rain", `{"main":{"temp":61.2},"weather":[{"id":501}]}`, models.SeasonSummer, models.PrecipRain},
		{"cold snow", `{"main":{"temp":28},"weather":[{"id":601}]}`, models.SeasonWinter, models.PrecipSnow},
		{"clear", `{"main":{"temp":45},"weather":[{"id":800}]}`, models.SeasonSummer, models.PrecipNone},
		{"thunder", `{"main":{"temp":44.9},"weather":[{"id":211}]}`, models.SeasonWinter, models.PrecipRain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := newWeatherServer(t, tc.body, http.StatusOK, &calls)
			client := NewWeatherClient("key", nil).WithBaseURL(srv.URL)

			w, err := client.Current(context.Background(), 40.7128, -74.006)
			require.NoError(t, err)
			assert.Equal(t, tc.season, w.Season)
			assert.Equal(t, tc.precip, w.Precip)
			assert.Equal(t, tc.season, w.Context().Season)
		})
	}
}

func TestWeatherClientCachesPerCell(t *testing.T) {
	var calls atomic.Int32
	srv := newWeatherServer(t, `{"main":{"temp":70},"weather":[{"id":800}]}`, http.StatusOK, &calls)
	client := NewWeatherClient("key", nil).WithBaseURL(srv.URL)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := client.Current(ctx, 40.71, -74.01)
	require.NoError(t, err)
	_, err = client.Current(ctx, 40.74, -73.98)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = client.Current(ctx, 41.2, -74.0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	now = now.Add(7 * time.Hour)
	_, err = client.Current(ctx, 40.71, -74.01)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWeatherClientProviderError(t *testing.T) {
	var calls atomic.Int32
	srv := newWeatherServer(t, `{"message":"invalid key"}`, http.StatusUnauthorized, &calls)
	client := NewWeatherClient("key", nil).WithBaseURL(srv.URL)

	_, err := client.Current(context.Background(), 1, 2)
	require.ErrorIs(t, err, ErrWeatherUnavailable)
}

func TestPrecipForCondition(t *testing.T) {
	assert.Equal(t, models.PrecipRain, PrecipForCondition(200))
	assert.Equal(t, models.PrecipRain, PrecipForCondition(599))
	assert.Equal(t, models.PrecipSnow, PrecipForCondition(600))
	assert.Equal(t, models.PrecipSnow, PrecipForCondition(699))
	assert.Equal(t, models.PrecipNone, PrecipForCondition(701))
	assert.Equal(t, models.PrecipNone, PrecipForCondition(800))
}

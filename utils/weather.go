package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/recommender"
)

const (
	defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	weatherCacheTTL   = 6 * time.Hour
	// winterBelowF is the temperature under which the winter bucket applies.
	winterBelowF = 45.0
)

// ErrWeatherUnavailable is returned when the provider cannot be reached or answers with an error.
var ErrWeatherUnavailable = errors.New("weather unavailable")

// Weather is the current weather at a location, reduced to what ranking needs.
type Weather struct {
	Season      models.Season `json:"weather"`
	Precip      models.Precip `json:"precip,omitempty"`
	Location    string        `json:"location"`
	Temperature float64       `json:"temp"`
}

// Context returns the recommendation input for this weather.
func (w Weather) Context() recommender.WeatherContext {
	return recommender.WeatherContext{Season: w.Season, Precip: w.Precip}
}

type cachedWeather struct {
	fetched time.Time
	weather Weather
}

// WeatherClient looks up current weather on OpenWeatherMap and caches answers
// per ~0.1 degree cell for six hours.
type WeatherClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cachedWeather
}

func NewWeatherClient(apiKey string, logger *slog.Logger) *WeatherClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: defaultWeatherURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With("component", "weather"),
		now:     time.Now,
		cache:   make(map[string]cachedWeather),
	}
}

// WithBaseURL points the client at another endpoint.
func (c *WeatherClient) WithBaseURL(baseURL string) *WeatherClient {
	c.baseURL = baseURL
	return c
}

func weatherCacheKey(lat, lon float64) string {
	round := func(v float64) float64 { return math.Round(v*10) / 10 }
	return fmt.Sprintf("weather,%.1f,%.1f", round(lat), round(lon))
}

// Current returns the weather at (lat, lon).
func (c *WeatherClient) Current(ctx context.Context, lat, lon float64) (Weather, error) {
	key := weatherCacheKey(lat, lon)
	now := c.now()

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		if now.Sub(cached.fetched) < weatherCacheTTL {
			c.mu.Unlock()
			return cached.weather, nil
		}
		delete(c.cache, key)
	}
	c.mu.Unlock()

	w, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return Weather{}, err
	}

	c.mu.Lock()
	c.cache[key] = cachedWeather{fetched: now, weather: w}
	c.mu.Unlock()
	return w, nil
}

type owmResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		ID int `json:"id"`
	} `json:"weather"`
}

func (c *WeatherClient) fetch(ctx context.Context, lat, lon float64) (Weather, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Weather{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Weather{}, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather provider error", "status", resp.StatusCode)
		return Weather{}, fmt.Errorf("%w: bad status: %s", ErrWeatherUnavailable, resp.Status)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, fmt.Errorf("%w: decode: %v", ErrWeatherUnavailable, err)
	}

	w := Weather{
		Season:      models.SeasonSummer,
		Location:    fmt.Sprintf("%v, %v", lat, lon),
		Temperature: body.Main.Temp,
	}
	if body.Main.Temp < winterBelowF {
		w.Season = models.SeasonWinter
	}
	if len(body.Weather) > 0 {
		w.Precip = PrecipForCondition(body.Weather[0].ID)
	}
	return w, nil
}

// PrecipForCondition maps an OpenWeatherMap condition id to a precipitation
// requirement: thunderstorm, drizzle and rain groups need RAIN, snow needs SNOW.
func PrecipForCondition(id int) models.Precip {
	switch {
	case id >= 200 && id <= 599:
		return models.PrecipRain
	case id >= 600 && id <= 699:
		return models.PrecipSnow
	default:
		return models.PrecipNone
	}
}

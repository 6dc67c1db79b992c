package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/recommender"
	"github.com/raushankrgupta/threadline/utils"
)

// RecommendationResponse is returned by /recommendation/get.
type RecommendationResponse struct {
	Weather utils.Weather        `json:"weather"`
	Outfits []recommender.Outfit `json:"outfits"`
}

// RecommendationHandler suggests outfits for the weather at lat/lon, or for an
// explicit season and precip.
func (s *Server) RecommendationHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder, flush := s.startLog("Recommendation")
	defer flush()

	if !requireMethod(w, r, logMessageBuilder, http.MethodGet) {
		return
	}
	username, ok := usernameFrom(w, r, logMessageBuilder)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	weather, status, err := s.resolveWeather(ctx, r)
	if err != nil {
		utils.RespondError(w, logMessageBuilder, err.Error(), status)
		return
	}
	utils.AddToLogMessagef(logMessageBuilder, "weather=%s precip=%s", weather.Season, weather.Precip)

	outfits, err := s.recommender.Recommend(ctx, username, weather.Context())
	if err != nil {
		respondStoreError(w, logMessageBuilder, "build recommendation", err)
		return
	}

	var keys []string
	for _, o := range outfits {
		for _, item := range o {
			keys = append(keys, item.Image)
		}
	}
	urls := s.presign(ctx, keys)
	for _, o := range outfits {
		for t, item := range o {
			item.Image = urls[item.Image]
			o[t] = item
		}
	}

	utils.AddToLogMessagef(logMessageBuilder, "outfits=%d", len(outfits))
	utils.RespondJSON(w, http.StatusOK, RecommendationResponse{Weather: weather, Outfits: outfits})
}

// resolveWeather prefers explicit season/precip parameters and falls back to
// looking up lat/lon.
func (s *Server) resolveWeather(ctx context.Context, r *http.Request) (utils.Weather, int, error) {
	q := r.URL.Query()

	if seasonParam := q.Get("season"); seasonParam != "" {
		season, err := models.ParseSeason(seasonParam)
		if err != nil {
			return utils.Weather{}, http.StatusBadRequest, err
		}
		precip, err := models.ParsePrecip(q.Get("precip"))
		if err != nil {
			return utils.Weather{}, http.StatusBadRequest, err
		}
		return utils.Weather{Season: season, Precip: precip, Location: "manual"}, http.StatusOK, nil
	}

	latParam, lonParam := strings.TrimSpace(q.Get("lat")), strings.TrimSpace(q.Get("lon"))
	if latParam == "" || lonParam == "" {
		return utils.Weather{}, http.StatusBadRequest, fmt.Errorf("lat and lon, or season, are required")
	}
	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil || lat < -90 || lat > 90 {
		return utils.Weather{}, http.StatusBadRequest, fmt.Errorf("invalid lat %q", latParam)
	}
	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil || lon < -180 || lon > 180 {
		return utils.Weather{}, http.StatusBadRequest, fmt.Errorf("invalid lon %q", lonParam)
	}
	if s.weather == nil {
		return utils.Weather{}, http.StatusServiceUnavailable, fmt.Errorf("weather lookup is not configured")
	}

	weather, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("weather lookup failed", "error", err)
		if errors.Is(err, utils.ErrWeatherUnavailable) {
			return utils.Weather{}, http.StatusBadGateway, fmt.Errorf("failed to fetch weather data")
		}
		return utils.Weather{}, http.StatusInternalServerError, fmt.Errorf("failed to fetch weather data")
	}
	return weather, http.StatusOK, nil
}

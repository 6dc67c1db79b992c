package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/recommender"
	"github.com/raushankrgupta/threadline/storage"
	"github.com/raushankrgupta/threadline/utils"
)

// requestTimeout bounds the storage work done for a single request.
const requestTimeout = 10 * time.Second

// Recommender produces outfits for a user and weather.
type Recommender interface {
	Recommend(ctx context.Context, username string, weather recommender.WeatherContext) ([]recommender.Outfit, error)
}

// WeatherProvider resolves coordinates to current weather.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (utils.Weather, error)
}

// Deps are the collaborators of the HTTP API. Images and Weather may be nil.
type Deps struct {
	Store       storage.Store
	Recommender Recommender
	Images      utils.ImageStore
	Weather     WeatherProvider
	Logger      *slog.Logger
	Now         func() time.Time
}

// Server serves the wardrobe API.
type Server struct {
	store       storage.Store
	recommender Recommender
	images      utils.ImageStore
	weather     WeatherProvider
	logger      *slog.Logger
	now         func() time.Time
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:       deps.Store,
		recommender: deps.Recommender,
		images:      deps.Images,
		weather:     deps.Weather,
		logger:      logger.With("component", "api"),
		now:         now,
	}
}

// Routes returns the API handler wrapped in CORS and latency logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/recommendation/get", s.RecommendationHandler)
	mux.HandleFunc("/clothing/create", s.CreateClothingHandler)
	mux.HandleFunc("/closet/get", s.ClosetHandler)
	mux.HandleFunc("/categories/get", s.CategoriesHandler)
	mux.HandleFunc("/outfit/post", s.LogOutfitHandler)
	mux.HandleFunc("/outfits/get", s.PastOutfitsHandler)
	mux.HandleFunc("/utilization/get", s.UtilizationHandler)
	mux.HandleFunc("/declutter/get", s.DeclutterHandler)
	mux.HandleFunc("/declutter/post", s.DeclutterPostHandler)
	return utils.CORSMiddleware(utils.LatencyMiddleware(s.logger, mux))
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// startLog opens the per-request log builder; call the returned func on exit.
func (s *Server) startLog(route string) (*strings.Builder, func()) {
	var logMessageBuilder strings.Builder
	utils.AddToLogMessage(&logMessageBuilder, "["+route+" API]")
	return &logMessageBuilder, func() {
		utils.FlushLogMessage(s.logger, route, &logMessageBuilder)
	}
}

// requireMethod answers 405 unless r uses method.
func requireMethod(w http.ResponseWriter, r *http.Request, log *strings.Builder, method string) bool {
	if r.Method != method {
		utils.RespondError(w, log, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// usernameFrom reads the username query parameter.
func usernameFrom(w http.ResponseWriter, r *http.Request, log *strings.Builder) (string, bool) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		utils.RespondError(w, log, "username is required", http.StatusBadRequest)
		return "", false
	}
	utils.AddToLogMessagef(log, "username=%s", username)
	return username, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, log *strings.Builder, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondError(w, log, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// respondStoreError maps storage and validation errors to status codes.
func respondStoreError(w http.ResponseWriter, log *strings.Builder, action string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidGarment):
		utils.RespondError(w, log, err.Error(), http.StatusBadRequest)
	default:
		utils.AddToLogMessagef(log, "%s: %v", action, err)
		utils.RespondError(w, log, "Failed to "+action, http.StatusInternalServerError)
	}
}

// presign maps image keys to URLs, leaving them untouched without a blob store.
func (s *Server) presign(ctx context.Context, keys []string) map[string]string {
	return utils.PresignImageURLs(ctx, s.images, keys)
}

package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raushankrgupta/threadline/models"
)

// WardrobeReader is the read access the recommender needs.
type WardrobeReader interface {
	// ActiveGarments returns the user's non-deleted garments in the season's bucket.
	ActiveGarments(ctx context.Context, username string, season models.Season) ([]models.Garment, error)
	// WearHistory returns every wear record of the user's garments.
	WearHistory(ctx context.Context, username string) ([]models.WornRecord, error)
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for recency.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandSource overrides how the per-request random source is created.
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(s *Service) { s.newRand = newRand }
}

// WithAnchorPolicy overrides how the per-request anchor policy is created.
func WithAnchorPolicy(newPolicy func(cfg Config, rng *rand.Rand) AnchorPolicy) Option {
	return func(s *Service) { s.newPolicy = newPolicy }
}

// Service produces outfit recommendations. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	reader    WardrobeReader
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
	newRand   func() *rand.Rand
	newPolicy func(cfg Config, rng *rand.Rand) AnchorPolicy
}

func NewService(reader WardrobeReader, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		reader:    reader,
		cfg:       cfg.Normalize(),
		logger:    logger.With("component", "recommender"),
		now:       time.Now,
		newRand:   func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
		newPolicy: NewAnchorPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the normalised configuration in use.
func (s *Service) Config() Config {
	return s.cfg
}

// Recommend returns up to MaxOutfits outfits for the user and weather.
// An empty wardrobe yields an empty slice and no error.
func (s *Service) Recommend(ctx context.Context, username string, weather WeatherContext) ([]Outfit, error) {
	var (
		garments []models.Garment
		history  []models.WornRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		garments, err = s.reader.ActiveGarments(gctx, username, weather.Season)
		if err != nil {
			return fmt.Errorf("load garments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.reader.WearHistory(gctx, username)
		if err != nil {
			return fmt.Errorf("load wear history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("wardrobe read failed", "username", username, "error", err)
		return nil, err
	}

	if len(garments) == 0 {
		return []Outfit{}, nil
	}

	rng := s.newRand()
	shortlist := NewRanker(s.cfg, rng, s.now()).Rank(garments, history, weather)
	outfits := NewAssembler(s.cfg, s.newPolicy(s.cfg, rng)).Assemble(shortlist)

	s.logger.Debug("recommendation built",
		"username", username,
		"season", weather.Season,
		"precip", weather.Precip,
		"garments", len(garments),
		"wears", len(history),
		"outfits", len(outfits))
	return outfits, nil
}

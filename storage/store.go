package storage

import (
	"context"
	"time"

	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/recommender"
)

// Store is the persistence layer behind the API and the admin CLI.
type Store interface {
	recommender.WardrobeReader

	// EnsureUser returns the user, creating it on first sight.
	EnsureUser(ctx context.Context, username string) (models.User, error)
	CreateGarment(ctx context.Context, g *models.Garment) error
	// ListGarments returns the user's non-deleted garments, newest first.
	ListGarments(ctx context.Context, username string) ([]models.Garment, error)
	// GarmentsByType returns the user's non-deleted garments of one clothing type.
	GarmentsByType(ctx context.Context, username string, t models.ClothingType) ([]models.Garment, error)
	// GarmentsByIDs returns the non-deleted garments among ids owned by username.
	GarmentsByIDs(ctx context.Context, username string, ids []string) ([]models.Garment, error)
	// SoftDeleteGarments flags the given garments as deleted and returns how many changed.
	SoftDeleteGarments(ctx context.Context, username string, ids []string) (int, error)

	CreateOutfit(ctx context.Context, o *models.Outfit) error
	// RecentOutfits returns up to limit logged outfits, newest first.
	RecentOutfits(ctx context.Context, username string, limit int) ([]models.Outfit, error)
	// OutfitsSince returns outfits worn at or after since.
	OutfitsSince(ctx context.Context, username string, since time.Time) ([]models.Outfit, error)

	Close(ctx context.Context) error
}

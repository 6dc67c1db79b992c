package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raushankrgupta/threadline/colors"
	"github.com/raushankrgupta/threadline/config"
	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/utils"
)

var (
	seedUsers     []string
	seedGarments  int
	seedImagesDir string
	seedHistory   bool
	seedRandSeed  uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with random wardrobes and a week of wear history",
	Long: `Create users with random garments for local development.

With --images-dir, each garment gets a random photo from the directory
uploaded to the configured bucket.

Examples:
  threadline-admin seed --backend sqlite
  threadline-admin seed --users alice,bob --garments 40 --history=false`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedUsers, "users", []string{"alice", "bob"}, "Usernames to seed")
	seedCmd.Flags().IntVarP(&seedGarments, "garments", "n", 100, "Garments per user")
	seedCmd.Flags().StringVar(&seedImagesDir, "images-dir", "", "Directory of png/jpeg photos to upload")
	seedCmd.Flags().BoolVar(&seedHistory, "history", true, "Also create a week of outfit history")
	seedCmd.Flags().Uint64Var(&seedRandSeed, "seed", 0, "Random seed (0 picks one)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	seed := seedRandSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	var images []string
	var blob *utils.S3Store
	if seedImagesDir != "" {
		if images, err = listImages(seedImagesDir); err != nil {
			return err
		}
		blob, err = utils.NewS3Store(ctx, utils.S3Options{
			Region:   config.AWSRegion,
			Bucket:   config.AWSBucketName,
			Endpoint: config.AWSEndpointURL,
		}, logger)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for _, username := range seedUsers {
		if _, err := store.EnsureUser(ctx, username); err != nil {
			return err
		}
		garments := randomGarments(rng, username, seedGarments, now)
		if blob != nil && len(images) > 0 {
			if err := uploadPhotos(ctx, blob, rng, images, garments); err != nil {
				return err
			}
		}
		for i := range garments {
			if err := store.CreateGarment(ctx, &garments[i]); err != nil {
				return err
			}
		}

		outfits := 0
		if seedHistory {
			history := weekHistory(rng, username, garments, now)
			for i := range history {
				if err := store.CreateOutfit(ctx, &history[i]); err != nil {
					return err
				}
			}
			outfits = len(history)
		}
		logger.Info("seeded user", "username", username, "garments", len(garments), "outfits", outfits)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seed data created successfully (seed %d).\n", seed)
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".png" || ext == ".jpg" || ext == ".jpeg") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// uploadPhotos assigns each garment a random photo and uploads them in parallel.
func uploadPhotos(ctx context.Context, blob utils.ImageStore, rng *rand.Rand, images []string, garments []models.Garment) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)
	for i := range garments {
		path := images[rng.IntN(len(images))]
		garment := &garments[i]
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			ext, contentType := "png", "image/png"
			if e := strings.ToLower(filepath.Ext(path)); e == ".jpg" || e == ".jpeg" {
				ext, contentType = "jpg", "image/jpeg"
			}
			key, err := blob.Upload(gctx, f, utils.ImageObjectKey(garment.Username, ext), contentType)
			if err != nil {
				return err
			}
			garment.ImageFilename = key
			return nil
		})
	}
	return g.Wait()
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}

func randomLab(rng *rand.Rand) *colors.Lab {
	return &colors.Lab{
		L: rng.Float64() * 100,
		A: rng.Float64()*256 - 128,
		B: rng.Float64()*256 - 128,
	}
}

// randomGarments builds n valid garments with random attributes.
func randomGarments(rng *rand.Rand, username string, n int, now time.Time) []models.Garment {
	precips := []models.Precip{models.PrecipNone, models.PrecipRain, models.PrecipSnow}
	seasons := []models.Season{models.SeasonSummer, models.SeasonWinter}

	out := make([]models.Garment, 0, n)
	for i := 0; i < n; i++ {
		t := pick(rng, models.ClothingTypes)
		out = append(out, models.Garment{
			ID:             uuid.NewString(),
			Username:       username,
			Type:           t,
			Subtype:        pick(rng, models.AllowedSubtypes[t]),
			Fit:            pick(rng, models.Fits),
			Occasion:       pick(rng, models.Occasions),
			PrimaryColor:   randomLab(rng),
			SecondaryColor: randomLab(rng),
			Layerable:      rng.IntN(2) == 0,
			Precip:         pick(rng, precips),
			Season:         pick(rng, seasons),
			ImageFilename:  "no_local_image_found.jpg",
			Tags: map[string]string{
				"brand":  fmt.Sprintf("brand_%d", i),
				"random": fmt.Sprintf("tag_%d", 100+rng.IntN(900)),
			},
			CreatedAt: now.AddDate(0, 0, -rng.IntN(120)),
		})
	}
	return out
}

// weekHistory logs one or two outfits a day for the past week, rewearing a
// few favourites so the rankings have something to learn from.
func weekHistory(rng *rand.Rand, username string, garments []models.Garment, now time.Time) []models.Outfit {
	byType := make(map[models.ClothingType][]models.Garment)
	for _, g := range garments {
		byType[g.Type] = append(byType[g.Type], g)
	}
	tops, bottoms, shoes := byType[models.TypeTop], byType[models.TypeBottom], byType[models.TypeShoes]
	dresses, outerwear := byType[models.TypeDress], byType[models.TypeOuterwear]
	if len(tops) == 0 || len(bottoms) == 0 || len(shoes) == 0 {
		return nil
	}

	favTop, favBottom, favShoes := pick(rng, tops), pick(rng, bottoms), pick(rng, shoes)
	choose := func(fav models.Garment, all []models.Garment, p float64) string {
		if rng.Float64() < p {
			return fav.ID
		}
		return pick(rng, all).ID
	}

	var outfits []models.Outfit
	for daysAgo := 0; daysAgo < 7; daysAgo++ {
		date := now.AddDate(0, 0, -daysAgo)
		for n := 1 + rng.IntN(2); n > 0; n-- {
			var ids []string
			if len(dresses) > 0 && rng.Float64() < 0.2 {
				ids = []string{pick(rng, dresses).ID, choose(favShoes, shoes, 0.5)}
			} else {
				favP := 0.0
				if daysAgo >= 2 {
					favP = 0.6
				}
				ids = []string{
					choose(favTop, tops, favP),
					choose(favBottom, bottoms, favP),
					choose(favShoes, shoes, 0.5),
				}
			}
			if len(outerwear) > 0 && rng.Float64() < 0.7 {
				ids = append(ids, pick(rng, outerwear).ID)
			}
			outfits = append(outfits, models.Outfit{Username: username, ClothingIDs: ids, DateWorn: date})
		}
	}
	return outfits
}

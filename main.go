package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/threadline/api"
	"github.com/raushankrgupta/threadline/config"
	"github.com/raushankrgupta/threadline/recommender"
	"github.com/raushankrgupta/threadline/storage"
	"github.com/raushankrgupta/threadline/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.NewLogger(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close(context.Background())

	tuning, err := config.LoadRecommenderConfig(config.RecommenderConfig)
	if err != nil {
		log.Fatalf("Failed to load recommender config: %v", err)
	}

	deps := api.Deps{
		Store:       store,
		Recommender: recommender.NewService(store, tuning, logger),
		Logger:      logger,
	}
	if config.AWSBucketName != "" {
		images, err := utils.NewS3Store(ctx, utils.S3Options{
			Region:   config.AWSRegion,
			Bucket:   config.AWSBucketName,
			Endpoint: config.AWSEndpointURL,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		deps.Images = images
	} else {
		logger.Warn("AWS_BUCKET_NAME not set, image upload disabled")
	}
	if config.OpenWeatherMapAPIKey != "" {
		deps.Weather = utils.NewWeatherClient(config.OpenWeatherMapAPIKey, logger)
	} else {
		logger.Warn("OPENWEATHERMAP_API_KEY not set, weather lookup disabled")
	}

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           api.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", "port", config.Port, "backend", config.StorageBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func openStore(ctx context.Context, logger *slog.Logger) (storage.Store, error) {
	if config.StorageBackend == config.BackendSQLite {
		return storage.NewSQLStore(config.SQLitePath)
	}

	// Initialize MongoDB
	if err := utils.ConnectMongo(ctx, config.MongoURI, logger); err != nil {
		return nil, err
	}
	store := storage.NewMongoStore(config.DBName, logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

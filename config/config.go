package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/raushankrgupta/threadline/recommender"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

var (
	MongoURI             string
	Port                 string
	DBName               string
	StorageBackend       string
	SQLitePath           string
	AWSRegion            string
	AWSBucketName        string
	AWSEndpointURL       string
	OpenWeatherMapAPIKey string
	LogLevel             string
	RecommenderConfig    string
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = getenv("MONGO_URI", "mongodb://localhost:27017/")
	Port = getenv("PORT", "8080")
	DBName = getenv("DB_NAME", "threadline")
	StorageBackend = getenv("STORAGE_BACKEND", BackendMongo)
	SQLitePath = getenv("SQLITE_PATH", "data/threadline.db")
	AWSRegion = getenv("AWS_REGION", "auto")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
	AWSEndpointURL = os.Getenv("AWS_ENDPOINT_URL")
	OpenWeatherMapAPIKey = os.Getenv("OPENWEATHERMAP_API_KEY")
	LogLevel = getenv("LOG_LEVEL", "info")
	RecommenderConfig = os.Getenv("RECOMMENDER_CONFIG")
}

// LoadRecommenderConfig reads engine tuning from a YAML file and merges it
// over the defaults. An empty path yields the defaults.
func LoadRecommenderConfig(path string) (recommender.Config, error) {
	cfg := recommender.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read recommender config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return recommender.DefaultConfig(), fmt.Errorf("parse recommender config: %w", err)
	}
	return cfg.Normalize(), nil
}

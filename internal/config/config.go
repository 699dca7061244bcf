package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the VidTube backend service.
type Config struct {
	AppPort        int
	MongoURI       string
	MongoDatabase  string
	LogLevel       string
	JWTSecret      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	FFProbePath    string
	FFProbeTimeout time.Duration
	ObjectStore    ObjectStoreConfig
}

// ObjectStoreConfig describes the S3-compatible bucket receiving media uploads.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Load reads configuration from environment variables, applying sensible
// defaults for local development. A .env file in the working directory is
// loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppPort:        getInt("VIDTUBE_PORT", 8080),
		MongoURI:       getString("VIDTUBE_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getString("VIDTUBE_MONGO_DATABASE", "vidtube"),
		LogLevel:       getString("VIDTUBE_LOG_LEVEL", "info"),
		JWTSecret:      getString("VIDTUBE_JWT_SECRET", "dev-secret-change-me"),
		AccessTTL:      getDuration("VIDTUBE_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:     getDuration("VIDTUBE_REFRESH_TTL", 10*24*time.Hour),
		FFProbePath:    getString("VIDTUBE_FFPROBE_PATH", "ffprobe"),
		FFProbeTimeout: getDuration("VIDTUBE_FFPROBE_TIMEOUT", 30*time.Second),
		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("VIDTUBE_S3_BUCKET", ""),
			Region:        getString("VIDTUBE_S3_REGION", "us-east-1"),
			Endpoint:      getString("VIDTUBE_S3_ENDPOINT", ""),
			PublicBaseURL: getString("VIDTUBE_S3_PUBLIC_URL", ""),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

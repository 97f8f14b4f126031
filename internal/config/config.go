package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env      string
	Database DatabaseConfig
	Gemini   GeminiConfig
	Scout    ScoutConfig
	API      APIConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// GeminiConfig holds classifier configuration
type GeminiConfig struct {
	APIKey      string
	Model       string
	MinInterval time.Duration
}

// ScoutConfig holds ingestion daemon configuration
type ScoutConfig struct {
	CatalogPath         string
	ChromeProfileDir    string
	MarketplaceCooldown time.Duration
	StoresCooldown      time.Duration
	ModelPause          time.Duration
}

// APIConfig holds dashboard API configuration
type APIConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "pianoscout"),
		},
		Gemini: GeminiConfig{
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			MinInterval: getEnvDuration("CLASSIFIER_MIN_INTERVAL", time.Second),
		},
		Scout: ScoutConfig{
			CatalogPath:         getEnv("CATALOG_PATH", "data/target_models.csv"),
			ChromeProfileDir:    getEnv("CHROME_PROFILE_DIR", "chrome_profile"),
			MarketplaceCooldown: getEnvDuration("MARKETPLACE_COOLDOWN", 10*time.Minute),
			StoresCooldown:      getEnvDuration("STORES_COOLDOWN", time.Minute),
			ModelPause:          getEnvDuration("MODEL_PAUSE", 30*time.Second),
		},
		API: APIConfig{
			Port: getEnv("PORT", "8090"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration env var, accepting plain seconds too.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

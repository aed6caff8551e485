package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisURL      string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	JWTSecret   string
	JWTTTL      time.Duration
	GeminiKey   string
	GeminiModel string

	// Timezone is the wall-clock zone session timestamps are interpreted in.
	// StoreUTC controls whether they are converted to UTC before storage; both
	// behaviours exist in deployed installs and must stay selectable.
	Timezone string
	Location *time.Location
	StoreUTC bool

	DefaultDailyQuota int
	ChatTokenCost     int
	CardTokenCost     int
	ChatHistoryLimit  int

	Debug bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "planora"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "planora-uploads"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Timezone:       getEnv("TIMEZONE", "Asia/Kolkata"),
		StoreUTC:       getEnvBool("STORE_UTC", false),
		Debug:          getEnvBool("DEBUG", false),
	}

	cfg.JWTTTL = time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour
	cfg.DefaultDailyQuota = getEnvInt("DEFAULT_DAILY_QUOTA", 500)
	cfg.ChatTokenCost = getEnvInt("CHAT_TOKEN_COST", 50)
	cfg.CardTokenCost = getEnvInt("CARD_TOKEN_COST", 50)
	cfg.ChatHistoryLimit = getEnvInt("CHAT_HISTORY_LIMIT", 50)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

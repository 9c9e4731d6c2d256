package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port                   string
	DatabaseURL            string
	LogLevel               string
	AllowedOrigins         []string
	AutoMatchMinConfidence int
	AutoMatchBatchLimit    int
}

func Load() Config {
	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:         []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},
		AutoMatchMinConfidence: getEnvInt("AUTO_MATCH_MIN_CONFIDENCE", 85),
		AutoMatchBatchLimit:    getEnvInt("AUTO_MATCH_BATCH_LIMIT", 500),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "syndic"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}
	return cfg
}

// InitDB opens the Postgres connection used by the whole service.
func InitDB(cfg Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

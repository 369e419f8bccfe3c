package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Country code treated as domestic for matching; buyers from any other
	// country only match verified farmers.
	HomeCountry string

	// Optional external text-generation API used for match reasons.
	// Empty AIAPIKey disables the call and the templated fallback is used.
	AIServiceURL string
	AIAPIKey     string
	AIModel      string

	Env string // "development" or "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] .env file not found, using environment variables")
	}

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=agritrade port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		HomeCountry:  getEnv("HOME_COUNTRY", "GH"),
		AIServiceURL: getEnv("AI_SERVICE_URL", "https://api.openai.com/v1/chat/completions"),
		AIAPIKey:     getEnv("AI_API_KEY", ""),
		AIModel:      getEnv("AI_MODEL", "gpt-4o-mini"),
		Env:          getEnv("APP_ENV", "development"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.AIAPIKey == "" {
		log.Println("[WARN] AI_API_KEY not set, match reasons will use the templated fallback")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

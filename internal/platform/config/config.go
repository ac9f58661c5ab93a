// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs from the environment.
type Config struct {
	Addr          string
	Env           string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string
	TokenTTL      time.Duration
	CORSOrigins   []string
	UploadDir     string
	MigrationsDir string
}

// FromEnv builds a Config from environment variables. A .env file in the
// working directory is loaded first when present, matching local development
// setups; real deployments set the environment directly.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("PRAGATI_ADDR", ":5000"),
		Env:           getenv("APP_ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      24 * time.Hour,
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.TokenTTL = d
		}
	}

	origins := getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg
}

// Production reports whether the server runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

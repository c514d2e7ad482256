package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultJWTSecret keeps local development working out of the box. Any
// non-development environment must override it.
const defaultJWTSecret = "dev-only-insecure-jwt-secret"

type Config struct {
	// Server
	Port           string
	Environment    string
	AllowedOrigins []string

	// Database
	DatabaseURL    string
	StorageTimeout time.Duration

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Admin bootstrap
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4200"), ","),
		DatabaseURL:    getEnv("DATABASE_URL", "store.db"),
		StorageTimeout: time.Duration(getEnvInt("STORAGE_TIMEOUT_SECONDS", 5)) * time.Second,
		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:       time.Duration(getEnvInt("JWT_TTL_HOURS", 168)) * time.Hour,
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		AdminEmail:     getEnv("DEFAULT_ADMIN_EMAIL", "admin@ipodstore.com"),
		AdminPassword:  getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
	}

	if cfg.Environment != "development" && cfg.Environment != "test" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in %s", cfg.Environment)
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("DEFAULT_ADMIN_PASSWORD must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

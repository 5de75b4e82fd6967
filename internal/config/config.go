package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	LogLevel     string
	Port         string
}

// ClientConfig configures the pantry command line client.
type ClientConfig struct {
	APIURL      string
	SessionFile string
	SessionKey  string
	Retries     int
}

// loadDotEnv reads .env when present. A missing file is not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	tokenTTL, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing TOKEN_TTL: %w", err)
	}
	if tokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive")
	}

	config := Config{
		DatabasePath: envOrDefault("DATABASE_PATH", "./data/pantry.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     tokenTTL,
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Port:         envOrDefault("PORT", "8080"),
	}

	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

func LoadClient() (ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return ClientConfig{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	retries, err := strconv.Atoi(envOrDefault("PANTRY_RETRIES", "0"))
	if err != nil || retries < 0 {
		return ClientConfig{}, fmt.Errorf("PANTRY_RETRIES must be a non-negative integer")
	}

	config := ClientConfig{
		APIURL:      envOrDefault("PANTRY_API_URL", "http://localhost:8080"),
		SessionFile: envOrDefault("PANTRY_SESSION_FILE", filepath.Join(home, ".config", "pantry", "session")),
		SessionKey:  os.Getenv("PANTRY_SESSION_KEY"),
		Retries:     retries,
	}

	if config.SessionKey == "" {
		return ClientConfig{}, fmt.Errorf("PANTRY_SESSION_KEY is required")
	}

	return config, nil
}

// LogLevel maps a LOG_LEVEL value onto a slog level, defaulting to info.
func LogLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

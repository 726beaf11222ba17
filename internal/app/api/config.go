package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	"github.com/orderdesk/inventory-api/internal/shared/auth"
)

// Config carries the settings for the API process. Values come from an
// optional YAML file (CONFIG_FILE) overlaid with environment variables;
// environment wins.
type Config struct {
	Port              string        `yaml:"port"`
	Environment       string        `yaml:"environment"`
	PostgresDSN       string        `yaml:"postgresDsn"`
	RedisAddr         string        `yaml:"redisAddr"`
	JWTSecret         string        `yaml:"jwtSecret"`
	TokenTTL          time.Duration `yaml:"tokenTtl"`
	CookieSecure      bool          `yaml:"cookieSecure"`
	UploadDir         string        `yaml:"uploadDir"`
	DefaultCancelNote string        `yaml:"defaultCancelNote"`
	TemporalAddress   string        `yaml:"temporalAddress"`
	TemporalNamespace string        `yaml:"temporalNamespace"`
	TemporalDisabled  bool          `yaml:"temporalDisabled"`
}

// LoadConfig reads the optional YAML file, applies environment overrides and
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              "8080",
		Environment:       "local",
		TokenTTL:          auth.DefaultTokenTTL,
		UploadDir:         "uploads",
		TemporalAddress:   client.DefaultHostPort,
		TemporalNamespace: client.DefaultNamespace,
	}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse CONFIG_FILE: %w", err)
		}
	}

	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.Environment = envDefault("ENVIRONMENT", cfg.Environment)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = envDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.JWTSecret = envDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.UploadDir = envDefault("UPLOAD_DIR", cfg.UploadDir)
	cfg.DefaultCancelNote = envDefault("DEFAULT_CANCEL_NOTE", cfg.DefaultCancelNote)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	if raw := os.Getenv("TEMPORAL_DISABLED"); raw != "" {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		cfg.CookieSecure = isTruthy(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("TOKEN_TTL_HOURS must be a positive integer")
		}
		cfg.TokenTTL = time.Duration(hours) * time.Hour
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

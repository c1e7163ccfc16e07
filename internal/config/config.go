package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config carries everything main reads from the environment. Components get
// the values injected instead of branching on the environment themselves, so
// each one can be pointed at a mock endpoint in tests.
type Config struct {
	AppHost        string
	DatabaseURL    string
	JWTSecret      string
	CRMBaseURL     string
	CRMTimeout     time.Duration
	DefaultStatus  string
	SessionTTL     time.Duration
	AllowedOrigins []string
}

// Load reads the environment once. Only DATABASE_URL, JWT_SECRET and
// CRM_BASE_URL are mandatory.
func Load() (Config, error) {
	cfg := Config{
		AppHost:       os.Getenv("APP_HOST"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CRMBaseURL:    os.Getenv("CRM_BASE_URL"),
		CRMTimeout:    30 * time.Second,
		DefaultStatus: "Planned",
		SessionTTL:    30 * time.Minute,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.CRMBaseURL == "" {
		return Config{}, fmt.Errorf("CRM_BASE_URL environment variable is not set")
	}

	if timeout := os.Getenv("CRM_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRM_TIMEOUT: %w", err)
		}
		cfg.CRMTimeout = parsed
	}

	if status := os.Getenv("DEFAULT_STATUS_FILTER"); status != "" {
		cfg.DefaultStatus = status
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = parsed
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	return cfg, nil
}
